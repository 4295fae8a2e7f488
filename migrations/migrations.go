package migrations

import (
	"database/sql"
	"time"
)

// AutoMigratePricingFormulas creates the pricing_formulas table if it does not exist.
func AutoMigratePricingFormulas(retries int, dbs ...*sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS pricing_formulas (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			product_type VARCHAR(100) NOT NULL,
			formula TEXT NOT NULL,
			quantity_tiers JSON NOT NULL,
			paper_multipliers JSON NOT NULL,
			finishing_costs JSON NOT NULL,
			min_margin DOUBLE NOT NULL,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_product_type_active (product_type, is_active)
		);
	`
	for _, db := range dbs {
		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
		}
	}
	return nil
}
