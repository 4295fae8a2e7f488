package config

import "os"

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// DatabaseDSN is the MySQL connection string for the pricing database.
func DatabaseDSN() string {
	return getEnv("DATABASE_DSN", "root:@tcp(127.0.0.1:3306)/pricing-db?parseTime=true")
}

// RedisAddr is the address of the redis instance backing the formula cache.
func RedisAddr() string {
	return getEnv("REDIS_ADDR", "localhost:6379")
}

// Port is the HTTP listen port.
func Port() string {
	return getEnv("PORT", "8084")
}

// JWTSecret signs the admin route tokens.
func JWTSecret() string {
	return getEnv("JWT_SECRET", "secret")
}
