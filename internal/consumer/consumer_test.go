package consumer

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

type recordingInvalidator struct {
	invalidated []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, productType string) error {
	r.invalidated = append(r.invalidated, productType)
	return nil
}

func TestProcessMessage(t *testing.T) {
	tests := []struct {
		name            string
		key             string
		wantInvalidated []string
	}{
		{"updated event", "formula.updated.business_card", []string{"business_card"}},
		{"deleted event", "formula.deleted.flyer", []string{"flyer"}},
		{"unknown action", "formula.created.business_card", nil},
		{"unknown key shape", "order.created.42", nil},
		{"empty key", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &recordingInvalidator{}
			c := NewConsumer(inv)

			c.processMessage(context.Background(), kafka.Message{Key: []byte(tt.key)})
			assert.Equal(t, tt.wantInvalidated, inv.invalidated)
		})
	}
}
