package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecordValid(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected bool
	}{
		{"title and positive price", Record{Title: "Elbise", Price: decimal.NewFromInt(100)}, true},
		{"empty title", Record{Price: decimal.NewFromInt(100)}, false},
		{"zero price", Record{Title: "Elbise"}, false},
		{"negative price", Record{Title: "Elbise", Price: decimal.NewFromInt(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.record.Valid())
		})
	}
}

func TestRecordPrimaryImage(t *testing.T) {
	rec := Record{ImageURLs: []string{"https://cdn.dsmcdn.com/a.jpg", "https://cdn.dsmcdn.com/b.jpg"}}
	assert.Equal(t, "https://cdn.dsmcdn.com/a.jpg", rec.PrimaryImage())
	assert.Empty(t, (&Record{}).PrimaryImage())
}
