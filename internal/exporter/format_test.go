package exporter

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
)

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		cell any
		want string
	}{
		{"nil", nil, ""},
		{"string", "AAPL", "AAPL"},
		{"price", Price(101.005), "101.01"},
		{"negative percent", Pct(-6.481481481481481), "-6.4815"},
		{"ratio", Ratio(-0.05635313531353134), "-0.056353"},
		{"int", 42, "42"},
		{"int64", int64(13200), "13200"},
		{"null int", null.Int{}, ""},
		{"valid null int", null.IntFrom(3000), "3000"},
		{"bool", true, "true"},
		{"date", time.Date(2017, 1, 2, 0, 0, 0, 0, time.UTC), "2017-01-02"},
		{"unsupported", struct{}{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cellString(tt.cell))
		})
	}
}

func TestNum_Rounded(t *testing.T) {
	assert.Equal(t, 2.35, Price(2.345).Rounded())
	assert.Equal(t, -2.35, Price(-2.345).Rounded())
	assert.Equal(t, 14.0, Pct(14).Rounded())
	assert.Equal(t, 0.333333, Ratio(1.0/3).Rounded())
}
