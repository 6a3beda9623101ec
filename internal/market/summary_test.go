package market

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMarketCap(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1250000", "1.25M"},
		{"1000000", "1.00M"},
		{"999999", "1000.00K"},
		{"45300", "45.30K"},
		{"1000", "1.00K"},
		{"999.4", "999.40"},
		{"0", "0.00"},
	}

	for _, tc := range cases {
		mc := decimal.RequireFromString(tc.in)
		assert.Equal(t, tc.want, FormatMarketCap(mc), "market cap %s", tc.in)
	}
}
