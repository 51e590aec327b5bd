package dbtest

import (
	"testing"

	"github.com/shopspring/decimal"
)

func decimalOf(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

// D parses s or fails the test.
func D(t *testing.T, s string) decimal.Decimal { return decimalOf(t, s) }
