package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
)

// Property: money formatting always carries a dollar sign, exactly two
// decimal places, and a leading minus only for negative amounts.
func TestProperty_FormatMoneyShape(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("money format shape", prop.ForAll(
		func(v float64) bool {
			s := FormatMoney(decimal.NewFromFloat(v))

			if strings.HasPrefix(s, "-") {
				if v >= 0 {
					return false
				}
				if !strings.HasPrefix(s, "-$") {
					return false
				}
			} else if v <= -0.01 {
				return false
			}

			dot := strings.LastIndex(s, ".")
			if dot == -1 || len(s)-dot-1 != 2 {
				return false
			}
			return strings.Contains(s, "$")
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("quantity format never ends in a dot", prop.ForAll(
		func(v float64) bool {
			s := FormatQuantity(decimal.NewFromFloat(v))
			return !strings.HasSuffix(s, ".") && s != ""
		},
		gen.Float64Range(0.000001, 1e6),
	))

	properties.TestingRun(t)
}
