// Package units converts between the fixed-point integers used on chain and
// the plain reals the pricing curves work with.
package units

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

const (
	// DefaultDecimals is the wad scale, 10^18.
	DefaultDecimals = 18
	// DefaultSecondsPerPeriod expresses elapsed time in days.
	DefaultSecondsPerPeriod = 24 * 60 * 60
	// MaxDecimals keeps 10^decimals below 2^256.
	MaxDecimals = 77
)

var ErrOverflow = errors.New("value does not fit in uint256")

// Scale holds the unit conventions of a caller: how many decimals fixed-point
// values carry and how many seconds make up one pricing period.
type Scale struct {
	Decimals         int32
	SecondsPerPeriod int64
}

// DefaultScale is wad values with time in days.
func DefaultScale() Scale {
	return Scale{Decimals: DefaultDecimals, SecondsPerPeriod: DefaultSecondsPerPeriod}
}

func (s Scale) Validate() error {
	if s.Decimals < 0 || s.Decimals > MaxDecimals {
		return fmt.Errorf("decimals must be between 0 and %d, got %d", MaxDecimals, s.Decimals)
	}
	if s.SecondsPerPeriod <= 0 {
		return fmt.Errorf("seconds per period must be greater than 0, got %d", s.SecondsPerPeriod)
	}
	return nil
}

// ParseFixed parses a base-10 integer of any width and divides it by
// 10^Decimals. The result is the nearest float64 to the exact quotient.
func (s Scale) ParseFixed(raw string) (float64, error) {
	d, err := parseInteger(raw)
	if err != nil {
		return 0, err
	}
	f, _ := d.Shift(-s.Decimals).Float64()
	if math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %q overflows float64", raw)
	}
	return f, nil
}

// ParseCount parses a plain (unscaled) integer such as a sold count.
func ParseCount(raw string) (float64, error) {
	d, err := parseInteger(raw)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

func parseInteger(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errors.New("empty value")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid integer %q: %w", raw, err)
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("invalid integer %q: fractional part", raw)
	}
	return d, nil
}

// Periods converts elapsed seconds to pricing periods.
func (s Scale) Periods(seconds int64) float64 {
	return float64(seconds) / float64(s.SecondsPerPeriod)
}

// ToFixed multiplies v by 10^Decimals in float64 and truncates toward zero,
// the same rounding a float-based reference pricer applies before encoding.
func (s Scale) ToFixed(v float64) (*uint256.Int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("cannot scale non-finite value %v", v)
	}
	if v < 0 {
		return nil, fmt.Errorf("cannot encode negative value %v", v)
	}
	scaled := v * math.Pow10(int(s.Decimals))
	if math.IsInf(scaled, 0) {
		return nil, fmt.Errorf("%w: %v * 10^%d", ErrOverflow, v, s.Decimals)
	}
	i, _ := new(big.Float).SetFloat64(math.Trunc(scaled)).Int(nil)
	out, overflow := uint256.FromBig(i)
	if overflow {
		return nil, fmt.Errorf("%w: %s", ErrOverflow, i)
	}
	return out, nil
}

// FormatFixed renders a fixed-point integer as a decimal string, e.g.
// 1500000000000000000 with 18 decimals as "1.5".
func (s Scale) FormatFixed(v *uint256.Int) string {
	return decimal.NewFromBigInt(v.ToBig(), -s.Decimals).String()
}
