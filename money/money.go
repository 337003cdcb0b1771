package money

import (
	"fmt"
	"sort"
	"strings"
)

// Currency is an ISO 4217 currency code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	JPY Currency = "JPY"
	GBP Currency = "GBP"
	KRW Currency = "KRW"
)

// MultiAmount holds at most one amount per currency. Adding an amount in a
// currency already present sums the values. Values are plain float64 with no
// minor-unit snapping; report-scale rounding is the caller's concern.
type MultiAmount map[Currency]float64

// Of builds a MultiAmount with a single entry.
func Of(ccy Currency, value float64) MultiAmount {
	return MultiAmount{ccy: value}
}

// Plus returns a new MultiAmount with (ccy, value) added in.
func (m MultiAmount) Plus(ccy Currency, value float64) MultiAmount {
	out := make(MultiAmount, len(m)+1)
	for c, v := range m {
		out[c] = v
	}
	out[ccy] += value
	return out
}

// PlusAll returns a new MultiAmount combining m and o entry-wise.
func (m MultiAmount) PlusAll(o MultiAmount) MultiAmount {
	out := make(MultiAmount, len(m)+len(o))
	for c, v := range m {
		out[c] = v
	}
	for c, v := range o {
		out[c] += v
	}
	return out
}

// Scale returns a new MultiAmount with every value multiplied by f.
func (m MultiAmount) Scale(f float64) MultiAmount {
	out := make(MultiAmount, len(m))
	for c, v := range m {
		out[c] = v * f
	}
	return out
}

// Get returns the value held for ccy, zero when absent.
func (m MultiAmount) Get(ccy Currency) float64 {
	return m[ccy]
}

func (m MultiAmount) String() string {
	ccys := make([]string, 0, len(m))
	for c := range m {
		ccys = append(ccys, string(c))
	}
	sort.Strings(ccys)
	parts := make([]string, 0, len(ccys))
	for _, c := range ccys {
		parts = append(parts, fmt.Sprintf("%s %.4f", c, m[Currency(c)]))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
