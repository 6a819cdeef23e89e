// Package repotest holds pgxmock helpers shared by repository tests.
package repotest

import (
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
)

type decimalArg struct {
	want decimal.Decimal
}

func (a decimalArg) Match(v any) bool {
	d, ok := v.(decimal.Decimal)
	return ok && d.Equal(a.want)
}

// Dec matches a decimal.Decimal argument by value, ignoring its exponent.
func Dec(s string) pgxmock.Argument {
	return decimalArg{want: decimal.RequireFromString(s)}
}
