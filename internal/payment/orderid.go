package payment

import (
	"strconv"
	"strings"
	"time"

	"github.com/GlebRadaev/bumdes/pkg/validate"
)

const orderIDPrefix = "SETOR-"

// NewOrderID builds a gateway order id: the prefix, the unix time in
// milliseconds and a Luhn check digit over those milliseconds.
func NewOrderID(now time.Time) (string, error) {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	digit, err := validate.LuhnDigit(ms)
	if err != nil {
		return "", err
	}
	return orderIDPrefix + ms + digit, nil
}

// ValidOrderID reports whether id could have been issued by NewOrderID.
func ValidOrderID(id string) bool {
	num, ok := strings.CutPrefix(id, orderIDPrefix)
	return ok && len(num) > 1 && validate.IsLuhn(num)
}
