package dotenv

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// trimSet is the set of bytes stripped from both ends of unquoted values.
const trimSet = " \t\n\r\v\x00"

func trimValue(s string) string { return strings.Trim(s, trimSet) }

// cast converts an unquoted value to its typed form.
func (p *parser) cast(value string) any {
	trimmed := trimValue(value)

	if p.castBool {
		switch trimmed {
		case "true":
			return true
		case "false":
			return false
		}
	}

	if p.castNumeric {
		if n, ok := parseNumber(trimmed); ok {
			return n
		}
	}

	return trimmed
}

// parseNumber converts decimal numeric text to int64 or float64.
//
// Accepted forms are an optional sign, digits with at most one decimal point
// (at least one digit overall) and an optional exponent. Text without a
// fraction or exponent becomes int64 unless it overflows. Text whose
// magnitude exceeds float64 is not a number.
func parseNumber(s string) (any, bool) {
	i, n := 0, len(s)

	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits, integral := 0, true

	for ; i < n && isDigit(s[i]); i++ {
		digits++
	}

	if i < n && s[i] == '.' {
		integral = false

		for i++; i < n && isDigit(s[i]); i++ {
			digits++
		}
	}

	if digits == 0 {
		return nil, false
	}

	if i < n && (s[i] == 'e' || s[i] == 'E') {
		integral = false
		i++

		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}

		exp := 0
		for ; i < n && isDigit(s[i]); i++ {
			exp++
		}

		if exp == 0 {
			return nil, false
		}
	}

	if i != n {
		return nil, false
	}

	if integral {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v, true
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, false
	}

	// Underflow rounds to zero, overflow would be infinite.
	if math.IsInf(v, 0) {
		return nil, false
	}

	return v, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
