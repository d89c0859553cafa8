package hr

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders a number (or numeric string) as Brazilian reais.
// Anything that does not parse renders as zero.
func FormatBRL(v any) string {
	num, ok := toFloat(v)
	if !ok || math.IsNaN(num) || math.IsInf(num, 0) {
		num = 0
	}
	sign := ""
	if num < 0 {
		sign = "-"
		num = -num
	}
	return sign + "R$ " + brPrinter.Sprintf("%.2f", num)
}

// FormatDate turns an ISO date into dd/mm/yyyy, returning the input unchanged
// when it is not a date.
func FormatDate(iso string) string {
	parsed, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return iso
	}
	return parsed.Format("02/01/2006")
}

func toFloat(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case *float64:
		if value == nil {
			return 0, false
		}
		return *value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
