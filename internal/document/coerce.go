package document

import (
	"strconv"
	"strings"
	"time"
)

// ParseDecimal coerces a raw value into a float64. Strings may carry
// currency formatting: dollar signs, thousands separators, surrounding
// whitespace, and accountant-style parentheses for negatives. Failure
// reports ok=false, never an error.
func ParseDecimal(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		cleaned := strings.TrimSpace(n)
		negative := false
		if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
			negative = true
			cleaned = cleaned[1 : len(cleaned)-1]
		}
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		cleaned = strings.ReplaceAll(cleaned, " ", "")
		cleaned = strings.TrimPrefix(cleaned, "$")
		if cleaned == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		if negative {
			f = -f
		}
		return f, true
	default:
		return 0, false
	}
}

// dateLayouts in resolution order. ISO first; the US layout catches
// legacy transcript exports.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
}

// ParseDate coerces a raw value into a time. Accepts ISO dates, RFC 3339
// timestamps, and US-style mm/dd/yyyy.
func ParseDate(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		if t, ok := v.(time.Time); ok {
			return t, true
		}
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseInt coerces a raw value into an int. String input tolerates
// thousands separators and decimal notation.
func ParseInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if cleaned == "" {
			return 0, false
		}
		i, err := strconv.Atoi(cleaned)
		if err != nil {
			f, err := strconv.ParseFloat(cleaned, 64)
			if err != nil {
				return 0, false
			}
			return int(f), true
		}
		return i, true
	default:
		return 0, false
	}
}

// ParseText coerces a raw value into a trimmed non-empty string. Numbers
// are formatted; zip codes and years arrive as either.
func ParseText(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10), true
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	default:
		return "", false
	}
}

// ParseBool coerces a raw value into a bool.
func ParseBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0":
			return false, true
		}
		return false, false
	case float64:
		return b != 0, true
	case int:
		return b != 0, true
	default:
		return false, false
	}
}
