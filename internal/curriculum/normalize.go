package curriculum

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ── Field normalizers ──
//
// Every normalizer is total: a cell that cannot be interpreted resolves to the
// field default (false / nil) instead of an error.

// dateLayout accepts one- and two-digit day and month values.
const dateLayout = "2.1.2006"

// missingMarkers are the textual NA markers of common tabular readers.
var missingMarkers = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

var (
	passedValues = map[string]struct{}{
		"1": {}, "1.0": {}, "ja": {}, "j": {}, "yes": {}, "y": {},
		"true": {}, "wahr": {}, "x": {}, "passed": {}, "bestanden": {},
	}
	failedValues = map[string]struct{}{
		"0": {}, "0.0": {}, "nein": {}, "n": {}, "no": {}, "false": {},
		"f": {}, "nicht": {}, "nicht bestanden": {},
	}
)

// IsMissing reports whether a cell holds no value.
func IsMissing(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(val)
	case float32:
		return math.IsNaN(float64(val))
	case string:
		_, ok := missingMarkers[strings.TrimSpace(val)]
		return ok
	case []byte:
		_, ok := missingMarkers[strings.TrimSpace(string(val))]
		return ok
	}
	return false
}

// CellText renders a cell verbatim; missing cells become the empty string.
func CellText(v any) string {
	if IsMissing(v) {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format("02.01.2006")
	}
	return fmt.Sprint(v)
}

// ParsePassed maps the heterogeneous pass flag representations to a boolean.
// Anything ambiguous is false.
func ParsePassed(v any) bool {
	if IsMissing(v) {
		return false
	}

	if f, ok := numeric(v); ok {
		return truncatesToOne(f)
	}
	if b, ok := v.(bool); ok {
		return b
	}

	s := strings.ToLower(strings.TrimSpace(CellText(v)))
	if _, ok := passedValues[s]; ok {
		return true
	}
	if _, ok := failedValues[s]; ok {
		return false
	}

	f, err := parseDecimal(s)
	if err != nil {
		return false
	}
	return truncatesToOne(f)
}

// ParseGrade reads a decimal grade; a comma is accepted as decimal separator.
func ParseGrade(v any) *float64 {
	if IsMissing(v) {
		return nil
	}

	if f, ok := numeric(v); ok {
		return finite(f)
	}
	if _, ok := v.(bool); ok {
		return nil
	}

	s := strings.TrimSpace(strings.ReplaceAll(CellText(v), ",", "."))
	f, err := parseDecimal(s)
	if err != nil {
		return nil
	}
	return finite(f)
}

// ParseDate reads a dd.mm.yyyy date as midnight in loc.
func ParseDate(v any, loc *time.Location) *time.Time {
	if loc == nil {
		loc = time.Local
	}
	if IsMissing(v) {
		return nil
	}

	if t, ok := v.(time.Time); ok {
		y, m, d := t.Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return &date
	}

	s, ok := v.(string)
	if !ok {
		return nil
	}
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return nil
	}
	return &date
}

// ParseSemester coerces a semester cell to a positive integer.
// Integral floats such as "2.0" are accepted.
func ParseSemester(v any) (int, bool) {
	if IsMissing(v) {
		return 0, false
	}

	var f float64
	switch val := v.(type) {
	case int:
		return positive(val)
	case int64:
		return positive(int(val))
	case int32:
		return positive(int(val))
	case bool:
		return 0, false
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.Atoi(s); err == nil {
			return positive(n)
		}
		parsed, err := parseDecimal(s)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		parsed, ok := numeric(v)
		if !ok {
			return 0, false
		}
		f = parsed
	}

	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return positive(int(f))
}

// ── helpers ──

var errNotDecimal = errors.New("not a decimal number")

// parseDecimal is strconv.ParseFloat restricted to decimal notation.
func parseDecimal(s string) (float64, error) {
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, errNotDecimal
	}
	return strconv.ParseFloat(s, 64)
}

func numeric(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint32:
		return float64(val), true
	}
	return 0, false
}

func truncatesToOne(f float64) bool {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return math.Trunc(f) == 1
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func positive(n int) (int, bool) {
	if n < 1 {
		return 0, false
	}
	return n, true
}
