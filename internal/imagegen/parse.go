package imagegen

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Numeric fields are parsed leniently: whatever leading number can be read is
// used and anything else counts as absent. Malformed client input therefore
// falls back to defaults instead of failing the request. Clients rely on this.

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// maxSafeInt bounds numbers that survive a float64 round trip.
const maxSafeInt = 1<<53 - 1

func parseInt(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case float64:
		return truncate(t)
	case int:
		return truncate(float64(t))
	case string:
		m := leadingInt.FindString(strings.TrimSpace(t))
		if m == "" {
			return 0, false
		}
		i, err := strconv.Atoi(m)
		if err != nil || i > maxSafeInt || i < -maxSafeInt {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func truncate(f float64) (int, bool) {
	if math.IsNaN(f) || math.Abs(f) > maxSafeInt {
		return 0, false
	}
	return int(f), true
}

func parseFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case string:
		m := leadingFloat.FindString(strings.TrimSpace(t))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// intOrDefault treats zero like a missing value.
func intOrDefault(v any, def int) int {
	if i, ok := parseInt(v); ok && i != 0 {
		return i
	}
	return def
}

func floatOrDefault(v any, def float64) float64 {
	if f, ok := parseFloat(v); ok && f != 0 {
		return f
	}
	return def
}

// stringValue returns v when it is a non-empty string.
func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
