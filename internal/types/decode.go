package types

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// instantLayouts are the date string formats accepted by DecodeInstant, in
// the order they are tried.
var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DecodeInstant normalizes the heterogeneous createdAt encodings found in
// the orders collection into a single comparable instant. It recognizes,
// in order:
//
//	(a) a string parseable as a date
//	(b) a native date value (time.Time or BSON datetime)
//	(c) a nested document {"$date": "<date string>"}
//	(d) a nested document {"$date": {"$numberLong": "<epoch millis>"}}
//
// Anything else returns (zero, false). The zero instant sorts as "oldest
// possible", so unknown timestamps always lose deduplication ties and fail
// age-threshold checks closed. Decode failures are soft: they never raise.
func DecodeInstant(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v.UTC(), true
	case primitive.DateTime:
		return v.Time().UTC(), true
	case string:
		return parseInstantString(v)
	case primitive.M:
		return decodeInstantDoc(map[string]any(v))
	case map[string]any:
		return decodeInstantDoc(v)
	case primitive.D:
		return decodeInstantDoc(v.Map())
	default:
		return time.Time{}, false
	}
}

func parseInstantString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func decodeInstantDoc(doc map[string]any) (time.Time, bool) {
	inner, ok := doc["$date"]
	if !ok {
		// A bare {"$numberLong": "..."} wrapper is also accepted so that
		// documents exported through Extended JSON round-trip cleanly.
		if millis, ok := decodeEpochMillis(doc); ok {
			return time.UnixMilli(millis).UTC(), true
		}
		return time.Time{}, false
	}

	switch v := inner.(type) {
	case string:
		return parseInstantString(v)
	case primitive.M:
		if millis, ok := decodeEpochMillis(map[string]any(v)); ok {
			return time.UnixMilli(millis).UTC(), true
		}
	case map[string]any:
		if millis, ok := decodeEpochMillis(v); ok {
			return time.UnixMilli(millis).UTC(), true
		}
	case primitive.D:
		if millis, ok := decodeEpochMillis(v.Map()); ok {
			return time.UnixMilli(millis).UTC(), true
		}
	case primitive.DateTime:
		return v.Time().UTC(), true
	}
	return time.Time{}, false
}

func decodeEpochMillis(doc map[string]any) (int64, bool) {
	raw, ok := doc["$numberLong"]
	if !ok {
		return 0, false
	}
	s, ok := raw.(string)
	if !ok {
		return 0, false
	}
	millis, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return millis, true
}

// DecodeAmount normalizes the heterogeneous amount encodings into minor
// currency units (paise). It recognizes plain numbers, numeric strings, and
// the Extended JSON wrapper documents {"$numberInt": "..."} and
// {"$numberLong": "..."}. Anything else returns (0, false); callers fall
// back to the fixed default price rather than dropping the record.
func DecodeAmount(raw any) (int64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case string:
		return parseAmountString(v)
	case primitive.M:
		return decodeAmountDoc(map[string]any(v))
	case map[string]any:
		return decodeAmountDoc(v)
	case primitive.D:
		return decodeAmountDoc(v.Map())
	default:
		return 0, false
	}
}

func parseAmountString(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

func decodeAmountDoc(doc map[string]any) (int64, bool) {
	for _, key := range []string{"$numberInt", "$numberLong", "$numberDouble"} {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		if s, ok := raw.(string); ok {
			return parseAmountString(s)
		}
	}
	return 0, false
}

// NormalizePhone converts a stored phone value into the 10-digit national
// format expected by the messaging provider. The value may be a string or a
// bare number; a leading +91 country code and any non-digit characters are
// stripped. Returns ("", false) when the value is absent or does not reduce
// to exactly 10 digits.
func NormalizePhone(raw any) (string, bool) {
	var s string
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		s = v
	case int:
		s = strconv.FormatInt(int64(v), 10)
	case int32:
		s = strconv.FormatInt(int64(v), 10)
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		s = strconv.FormatInt(int64(v), 10)
	default:
		return "", false
	}

	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+91")

	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	normalized := digits.String()
	if len(normalized) != 10 {
		return "", false
	}
	return normalized, true
}
