package conversations

import (
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"
)

// NormalizeTimestamp converts a raw JSON value into a time, or nil when the
// value carries nothing usable. Numbers are POSIX epoch seconds; strings go
// through a permissive parser. Malformed input never errors; every parse
// failure degrades to nil and the caller supplies its own default.
func NormalizeTimestamp(value any) *time.Time {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		return &v
	case *time.Time:
		return v
	case float64:
		return epochToTime(v)
	case int:
		return epochToTime(float64(v))
	case int64:
		return epochToTime(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return epochToTime(f)
	case string:
		if v == "" {
			return nil
		}
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return nil
		}
		return &t
	default:
		return nil
	}
}

func epochToTime(seconds float64) *time.Time {
	sec := int64(seconds)
	nsec := int64((seconds - float64(sec)) * float64(time.Second))
	t := time.Unix(sec, nsec).UTC()
	return &t
}
