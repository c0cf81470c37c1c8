package timex

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Duration is a wrapper around time.Duration that marshals to and from a human string ("2m30s")
// and also accepts a raw number of nanoseconds when unmarshalling
type Duration time.Duration

var Second = Duration(time.Second)
var Minute = Duration(time.Minute)
var Hour = Duration(time.Hour)
var Day = Duration(time.Hour * 24)
var Week = Duration(time.Hour * 24 * 7)

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := Parse(value)
		if err != nil {
			return err
		}
		*d = tmp
		return nil
	default:
		return errors.New("invalid duration")
	}
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	tmp, err := Parse(s)

	if err != nil {
		return err
	}

	*d = tmp
	return nil
}

var units = map[string]Duration{
	"d": Day,
	"w": Week,
}

// Parse accepts everything time.ParseDuration does plus a trailing "d" (days) or "w" (weeks)
// unit, e.g. "3d" or "1w"
func Parse(s string) (Duration, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return 0, errors.New("empty duration")
	}

	if unit, ok := units[s[len(s)-1:]]; ok {
		var n int64
		if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &n); err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		return Duration(n) * unit, nil
	}

	tmp, err := time.ParseDuration(s)

	if err != nil {
		return 0, err
	}

	return Duration(tmp), nil
}

// Humanize renders a duration the way users read it ("1 day, 2 hours and 5 seconds").
// Sub-second remainders are rounded up to one second.
func Humanize(d time.Duration) string {
	if d <= 0 {
		return "0 seconds"
	}

	if d%time.Second != 0 {
		d = d.Truncate(time.Second) + time.Second
	}

	parts := []struct {
		name string
		size time.Duration
	}{
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
		{"second", time.Second},
	}

	var out []string
	for _, p := range parts {
		n := d / p.size
		if n == 0 {
			continue
		}
		d -= n * p.size

		if n == 1 {
			out = append(out, fmt.Sprintf("1 %s", p.name))
		} else {
			out = append(out, fmt.Sprintf("%d %ss", n, p.name))
		}
	}

	if len(out) == 1 {
		return out[0]
	}

	return strings.Join(out[:len(out)-1], ", ") + " and " + out[len(out)-1]
}
