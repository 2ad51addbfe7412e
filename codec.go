// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/AlekSi/pointer"
)

// Codec converts between a typed field value and its wire string.
//
// Encode reports false when the value is absent; absent values are never
// sent to the device.
type Codec[T any] interface {
	Encode(v T) (string, bool)
	Decode(s string) (T, error)
}

// Built-in codecs
var (
	StringCodec           Codec[string]         = stringCodec{}
	BoolCodec             Codec[bool]           = boolCodec{}
	IntCodec              Codec[int]            = intCodec{}
	DurationCodec         Codec[time.Duration]  = durationCodec{}
	OptionalDurationCodec Codec[*time.Duration] = optionalDurationCodec{}
	OptionalBoolCodec     Codec[*bool]          = optionalBoolCodec{}
	ListCodec             Codec[[]string]       = listCodec{}
)

type stringCodec struct{}

func (stringCodec) Encode(v string) (string, bool) { return v, v != "" }

func (stringCodec) Decode(s string) (string, error) { return s, nil }

type boolCodec struct{}

func (boolCodec) Encode(v bool) (string, bool) { return FormatBool(v), true }

func (boolCodec) Decode(s string) (bool, error) { return ParseBool(s) }

type intCodec struct{}

func (intCodec) Encode(v int) (string, bool) { return strconv.Itoa(v), true }

func (intCodec) Decode(s string) (int, error) { return strconv.Atoi(strings.TrimSpace(s)) }

type durationCodec struct{}

func (durationCodec) Encode(v time.Duration) (string, bool) { return FormatDuration(v), true }

func (durationCodec) Decode(s string) (time.Duration, error) {
	if isUnbounded(s) {
		return 0, fmt.Errorf("duration %q has no finite value", s)
	}
	return ParseDuration(s)
}

type optionalDurationCodec struct{}

func (optionalDurationCodec) Encode(v *time.Duration) (string, bool) {
	if v == nil {
		return "", false
	}
	return FormatDuration(*v), true
}

func (optionalDurationCodec) Decode(s string) (*time.Duration, error) {
	if s == "" || isUnbounded(s) {
		return nil, nil
	}
	d, err := ParseDuration(s)
	if err != nil {
		return nil, err
	}
	return pointer.ToDuration(d), nil
}

type optionalBoolCodec struct{}

func (optionalBoolCodec) Encode(v *bool) (string, bool) {
	if v == nil {
		return "", false
	}
	return FormatBool(*v), true
}

func (optionalBoolCodec) Decode(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	b, err := ParseBool(s)
	if err != nil {
		return nil, err
	}
	return pointer.ToBool(b), nil
}

type listCodec struct{}

func (listCodec) Encode(v []string) (string, bool) {
	if len(v) == 0 {
		return "", false
	}
	return strings.Join(v, ","), true
}

func (listCodec) Decode(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// FormatBool renders a boolean as the device expects it
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// ParseBool accepts true/false and yes/no, case-insensitively
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes":
		return true, nil
	case "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// isUnbounded reports the words the device uses for "no timeout"
func isUnbounded(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "never", "infinite", "unlimited":
		return true
	}
	return false
}

var durationUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"w", 7 * 24 * time.Hour},
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
	{"ms", time.Millisecond},
}

// FormatDuration renders a duration in the compact device form, e.g.
// "1w2d3h4m5s". Zero renders as "0s"; sub-millisecond precision is dropped.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	var builder strings.Builder
	if d < 0 {
		builder.WriteByte('-')
		d = -d
	}
	for _, u := range durationUnits {
		if n := d / u.unit; n > 0 {
			builder.WriteString(strconv.FormatInt(int64(n), 10))
			builder.WriteString(u.suffix)
			d -= n * u.unit
		}
	}
	if builder.Len() == 0 || builder.String() == "-" {
		return "0s"
	}
	return builder.String()
}

// ParseDuration parses the duration forms printed by the device:
//
//   - compact units: "1w2d3h4m5s", "10m", "500ms"
//   - clock form: "00:05:00", "1d 02:00:00", "2w1d00:00:10"
//   - a bare number as the whole input, taken as seconds
//
// A leading '-' negates the value. Values beyond the range of
// time.Duration are rejected.
func ParseDuration(s string) (time.Duration, error) {
	in := strings.TrimSpace(s)
	negative := strings.HasPrefix(in, "-")
	if negative {
		in = in[1:]
	}
	if in == "" || in[0] < '0' || in[0] > '9' {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var total time.Duration
	rest := in
	for first := true; rest != ""; first = false {
		rest = strings.TrimLeft(rest, " ")
		if rest == "" {
			break
		}
		if strings.Contains(rest, ":") && isClock(rest) {
			d, err := parseClock(rest)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q: %w", s, err)
			}
			if total > math.MaxInt64-d {
				return 0, fmt.Errorf("invalid duration %q: out of range", s)
			}
			total += d
			break
		}

		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		n, err := strconv.ParseInt(rest[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		rest = rest[i:]

		j := 0
		for j < len(rest) && rest[j] >= 'a' && rest[j] <= 'z' {
			j++
		}
		suffix := rest[:j]
		rest = rest[j:]
		if suffix == "" {
			if !first || rest != "" {
				return 0, fmt.Errorf("invalid duration %q: missing unit", s)
			}
			suffix = "s"
		}

		unit, ok := durationUnit(suffix)
		if !ok {
			return 0, fmt.Errorf("invalid duration %q: unknown unit %q", s, suffix)
		}
		if n > int64(math.MaxInt64/unit) {
			return 0, fmt.Errorf("invalid duration %q: out of range", s)
		}
		d := time.Duration(n) * unit
		if total > math.MaxInt64-d {
			return 0, fmt.Errorf("invalid duration %q: out of range", s)
		}
		total += d
	}
	if negative {
		total = -total
	}
	return total, nil
}

func durationUnit(suffix string) (time.Duration, bool) {
	for _, u := range durationUnits {
		if u.suffix == suffix {
			return u.unit, true
		}
	}
	return 0, false
}

func isClock(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && c != ':' && c != '.' {
			return false
		}
	}
	return true
}

// parseClock parses "hh:mm:ss" with an optional fractional second
func parseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("clock value %q must be hh:mm:ss", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}
	if minutes >= 60 || seconds >= 60 || hours > int(math.MaxInt64/time.Hour)-1 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second)), nil
}
