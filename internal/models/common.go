package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Epoch is the sentinel returned for missing or unparsable dates. Display
// code renders it as "N/A" instead of 01/01/1970.
var Epoch = time.Unix(0, 0).UTC()

// dateLayouts are tried in order when parsing a date string. The stored
// documents mix RFC3339 timestamps, bare dates and locale-formatted strings.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseSafeDate converts any stored date representation into a time.Time.
// Accepts nil, time.Time, a map with a numeric "seconds" field (document
// store timestamp), or a date string. Anything unparsable yields Epoch.
// Never panics.
func ParseSafeDate(v interface{}) time.Time {
	switch d := v.(type) {
	case nil:
		return Epoch
	case time.Time:
		if d.IsZero() {
			return Epoch
		}
		return d
	case *time.Time:
		if d == nil || d.IsZero() {
			return Epoch
		}
		return *d
	case FlexDate:
		return d.Time()
	case map[string]interface{}:
		if secs, ok := toFloat(d["seconds"]); ok {
			return time.Unix(int64(secs), 0).UTC()
		}
		return Epoch
	case string:
		return parseDateString(d)
	case json.Number:
		if secs, err := d.Float64(); err == nil {
			return time.Unix(int64(secs), 0).UTC()
		}
		return Epoch
	case float64:
		return time.Unix(int64(d), 0).UTC()
	case int64:
		return time.Unix(d, 0).UTC()
	default:
		return Epoch
	}
}

func parseDateString(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return Epoch
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return Epoch
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// IsEpoch reports whether t is the missing-date sentinel.
func IsEpoch(t time.Time) bool {
	return t.IsZero() || t.Equal(Epoch)
}

// FormatDisplayDate renders a date as DD/MM/YYYY, or "N/A" for the sentinel.
func FormatDisplayDate(t time.Time) string {
	if IsEpoch(t) {
		return "N/A"
	}
	return t.Format("02/01/2006")
}

// FormatCurrency renders an amount with a currency symbol prefix and fixed
// two decimals. NaN and infinities are treated as 0.
func FormatCurrency(symbol string, amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return fmt.Sprintf("%s%.2f", symbol, amount)
}

// DayKey truncates a time to calendar-day granularity for comparisons.
// Day keys compare correctly as plain strings.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey buckets a time by calendar month (YYYY-MM).
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// AddMonths advances a date by n calendar months with Go's normalization
// (Jan 31 + 1 month rolls into March), matching how the schedule has always
// been anchored.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// Numeric is a float64 that unmarshals from a JSON number, a numeric string,
// or null. Legacy documents store loan terms either way. Invalid input
// coerces to 0 rather than failing the whole record.
type Numeric float64

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (n *Numeric) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = Numeric(f)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Numeric) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		f = 0
	}
	return json.Marshal(f)
}

// Float returns the underlying float64.
func (n Numeric) Float() float64 {
	return float64(n)
}

// FlexDate is a date that unmarshals from any representation ParseSafeDate
// accepts: ISO strings, date-only strings, {seconds: n} timestamp objects,
// bare unix seconds, or null.
type FlexDate struct {
	t time.Time
}

// NewFlexDate wraps a time.Time.
func NewFlexDate(t time.Time) FlexDate {
	return FlexDate{t: t}
}

// Time returns the parsed time, or Epoch when unset.
func (d FlexDate) Time() time.Time {
	if d.t.IsZero() {
		return Epoch
	}
	return d.t
}

// IsZero reports whether the date is missing or unparsable.
func (d FlexDate) IsZero() bool {
	return IsEpoch(d.t)
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error.
func (d *FlexDate) UnmarshalJSON(b []byte) error {
	var v interface{}
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		d.t = Epoch
		return nil
	}
	d.t = ParseSafeDate(v)
	return nil
}

// MarshalJSON implements json.Marshaler. Missing dates serialize as null.
func (d FlexDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.t.Format(time.RFC3339))
}
