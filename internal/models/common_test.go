package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSafeDate(t *testing.T) {
	t.Run("ISO timestamp", func(t *testing.T) {
		got := ParseSafeDate("2025-01-15T10:30:00Z")
		assert.Equal(t, 2025, got.Year())
		assert.Equal(t, time.January, got.Month())
		assert.Equal(t, 15, got.Day())
	})

	t.Run("date only", func(t *testing.T) {
		got := ParseSafeDate("2025-03-01")
		assert.Equal(t, "2025-03-01", DayKey(got))
	})

	t.Run("locale string", func(t *testing.T) {
		got := ParseSafeDate("Jan 2, 2025")
		assert.Equal(t, "2025-01-02", DayKey(got))
	})

	t.Run("seconds map", func(t *testing.T) {
		got := ParseSafeDate(map[string]interface{}{"seconds": float64(1735689600)})
		assert.Equal(t, int64(1735689600), got.Unix())
	})

	t.Run("unix seconds", func(t *testing.T) {
		got := ParseSafeDate(float64(1735689600))
		assert.Equal(t, int64(1735689600), got.Unix())
	})

	t.Run("nil yields sentinel", func(t *testing.T) {
		assert.True(t, IsEpoch(ParseSafeDate(nil)))
	})

	t.Run("garbage yields sentinel", func(t *testing.T) {
		assert.True(t, IsEpoch(ParseSafeDate("not a date")))
		assert.True(t, IsEpoch(ParseSafeDate("")))
		assert.True(t, IsEpoch(ParseSafeDate(struct{}{})))
	})

	t.Run("zero time yields sentinel", func(t *testing.T) {
		assert.True(t, IsEpoch(ParseSafeDate(time.Time{})))
	})
}

func TestFormatDisplayDate(t *testing.T) {
	d := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "09/06/2025", FormatDisplayDate(d))
	assert.Equal(t, "N/A", FormatDisplayDate(Epoch))
	assert.Equal(t, "N/A", FormatDisplayDate(time.Time{}))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹1500.50", FormatCurrency("₹", 1500.5))
	assert.Equal(t, "$0.00", FormatCurrency("$", math.NaN()))
	assert.Equal(t, "$0.00", FormatCurrency("$", math.Inf(1)))
}

func TestDayKeyComparison(t *testing.T) {
	morning := time.Date(2025, 5, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 5, 10, 23, 59, 0, 0, time.UTC)
	next := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, DayKey(morning), DayKey(evening))
	assert.True(t, DayKey(evening) < DayKey(next))
}

func TestAddMonths(t *testing.T) {
	issue := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-02-15", DayKey(AddMonths(issue, 1)))
	assert.Equal(t, "2025-07-15", DayKey(AddMonths(issue, 6)))

	// Month-end normalization rolls forward, matching time.AddDate.
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-03", DayKey(AddMonths(jan31, 1)))
}

func TestNumericUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `1500.75`, 1500.75},
		{"string number", `"2500"`, 2500},
		{"null", `null`, 0},
		{"garbage string", `"abc"`, 0},
		{"empty string", `""`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var n Numeric
			err := json.Unmarshal([]byte(tc.in), &n)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, n.Float())
		})
	}
}

func TestFlexDateUnmarshal(t *testing.T) {
	t.Run("ISO string", func(t *testing.T) {
		var d FlexDate
		assert.NoError(t, json.Unmarshal([]byte(`"2025-04-01T00:00:00Z"`), &d))
		assert.Equal(t, "2025-04-01", DayKey(d.Time()))
	})

	t.Run("seconds object", func(t *testing.T) {
		var d FlexDate
		assert.NoError(t, json.Unmarshal([]byte(`{"seconds": 1735689600}`), &d))
		assert.Equal(t, int64(1735689600), d.Time().Unix())
	})

	t.Run("bare seconds", func(t *testing.T) {
		var d FlexDate
		assert.NoError(t, json.Unmarshal([]byte(`1735689600`), &d))
		assert.Equal(t, int64(1735689600), d.Time().Unix())
	})

	t.Run("null", func(t *testing.T) {
		var d FlexDate
		assert.NoError(t, json.Unmarshal([]byte(`null`), &d))
		assert.True(t, d.IsZero())
	})

	t.Run("missing date marshals as null", func(t *testing.T) {
		b, err := json.Marshal(FlexDate{})
		assert.NoError(t, err)
		assert.Equal(t, "null", string(b))
	})
}
