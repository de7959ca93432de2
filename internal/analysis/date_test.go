package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshalFormats(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
	}{
		{"iso date", `"2024-01-15"`},
		{"rfc3339", `"2024-01-15T00:00:00Z"`},
		{"flask jsonify", `"Mon, 15 Jan 2024 00:00:00 GMT"`},
		{"epoch millis", `1705276800000`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &d))
			assert.True(t, want.Equal(d.Time), "got %s", d.Time)
		})
	}
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}

func TestDateUnmarshalNull(t *testing.T) {
	d := NewDate(time.Now())
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
}

func TestAnalysisResultDecoding(t *testing.T) {
	body := `{
		"metrics": {"cagr": 12.3, "xirr": null},
		"historical_data": {"12_month": {"dates": ["2024-01-01", "2024-01-02"], "values": [10, 10.5]}},
		"recommendation": {"recommendation": "CONTINUE HOLDING", "score": 5, "reasons": ["Good consistent growth"], "action_items": ["Review in 3 months"]}
	}`

	var res AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(body), &res))

	require.NotNil(t, res.Metrics["cagr"])
	assert.Equal(t, 12.3, *res.Metrics["cagr"])
	v, ok := res.Metrics["xirr"]
	assert.True(t, ok)
	assert.Nil(t, v)

	s, ok := SeriesForPeriod(res.HistoricalData, 12)
	require.True(t, ok)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "CONTINUE HOLDING", res.Recommendation.Label)
	assert.Nil(t, res.Comparative)
	assert.Nil(t, res.Trends)
}

func TestPeriodHelpers(t *testing.T) {
	m, ok := PeriodMonths("36_month")
	assert.True(t, ok)
	assert.Equal(t, 36, m)

	_, ok = PeriodMonths("max")
	assert.False(t, ok)

	assert.Equal(t, "1Y", PeriodName(12))
	assert.Equal(t, "6M", PeriodName(6))

	data := map[string]Series{"60_month": {}, "1_month": {}, "max": {}, "12": {}}
	assert.Equal(t, []string{"1_month", "12", "60_month", "max"}, SortedPeriodKeys(data))
}
