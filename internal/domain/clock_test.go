package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 9*60 + 30},
		{in: "23:59", want: MinutesPerDay - 1},
		{in: "24:00", want: MinutesPerDay},
		{in: "24:01", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "14:15:59", wantErr: true},
		{in: "9:05", wantErr: true},
		{in: "09:5", wantErr: true},
		{in: "9:3", wantErr: true},
		{in: "+9:05", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockOrdering(t *testing.T) {
	a, _ := ParseClock("09:59")
	b, _ := ParseClock("10:00")
	assert.Less(t, a, b)
	assert.Equal(t, "10:30", b.Add(30).String())
}

func TestClockJSON(t *testing.T) {
	var v struct {
		Start Clock `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"08:05"}`), &v))
	assert.Equal(t, Clock(8*60+5), v.Start)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"08:05"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"8 o'clock"}`), &v))
}

func TestClockScan(t *testing.T) {
	var c Clock
	require.NoError(t, c.Scan("13:45:00"))
	assert.Equal(t, "13:45", c.String())

	require.NoError(t, c.Scan([]byte("07:10:00.000000")))
	assert.Equal(t, "07:10", c.String())

	// 数据库中带秒的值只保留到分钟
	require.NoError(t, c.Scan("09:00:59"))
	assert.Equal(t, "09:00", c.String())

	require.NoError(t, c.Scan("24:00:00"))
	assert.Equal(t, Clock(MinutesPerDay), c)

	require.NoError(t, c.Scan(time.Date(0, 1, 1, 18, 20, 0, 0, time.UTC)))
	assert.Equal(t, "18:20", c.String())

	assert.Error(t, c.Scan(42))
}
