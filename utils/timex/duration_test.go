package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d.Std())

	d, err = Parse("3d")
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, d.Std())

	d, err = Parse("1w")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d.Std())

	_, err = Parse("")
	assert.Error(t, err)

	_, err = Parse("xd")
	assert.Error(t, err)
}

func TestDurationJSON(t *testing.T) {
	b, err := json.Marshal(Duration(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(b))

	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"2d"`), &d))
	assert.Equal(t, 48*time.Hour, d.Std())

	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &d))
	assert.Equal(t, time.Second, d.Std())

	assert.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "0 seconds", Humanize(0))
	assert.Equal(t, "1 second", Humanize(300*time.Millisecond))
	assert.Equal(t, "2 minutes", Humanize(2*time.Minute))
	assert.Equal(t, "1 day, 2 hours and 5 seconds", Humanize(26*time.Hour+5*time.Second))
	assert.Equal(t, "1 hour and 1 minute", Humanize(61*time.Minute))
}
