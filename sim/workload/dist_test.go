package workload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Burst_AppliesDefaults(t *testing.T) {
	d, err := Parse("burst")
	require.NoError(t, err)

	b, ok := d.(*Burst)
	require.True(t, ok, "expected *Burst, got %T", d)
	assert.Equal(t, &Burst{Count: 1, Duration: 10, Delay: 1, Period: 0}, b)
	assert.Equal(t, "burst", d.Name())
}

func TestParse_NameIsCaseInsensitive(t *testing.T) {
	d, err := Parse("BURST,count=2,period=5")
	require.NoError(t, err)
	assert.Equal(t, "burst,count=2,duration=10,delay=1,period=5,lifetime=0", d.String())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"unknown distribution", "uniform,count=1", "unknown distribution"},
		{"empty token", "", "unknown distribution"},
		{"missing equals", "burst,count", "malformed parameter"},
		{"non-integer value", "burst,count=two", "parameter \"count\""},
		{"unknown key", "burst,rate=3", "unknown parameter \"rate\""},
		{"count greater than one without period", "burst,count=2,period=0", "need valid period"},
		{"zero count", "burst,count=0", "count must be >= 1"},
		{"negative delay", "burst,delay=-1", "must be >= 0"},
		{"poisson zero mean", "poisson,mean=0", "mean must be >= 1"},
		{"duplicate key", "burst,count=1,count=5", "duplicate parameter \"count\""},
		{"burst period past clock range", "burst,count=3,duration=1,period=9000000000000000000", "last arrival exceeds"},
		{"burst delay past clock range", "burst,duration=3,delay=9000000000000000000", "last arrival exceeds"},
		{"burst lifetime past clock range", "burst,count=2,period=1,duration=1,lifetime=9223372036854775807", "last arrival exceeds"},
		{"poisson start past clock range", "poisson,count=1,start=9223372036854775807", "arrivals exceed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Parse(tc.token)
			assert.Nil(t, d)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDistribution)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParse_LargestRepresentableBurstAccepted(t *testing.T) {
	d, err := Parse("burst,count=2,duration=1,period=9223372036854775807")
	require.NoError(t, err)
	sink := &recordingSink{}
	require.NoError(t, d.Apply(sink, nil))
	assert.Equal(t, []int64{0, math.MaxInt64}, sink.arrivals())
}

func TestParseAll_FailsBeforeApplyingAnything(t *testing.T) {
	// GIVEN one valid and one invalid token
	tokens := []string{"burst,count=1,duration=3", "burst,count=2,period=0"}

	// WHEN parsed together
	dists, err := ParseAll(tokens)

	// THEN nothing is returned to apply
	require.ErrorIs(t, err, ErrInvalidDistribution)
	assert.Nil(t, dists)
}

func TestParseAll_RequiresAtLeastOneToken(t *testing.T) {
	_, err := ParseAll(nil)
	assert.ErrorIs(t, err, ErrInvalidDistribution)
}

func TestParseAll_PreservesOrder(t *testing.T) {
	dists, err := ParseAll([]string{"poisson,count=1", "burst"})
	require.NoError(t, err)
	require.Len(t, dists, 2)
	assert.Equal(t, "poisson", dists[0].Name())
	assert.Equal(t, "burst", dists[1].Name())
}

func TestNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"burst", "poisson"}, Names())
}
