package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeZ(t *testing.T) {
	assert.InDelta(t, 1.0, EdgeZ(230, 220, 10), 1e-12)
	assert.InDelta(t, -1.0, EdgeZ(210, 220, 10), 1e-12)
	assert.Equal(t, 0.0, EdgeZ(230, 220, 0))
	assert.Equal(t, 0.0, EdgeZ(math.NaN(), 220, 10))
}

func TestTimeScalar_MonotonicAndClamped(t *testing.T) {
	prev := math.Inf(1)
	for remPoss := 200.0; remPoss >= 0; remPoss -= 5 {
		cur := TimeScalar(remPoss, 0.15, 1.2)
		assert.LessOrEqual(t, cur, prev)
		assert.GreaterOrEqual(t, cur, 0.15)
		assert.LessOrEqual(t, cur, 1.2)
		prev = cur
	}
	assert.InDelta(t, 0.5, TimeScalar(25, 0.15, 1.2), 1e-12)
}

func TestBaseStd_HighThreeRate(t *testing.T) {
	cfg := DefaultModelConfig().Volatility
	assert.Equal(t, 13.0, BaseStd(cfg, 0.35))
	assert.InDelta(t, 14.3, BaseStd(cfg, 0.45), 1e-9)
	assert.True(t, HighVariance(cfg, 0.45))
	assert.False(t, HighVariance(cfg, 0.42))
}

func TestComputeVolatility(t *testing.T) {
	cfg := DefaultModelConfig().Volatility
	v := ComputeVolatility(cfg, 0.3, 25, 226.5, 220)

	// 13 · sqrt(25/100) = 6.5
	assert.InDelta(t, 6.5, v.VolStd, 1e-12)
	assert.InDelta(t, 1.0, v.EdgeZ, 1e-12)
}

func TestVolStd_Clamped(t *testing.T) {
	assert.Equal(t, 2.0, VolStd(13, 0.01, 2, 20))
	assert.Equal(t, 20.0, VolStd(30, 1, 2, 20))
}
