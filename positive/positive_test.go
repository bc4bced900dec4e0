package positive_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvflow/positive"
)

var allKinds = []positive.Kind{positive.Softplus, positive.Exponential, positive.SaturatingExponential}

func TestNew_Validation(t *testing.T) {
	_, err := positive.New(positive.WithLowerBound(0))
	require.ErrorIs(t, err, positive.ErrBadLowerBound)

	_, err = positive.New(positive.WithLowerBound(-1))
	require.ErrorIs(t, err, positive.ErrBadLowerBound)

	_, err = positive.New(positive.WithKind(positive.SaturatingExponential), positive.WithUpperBound(0))
	require.ErrorIs(t, err, positive.ErrMissingUpperBound)

	_, err = positive.New(positive.WithLowerBound(2), positive.WithUpperBound(1))
	require.ErrorIs(t, err, positive.ErrBadUpperBound)

	_, err = positive.New(positive.WithKind(positive.Kind(42)))
	require.ErrorIs(t, err, positive.ErrUnknownKind)

	// non-saturating kinds accept a missing upper bound
	tr, err := positive.New(positive.WithKind(positive.Exponential), positive.WithUpperBound(0))
	require.NoError(t, err)
	_, ok := tr.UpperBound()
	assert.False(t, ok)
}

func TestWithBounds_PanicOnNonFinite(t *testing.T) {
	assert.Panics(t, func() { positive.WithLowerBound(math.NaN()) })
	assert.Panics(t, func() { positive.WithUpperBound(math.Inf(1)) })
	assert.Panics(t, func() { positive.MustNew(positive.WithLowerBound(0)) })
}

// TestLog_AboveLowerBound sweeps moderate inputs (strictly above) and
// extreme inputs (finite and never below).
func TestLog_AboveLowerBound(t *testing.T) {
	t.Parallel()

	for _, kind := range allKinds {
		for _, clamp := range []bool{false, true} {
			opts := []positive.Option{positive.WithKind(kind)}
			if clamp {
				opts = append(opts, positive.WithClamp())
			}
			tr, err := positive.New(opts...)
			require.NoError(t, err)
			lnLower := math.Log(tr.LowerBound())

			for x := -20.0; x <= 20.0; x += 0.25 {
				y := tr.Log(x)
				require.Greater(t, y, lnLower, "kind=%v clamp=%v x=%v", kind, clamp, x)
			}
			for _, x := range []float64{-1e3, -700, 700, 1e3} {
				y := tr.Log(x)
				require.False(t, math.IsNaN(y), "kind=%v x=%v", kind, x)
				require.GreaterOrEqual(t, y, lnLower, "kind=%v x=%v", kind, x)
				if kind == positive.SaturatingExponential || clamp {
					require.False(t, math.IsInf(y, 0), "kind=%v x=%v", kind, x)
				}
			}
		}
	}
}

func TestLog_ClosedForms(t *testing.T) {
	const lb = 0.01
	sp := positive.MustNew(positive.WithKind(positive.Softplus))
	ex := positive.MustNew(positive.WithKind(positive.Exponential))
	sat := positive.MustNew()

	for _, x := range []float64{-3, -0.5, 0, 0.5, 3} {
		assert.InDelta(t, math.Log(math.Log1p(math.Exp(x))+lb), sp.Log(x), 1e-12)
		assert.InDelta(t, math.Log(math.Exp(x)+lb), ex.Log(x), 1e-12)
		// centered: 100/(1+100·e^{−x}) + lb
		want := math.Log(100/(1+100*math.Exp(-x)) + lb)
		assert.InDelta(t, want, sat.Log(x), 1e-12)
		assert.InDelta(t, math.Exp(sat.Log(x)), sat.Width(x), 1e-15)
	}
}

func TestSaturating_CeilingAndCenter(t *testing.T) {
	sat := positive.MustNew(positive.WithUpperBound(10), positive.WithLowerBound(0.1))
	assert.InDelta(t, 10.1, sat.Width(1e3), 1e-9)

	// the centered curve tracks exp(x) for small x
	x := -8.0
	assert.InEpsilon(t, math.Exp(x)+0.1, sat.Width(x), 1e-2)

	// uncentered: width(0) = upper/2 + lower
	unc := positive.MustNew(positive.WithUpperBound(10), positive.WithLowerBound(0.1), positive.WithCentered(false))
	assert.InDelta(t, 5.1, unc.Width(0), 1e-12)
}

func TestClamp_BoundsInput(t *testing.T) {
	ex := positive.MustNew(positive.WithKind(positive.Exponential), positive.WithClamp())
	// input above ln(upper) is clamped, so width ≤ upper + lower
	assert.InDelta(t, math.Log(100+0.01), ex.Log(50), 1e-12)

	sat := positive.MustNew(positive.WithClamp())
	assert.Equal(t, sat.Log(3*math.Log(100)), sat.Log(1e6))
}

func TestLogVec(t *testing.T) {
	tr := positive.MustNew()
	xs := []float64{-1, 0, 1}
	got := tr.LogVec(xs)
	require.Len(t, got, 3)
	for i, x := range xs {
		assert.Equal(t, tr.Log(x), got[i])
	}
	assert.Equal(t, "saturating_exponential", tr.Kind().String())
}

func TestParseKind(t *testing.T) {
	for _, k := range allKinds {
		got, err := positive.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := positive.ParseKind("cubic")
	require.ErrorIs(t, err, positive.ErrUnknownKind)
}
