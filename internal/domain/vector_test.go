package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picpocket/clip-classify/internal/domain"
)

func TestVectorDot(t *testing.T) {
	t.Parallel()

	t.Run("orthogonal vectors", func(t *testing.T) {
		a := domain.Vector{1, 0}
		b := domain.Vector{0, 1}
		assert.Equal(t, 0.0, a.Dot(b))
	})

	t.Run("identical unit vectors", func(t *testing.T) {
		a := domain.Vector{0.6, 0.8}
		assert.InDelta(t, 1.0, a.Dot(a), 1e-12)
	})

	t.Run("opposite unit vectors", func(t *testing.T) {
		a := domain.Vector{1, 0}
		b := domain.Vector{-1, 0}
		assert.Equal(t, -1.0, a.Dot(b))
	})
}

func TestVectorNormalized(t *testing.T) {
	t.Parallel()

	t.Run("produces unit norm", func(t *testing.T) {
		v := domain.Vector{3, 4}
		unit, err := v.Normalized()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, unit.Norm(), 1e-12)
		assert.InDelta(t, 0.6, unit[0], 1e-12)
		assert.InDelta(t, 0.8, unit[1], 1e-12)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		v := domain.Vector{3, 4}
		_, err := v.Normalized()
		require.NoError(t, err)
		assert.Equal(t, domain.Vector{3, 4}, v)
	})

	t.Run("zero norm fails", func(t *testing.T) {
		v := domain.Vector{0, 0, 0}
		_, err := v.Normalized()
		require.ErrorIs(t, err, domain.ErrDegenerateEmbedding)
	})
}
