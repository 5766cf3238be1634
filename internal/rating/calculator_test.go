package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpectedScore(t *testing.T) {
	calc := NewCalculator()

	t.Run("equal ratings are a coin flip", func(t *testing.T) {
		assert.InDelta(t, 0.5, calc.ExpectedScore(500, 500), 1e-9)
	})

	t.Run("expected scores sum to one", func(t *testing.T) {
		pairs := [][2]int{{500, 500}, {400, 600}, {650, 380}, {0, 1000}}
		for _, p := range pairs {
			sum := calc.ExpectedScore(p[0], p[1]) + calc.ExpectedScore(p[1], p[0])
			assert.InDelta(t, 1.0, sum, 1e-9, "ratings %d vs %d", p[0], p[1])
		}
	})

	t.Run("higher rating means higher expectation", func(t *testing.T) {
		assert.Greater(t, calc.ExpectedScore(600, 400), calc.ExpectedScore(400, 600))
	})
}

func TestNewRating(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name     string
		player   int
		opponent int
		result   MatchResult
		want     int
	}{
		{"even match win", 500, 500, Win, 516},
		{"even match loss", 500, 500, Loss, 484},
		{"favorite win gains little", 600, 400, Win, 608},
		{"underdog win gains a lot", 400, 600, Win, 424},
		{"favorite loss costs a lot", 600, 400, Loss, 576},
		{"underdog loss costs little", 400, 600, Loss, 392},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.NewRating(tt.player, tt.opponent, tt.result)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("rating never drops below the floor", func(t *testing.T) {
		got := calc.NewRating(10, 10, Loss)
		require.Equal(t, MinRating, got)
	})
}

func TestRatingChange(t *testing.T) {
	calc := NewCalculator()

	t.Run("delta matches new rating", func(t *testing.T) {
		change := calc.RatingChange(500, 500, Win)
		require.Equal(t, 16, change)
		require.Equal(t, 500+change, calc.NewRating(500, 500, Win))
	})

	t.Run("underdog win outweighs favorite win", func(t *testing.T) {
		assert.Greater(t,
			calc.RatingChange(400, 600, Win),
			calc.RatingChange(600, 400, Win))
	})
}
