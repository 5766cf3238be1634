package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pool-league/internal/models"
)

func TestOnTheHill(t *testing.T) {
	tests := []struct {
		name    string
		points1 int
		points2 int
		want    bool
	}{
		{"fresh match is not on the hill", 0, 0, false},
		{"one player close is not enough", 30, 5, false},
		{"both within one game", 25, 15, true},
		{"exactly one cap away", 24, 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMatch(models.EightBall, 38, 25)
			m.Points1 = tt.points1
			m.Points2 = tt.points2
			assert.Equal(t, tt.want, OnTheHill(m))
		})
	}
}

func TestMatchWinner(t *testing.T) {
	t.Run("no winner before any target is reached", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 38, 25)
		m.Points1 = 37
		m.Points2 = 24
		assert.Nil(t, MatchWinner(m))
	})

	t.Run("first to target wins", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 38, 25)
		m.Points1 = 10
		m.Points2 = 25

		w := MatchWinner(m)
		require.NotNil(t, w)
		assert.Equal(t, m.Player2ID, *w)
	})

	t.Run("hill-hill goes to the last game winner", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 28, 28)
		m.Points1 = 21
		m.Points2 = 20

		// Player 2 wins the deciding game; player 1's loser credit pushes
		// them over their target on the same game.
		_, err := RecordEightBallGame(m, m.Player2ID, 7)
		require.NoError(t, err)
		require.GreaterOrEqual(t, m.Points1, m.PointsToWin1)
		require.GreaterOrEqual(t, m.Points2, m.PointsToWin2)

		w := MatchWinner(m)
		require.NotNil(t, w)
		assert.Equal(t, m.Player2ID, *w)
	})

	t.Run("raw totals decide when not hill-hill", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 38, 25)
		m.Points1 = 38
		m.Points2 = 5
		m.Games = []models.GameLog{{GameNumber: 1, WinnerID: m.Player2ID, Points: 3}}

		// Player 2 won the last game but only player 1 reached a target
		// outside the hill, so the logged history does not override it.
		w := MatchWinner(m)
		require.NotNil(t, w)
		assert.Equal(t, m.Player1ID, *w)
	})
}
