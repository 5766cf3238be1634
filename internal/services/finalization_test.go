package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pool-league/internal/models"
	"pool-league/internal/rating"
)

func outcomeFixture(r1, r2 int) (*models.Match, *models.Player, *models.Player) {
	p1 := &models.Player{ID: primitive.NewObjectID(), Name: "P1", Rating: r1, PreviousRating: r1}
	p2 := &models.Player{ID: primitive.NewObjectID(), Name: "P2", Rating: r2, PreviousRating: r2}
	m := &models.Match{
		ID:           primitive.NewObjectID(),
		Player1ID:    p1.ID,
		Player2ID:    p2.ID,
		Discipline:   models.EightBall,
		PointsToWin1: 38,
		PointsToWin2: 25,
		Status:       models.MatchInProgress,
	}
	return m, p1, p2
}

func TestBuildOutcome(t *testing.T) {
	calc := rating.NewCalculator()

	t.Run("even match, player 1 wins", func(t *testing.T) {
		m, p1, p2 := outcomeFixture(500, 500)
		m.Points1 = 38
		m.Points2 = 17

		out := buildOutcome(m, p1, p2, p1.ID, calc)

		assert.Equal(t, p1.ID, out.winnerID)
		assert.True(t, out.player1.won)
		assert.False(t, out.player2.won)

		assert.Equal(t, 516, out.player1.newRating)
		assert.Equal(t, 16, out.player1.change)
		assert.Equal(t, 484, out.player2.newRating)
		assert.Equal(t, -16, out.player2.change)

		assert.Equal(t, 38, out.player1.matchScore)
		assert.Equal(t, 17, out.player2.matchScore)
		assert.Equal(t, "38 - 17", out.score)
	})

	t.Run("underdog upset moves both ratings further", func(t *testing.T) {
		m, p1, p2 := outcomeFixture(420, 580)
		m.Points1 = 25
		m.Points2 = 30

		out := buildOutcome(m, p1, p2, p1.ID, calc)

		require.True(t, out.player1.won)
		assert.Greater(t, out.player1.change, 16)
		assert.Less(t, out.player2.change, -16)
		// Elo with a shared K moves both sides by the same magnitude.
		assert.Equal(t, out.player1.change, -out.player2.change)
	})

	t.Run("player 2 winning flips the flags", func(t *testing.T) {
		m, p1, p2 := outcomeFixture(500, 500)
		m.Points1 = 12
		m.Points2 = 25

		out := buildOutcome(m, p1, p2, p2.ID, calc)

		assert.False(t, out.player1.won)
		assert.True(t, out.player2.won)
		assert.Equal(t, 484, out.player1.newRating)
		assert.Equal(t, 516, out.player2.newRating)
		assert.Equal(t, "12 - 25", out.score)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		m, p1, p2 := outcomeFixture(500, 460)
		m.Points1 = 31
		m.Points2 = 20

		buildOutcome(m, p1, p2, p1.ID, calc)

		assert.Equal(t, 500, p1.Rating)
		assert.Equal(t, 460, p2.Rating)
		assert.Equal(t, models.MatchInProgress, m.Status)
	})
}
