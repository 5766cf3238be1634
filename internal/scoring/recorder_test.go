package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pool-league/internal/models"
)

func newTestMatch(d models.Discipline, target1, target2 int) *models.Match {
	return &models.Match{
		ID:           primitive.NewObjectID(),
		Player1ID:    primitive.NewObjectID(),
		Player2ID:    primitive.NewObjectID(),
		Discipline:   d,
		PointsToWin1: target1,
		PointsToWin2: target2,
		Status:       models.MatchInProgress,
	}
}

func TestRecordEightBallGame(t *testing.T) {
	t.Run("winner earns the cap, loser earns their balls", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 38, 25)

		log, err := RecordEightBallGame(m, m.Player1ID, 5)
		require.NoError(t, err)
		require.NotNil(t, log)

		assert.Equal(t, 1, log.GameNumber)
		assert.Equal(t, m.Player1ID, log.WinnerID)
		assert.Equal(t, 5, log.Points)
		assert.Equal(t, GameCap, m.Points1)
		assert.Equal(t, 5, m.Points2)
	})

	t.Run("scores accumulate across games", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 38, 25)

		_, err := RecordEightBallGame(m, m.Player1ID, 3)
		require.NoError(t, err)
		_, err = RecordEightBallGame(m, m.Player2ID, 7)
		require.NoError(t, err)

		assert.Equal(t, GameCap+7, m.Points1)
		assert.Equal(t, 3+GameCap, m.Points2)
		assert.Len(t, m.Games, 2)
		assert.Equal(t, 2, m.Games[1].GameNumber)
	})

	t.Run("loser score out of range", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 38, 25)

		_, err := RecordEightBallGame(m, m.Player1ID, MaxEightBallLoserScore+1)
		require.ErrorIs(t, err, ErrInvalidScore)

		_, err = RecordEightBallGame(m, m.Player1ID, -1)
		require.ErrorIs(t, err, ErrInvalidScore)
		assert.Empty(t, m.Games)
	})

	t.Run("winner must be a participant", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 38, 25)
		_, err := RecordEightBallGame(m, primitive.NewObjectID(), 0)
		require.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("rejects nine-ball matches", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 28, 28)
		_, err := RecordEightBallGame(m, m.Player1ID, 0)
		require.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("rejects games after the match is decided", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 14, 25)
		_, err := RecordEightBallGame(m, m.Player1ID, 0)
		require.NoError(t, err)

		_, err = RecordEightBallGame(m, m.Player2ID, 0)
		require.ErrorIs(t, err, ErrMatchConcluded)
	})
}

func TestPocketBall(t *testing.T) {
	t.Run("ordinary balls do not score", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 28, 28)

		log, err := PocketBall(m, m.Player1ID, 3)
		require.NoError(t, err)
		assert.Nil(t, log)
		assert.Equal(t, []int{3}, m.Rack.PocketedBy1)
		assert.Zero(t, m.Points1)
		assert.Zero(t, m.Points2)
	})

	t.Run("a ball cannot be pocketed twice", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 28, 28)

		_, err := PocketBall(m, m.Player1ID, 3)
		require.NoError(t, err)
		_, err = PocketBall(m, m.Player2ID, 3)
		require.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("ball number must exist", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 28, 28)
		_, err := PocketBall(m, m.Player1ID, 10)
		require.ErrorIs(t, err, ErrInvalidOperation)
		_, err = PocketBall(m, m.Player1ID, 0)
		require.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("money ball scores the game and resets the rack", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 28, 28)

		_, err := PocketBall(m, m.Player1ID, 1)
		require.NoError(t, err)
		_, err = PocketBall(m, m.Player2ID, 2)
		require.NoError(t, err)
		_, err = PocketBall(m, m.Player2ID, 5)
		require.NoError(t, err)
		require.NoError(t, MarkBallDead(m, 4))

		log, err := PocketBall(m, m.Player1ID, MoneyBall)
		require.NoError(t, err)
		require.NotNil(t, log)

		// Pocketer takes the cap; opponent keeps one point per ordinary
		// ball they pocketed this rack. Dead balls credit no one.
		assert.Equal(t, m.Player1ID, log.WinnerID)
		assert.Equal(t, 2, log.Points)
		assert.Equal(t, GameCap, m.Points1)
		assert.Equal(t, 2, m.Points2)
		assert.Equal(t, models.Rack{}, m.Rack)
	})

	t.Run("running the rack credits the loser in full", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 57, 19)

		for ball := 1; ball <= 8; ball++ {
			_, err := PocketBall(m, m.Player1ID, ball)
			require.NoError(t, err)
		}
		log, err := PocketBall(m, m.Player2ID, MoneyBall)
		require.NoError(t, err)

		assert.Equal(t, m.Player2ID, log.WinnerID)
		assert.Equal(t, 8, log.Points)
		assert.Equal(t, 8, m.Points1)
		assert.Equal(t, GameCap, m.Points2)
	})

	t.Run("loser credit covers only the current rack", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 28, 28)

		_, err := PocketBall(m, m.Player2ID, 7)
		require.NoError(t, err)
		_, err = PocketBall(m, m.Player1ID, MoneyBall)
		require.NoError(t, err)

		// New rack: player 2's earlier ball must not carry over.
		log, err := PocketBall(m, m.Player1ID, MoneyBall)
		require.NoError(t, err)
		assert.Equal(t, 0, log.Points)
		assert.Equal(t, 2*GameCap, m.Points1)
		assert.Equal(t, 1, m.Points2)
	})

	t.Run("rejects pocketing after the match is decided", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 14, 28)
		_, err := PocketBall(m, m.Player1ID, MoneyBall)
		require.NoError(t, err)

		_, err = PocketBall(m, m.Player2ID, 1)
		require.ErrorIs(t, err, ErrMatchConcluded)
	})

	t.Run("rejects eight-ball matches", func(t *testing.T) {
		m := newTestMatch(models.EightBall, 38, 25)
		_, err := PocketBall(m, m.Player1ID, 3)
		require.ErrorIs(t, err, ErrInvalidOperation)
	})
}

func TestMarkBallDead(t *testing.T) {
	t.Run("dead balls leave the table", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 28, 28)

		require.NoError(t, MarkBallDead(m, 4))
		assert.Equal(t, []int{4}, m.Rack.Dead)

		_, err := PocketBall(m, m.Player1ID, 4)
		require.ErrorIs(t, err, ErrInvalidOperation)
		require.ErrorIs(t, MarkBallDead(m, 4), ErrInvalidOperation)
	})

	t.Run("money ball can never be dead", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 28, 28)
		require.ErrorIs(t, MarkBallDead(m, MoneyBall), ErrInvalidOperation)
	})

	t.Run("pocketed balls cannot be marked dead", func(t *testing.T) {
		m := newTestMatch(models.NineBall, 28, 28)
		_, err := PocketBall(m, m.Player2ID, 6)
		require.NoError(t, err)
		require.ErrorIs(t, MarkBallDead(m, 6), ErrInvalidOperation)
	})
}
