package scoring

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pool-league/internal/models"
)

// OnTheHill reports whether both players are within one game of their
// target, i.e. each remaining gap is at most the per-game cap.
func OnTheHill(m *models.Match) bool {
	return m.PointsToWin1-m.Points1 <= GameCap && m.PointsToWin2-m.Points2 <= GameCap
}

// MatchWinner derives the match winner from current state. It returns nil
// while no target has been reached. Because the loser also earns points
// each game, both scores can cross their targets on the same game; when
// both players were on the hill the winner of the most recently logged
// game takes the match, regardless of the raw totals.
func MatchWinner(m *models.Match) *primitive.ObjectID {
	p1Reached := m.Points1 >= m.PointsToWin1
	p2Reached := m.Points2 >= m.PointsToWin2

	if !p1Reached && !p2Reached {
		return nil
	}

	if OnTheHill(m) {
		if last := m.LastGame(); last != nil {
			winnerID := last.WinnerID
			return &winnerID
		}
	}

	if p1Reached {
		id := m.Player1ID
		return &id
	}
	id := m.Player2ID
	return &id
}
