// Package scoring implements the live match scoring engine: per-game
// point awards for both disciplines, the nine-ball rack state, and win
// condition evaluation including the hill-hill rule.
package scoring

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pool-league/internal/models"
)

const (
	// GameCap is the fixed point value the winner of a single game earns,
	// in both disciplines.
	GameCap = 14

	// MaxEightBallLoserScore is the most balls the loser of an eight-ball
	// game can have legally pocketed (their seven group balls).
	MaxEightBallLoserScore = 7

	// MoneyBall ends a nine-ball game when pocketed and can never be
	// marked dead.
	MoneyBall = 9
)

// RecordEightBallGame logs the end of one eight-ball game. The winner
// earns GameCap toward their running score; the loser earns loserScore,
// the count of balls they pocketed before the game ended.
func RecordEightBallGame(m *models.Match, winnerID primitive.ObjectID, loserScore int) (*models.GameLog, error) {
	if m.Discipline != models.EightBall {
		return nil, fmt.Errorf("%w: match is not eight-ball", ErrInvalidOperation)
	}
	if MatchWinner(m) != nil {
		return nil, ErrMatchConcluded
	}
	slot := m.PlayerSlot(winnerID)
	if slot == 0 {
		return nil, fmt.Errorf("%w: player %s is not in this match", ErrInvalidOperation, winnerID.Hex())
	}
	if loserScore < 0 || loserScore > MaxEightBallLoserScore {
		return nil, fmt.Errorf("%w: %d (want 0-%d)", ErrInvalidScore, loserScore, MaxEightBallLoserScore)
	}

	return appendGame(m, slot, loserScore), nil
}

// PocketBall assigns a ball to a player in the current nine-ball rack.
// Pocketing the money ball ends the game: the pocketer earns GameCap, the
// opponent earns one point per ordinary ball they pocketed this rack, and
// the returned GameLog is non-nil. For any other ball the returned log is
// nil and the match score is unchanged.
func PocketBall(m *models.Match, playerID primitive.ObjectID, ball int) (*models.GameLog, error) {
	if m.Discipline != models.NineBall {
		return nil, fmt.Errorf("%w: match is not nine-ball", ErrInvalidOperation)
	}
	if MatchWinner(m) != nil {
		return nil, ErrMatchConcluded
	}
	slot := m.PlayerSlot(playerID)
	if slot == 0 {
		return nil, fmt.Errorf("%w: player %s is not in this match", ErrInvalidOperation, playerID.Hex())
	}
	if err := checkAvailable(m, ball); err != nil {
		return nil, err
	}

	if slot == 1 {
		m.Rack.PocketedBy1 = append(m.Rack.PocketedBy1, ball)
	} else {
		m.Rack.PocketedBy2 = append(m.Rack.PocketedBy2, ball)
	}

	if ball != MoneyBall {
		return nil, nil
	}

	// Game over: credit the opponent for the ordinary balls they pocketed
	// during this rack only, then reset the rack for the next game.
	loserScore := 0
	opponent := m.Rack.PocketedBy2
	if slot == 2 {
		opponent = m.Rack.PocketedBy1
	}
	for _, b := range opponent {
		if b != MoneyBall {
			loserScore++
		}
	}

	log := appendGame(m, slot, loserScore)
	m.Rack = models.Rack{}
	return log, nil
}

// MarkBallDead removes a ball from play with no credit to either player.
// The money ball can never be marked dead.
func MarkBallDead(m *models.Match, ball int) error {
	if m.Discipline != models.NineBall {
		return fmt.Errorf("%w: match is not nine-ball", ErrInvalidOperation)
	}
	if MatchWinner(m) != nil {
		return ErrMatchConcluded
	}
	if ball == MoneyBall {
		return fmt.Errorf("%w: the %d ball cannot be marked dead", ErrInvalidOperation, MoneyBall)
	}
	if err := checkAvailable(m, ball); err != nil {
		return err
	}

	m.Rack.Dead = append(m.Rack.Dead, ball)
	return nil
}

// appendGame records the game and applies its point awards. slot is the
// winner's player slot (1 or 2).
func appendGame(m *models.Match, slot int, loserScore int) *models.GameLog {
	winnerID := m.Player1ID
	if slot == 2 {
		winnerID = m.Player2ID
	}

	log := models.GameLog{
		GameNumber: len(m.Games) + 1,
		WinnerID:   winnerID,
		Points:     loserScore,
	}

	if slot == 1 {
		m.Points1 += GameCap
		m.Points2 += loserScore
	} else {
		m.Points2 += GameCap
		m.Points1 += loserScore
	}

	m.Games = append(m.Games, log)
	return &m.Games[len(m.Games)-1]
}

// checkAvailable verifies the ball number is in range and has not already
// been pocketed or marked dead this rack.
func checkAvailable(m *models.Match, ball int) error {
	if ball < 1 || ball > MoneyBall {
		return fmt.Errorf("%w: no such ball %d", ErrInvalidOperation, ball)
	}
	for _, set := range [][]int{m.Rack.PocketedBy1, m.Rack.PocketedBy2, m.Rack.Dead} {
		for _, b := range set {
			if b == ball {
				return fmt.Errorf("%w: ball %d is no longer on the table", ErrInvalidOperation, ball)
			}
		}
	}
	return nil
}
