package rating

import (
	"math"
)

type MatchResult int

const (
	Loss MatchResult = 0
	Win  MatchResult = 1
)

const (
	// KFactor is fixed: league matches are long races, so a single match
	// already carries a lot of signal and per-experience tiers are not used.
	KFactor = 32

	// Rating floor. Raw league ratings live in the low hundreds and the
	// handicap chart is keyed on differentials, so only the lower bound
	// needs enforcing.
	MinRating = 0
)

type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// NewRating calculates the updated rating for a player after a completed
// match. Every finalized match has exactly one winner; draws do not occur.
func (c *Calculator) NewRating(playerRating, opponentRating int, result MatchResult) int {
	expected := c.ExpectedScore(playerRating, opponentRating)

	var actual float64
	if result == Win {
		actual = 1.0
	}

	// ΔR = K × (S - E)
	change := KFactor * (actual - expected)

	newRating := playerRating + int(math.Round(change))
	if newRating < MinRating {
		newRating = MinRating
	}
	return newRating
}

// RatingChange returns just the delta (positive or negative).
func (c *Calculator) RatingChange(playerRating, opponentRating int, result MatchResult) int {
	return c.NewRating(playerRating, opponentRating, result) - playerRating
}

// ExpectedScore computes the expected score using the Elo formula
// E = 1 / (1 + 10^((OpponentRating - PlayerRating) / 400))
func (c *Calculator) ExpectedScore(playerRating, opponentRating int) float64 {
	exponent := float64(opponentRating-playerRating) / 400.0
	return 1.0 / (1.0 + math.Pow(10, exponent))
}
