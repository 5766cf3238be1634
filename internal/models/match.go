package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MatchStatus string

const (
	MatchInProgress MatchStatus = "in_progress" // live scoring ongoing
	MatchCompleted  MatchStatus = "completed"   // finalized, stats applied
)

// GameLog is the immutable record of one completed game within a match.
// Points is the credit earned by the LOSER of the game; the winner always
// earns the discipline's per-game cap.
type GameLog struct {
	GameNumber int                `json:"gameNumber" bson:"gameNumber"`
	WinnerID   primitive.ObjectID `json:"winnerId" bson:"winnerId"`
	Points     int                `json:"points" bson:"points"`
}

// Rack tracks ball assignment within the current nine-ball game. The three
// slices are pairwise disjoint subsets of {1..9}; a ball never leaves the
// set it was assigned to until the rack resets at game end.
type Rack struct {
	PocketedBy1 []int `json:"pocketedBy1" bson:"pocketedBy1"`
	PocketedBy2 []int `json:"pocketedBy2" bson:"pocketedBy2"`
	Dead        []int `json:"dead" bson:"dead"`
}

// RatingChanges stores the Elo movement applied at finalization, so the
// frontend can show deltas without recomputing.
type RatingChanges struct {
	Player1Change    int `json:"player1Change" bson:"player1Change"`
	Player2Change    int `json:"player2Change" bson:"player2Change"`
	Player1NewRating int `json:"player1NewRating" bson:"player1NewRating"`
	Player2NewRating int `json:"player2NewRating" bson:"player2NewRating"`
}

type Match struct {
	ID          primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Player1ID   primitive.ObjectID  `json:"player1Id" bson:"player1Id"`
	Player2ID   primitive.ObjectID  `json:"player2Id" bson:"player2Id"`
	Player1Name string              `json:"player1" bson:"player1"` // denormalized at creation
	Player2Name string              `json:"player2" bson:"player2"`
	Team1ID     *primitive.ObjectID `json:"team1Id,omitempty" bson:"team1Id,omitempty"`
	Team2ID     *primitive.ObjectID `json:"team2Id,omitempty" bson:"team2Id,omitempty"`

	Discipline   Discipline `json:"gameType" bson:"gameType"`
	PointsToWin1 int        `json:"pointsToWin1" bson:"pointsToWin1"` // fixed at creation by the handicap chart
	PointsToWin2 int        `json:"pointsToWin2" bson:"pointsToWin2"`
	Points1      int        `json:"points1" bson:"points1"`
	Points2      int        `json:"points2" bson:"points2"`
	Games        []GameLog  `json:"games" bson:"games"`
	Rack         Rack       `json:"rack" bson:"rack"` // nine-ball only

	TournamentID   *primitive.ObjectID `json:"tournamentId,omitempty" bson:"tournamentId,omitempty"`
	TournamentName string              `json:"tournament,omitempty" bson:"tournament,omitempty"`
	Table          string              `json:"table,omitempty" bson:"table,omitempty"`

	Status        MatchStatus    `json:"status" bson:"status"`
	Score         string         `json:"score,omitempty" bson:"score,omitempty"` // frozen at finalization, e.g. "50 - 37"
	RatingChanges *RatingChanges `json:"ratingChanges,omitempty" bson:"ratingChanges,omitempty"`

	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// PlayerSlot returns 1 or 2 for a participant, 0 for anyone else.
func (m *Match) PlayerSlot(id primitive.ObjectID) int {
	switch id {
	case m.Player1ID:
		return 1
	case m.Player2ID:
		return 2
	}
	return 0
}

// LastGame returns the most recently logged game, or nil before the first
// game has been recorded.
func (m *Match) LastGame() *GameLog {
	if len(m.Games) == 0 {
		return nil
	}
	return &m.Games[len(m.Games)-1]
}
