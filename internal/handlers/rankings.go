package handlers

import (
	"context"
	"net/http"
	"time"

	"pool-league/internal/db"
	"pool-league/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RankingsHandler struct {
	db *db.MongoDB
}

func NewRankingsHandler(database *db.MongoDB) *RankingsHandler {
	return &RankingsHandler{db: database}
}

type PlayerRanking struct {
	Rank   int           `json:"rank"`
	Player models.Player `json:"player"`
}

type TeamRanking struct {
	Rank int         `json:"rank"`
	Team models.Team `json:"team"`
}

// GetRankings returns the league standings.
// GET /api/rankings?type=players|teams
func (h *RankingsHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	switch r.URL.Query().Get("type") {
	case "", "players":
		h.playerRankings(ctx, w)
	case "teams":
		h.teamRankings(ctx, w)
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown ranking type")
	}
}

func (h *RankingsHandler) playerRankings(ctx context.Context, w http.ResponseWriter) {
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "name", Value: 1}}).
		SetLimit(200)
	cursor, err := h.db.Players().Find(ctx, bson.M{}, opts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch rankings")
		return
	}
	defer cursor.Close(ctx)

	var players []models.Player
	if err := cursor.All(ctx, &players); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to decode rankings")
		return
	}

	rankings := make([]PlayerRanking, len(players))
	for i, p := range players {
		rankings[i] = PlayerRanking{Rank: i + 1, Player: p}
	}

	respondWithJSON(w, http.StatusOK, rankings)
}

func (h *RankingsHandler) teamRankings(ctx context.Context, w http.ResponseWriter) {
	opts := options.Find().SetSort(bson.D{
		{Key: "wins8Ball", Value: -1},
		{Key: "wins9Ball", Value: -1},
		{Key: "points8Ball", Value: -1},
		{Key: "name", Value: 1},
	})
	cursor, err := h.db.Teams().Find(ctx, bson.M{}, opts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch rankings")
		return
	}
	defer cursor.Close(ctx)

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to decode rankings")
		return
	}

	rankings := make([]TeamRanking, len(teams))
	for i, t := range teams {
		rankings[i] = TeamRanking{Rank: i + 1, Team: t}
	}

	respondWithJSON(w, http.StatusOK, rankings)
}
