package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pool-league/internal/db"
	"pool-league/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TeamHandler struct {
	db *db.MongoDB
}

func NewTeamHandler(database *db.MongoDB) *TeamHandler {
	return &TeamHandler{db: database}
}

type CreateTeamRequest struct {
	Name    string `json:"name"`
	Captain string `json:"captain"`
}

// TeamDetail is a team plus its current roster.
type TeamDetail struct {
	Team    models.Team     `json:"team"`
	Players []models.Player `json:"players"`
}

// ListTeams returns all teams sorted by name.
// GET /api/teams
func (h *TeamHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := h.db.Teams().Find(ctx, bson.M{}, opts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch teams")
		return
	}
	defer cursor.Close(ctx)

	teams := []models.Team{}
	if err := cursor.All(ctx, &teams); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to decode teams")
		return
	}

	respondWithJSON(w, http.StatusOK, teams)
}

// GetTeam returns one team with its roster.
// GET /api/teams/{id}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	teamID, ok := objectIDFromVars(w, r, "id")
	if !ok {
		return
	}

	var team models.Team
	if err := h.db.Teams().FindOne(ctx, bson.M{"_id": teamID}).Decode(&team); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(w, http.StatusNotFound, "Team not found")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch team")
		}
		return
	}

	cursor, err := h.db.Players().Find(ctx, bson.M{"teamId": teamID},
		options.Find().SetSort(bson.M{"rating": -1}))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch roster")
		return
	}
	defer cursor.Close(ctx)

	players := []models.Player{}
	if err := cursor.All(ctx, &players); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to decode roster")
		return
	}

	respondWithJSON(w, http.StatusOK, TeamDetail{Team: team, Players: players})
}

// CreateTeam registers a new team with zeroed stats.
// POST /api/teams
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	now := time.Now()
	team := &models.Team{
		Name:      req.Name,
		Captain:   req.Captain,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := h.db.Teams().InsertOne(ctx, team)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondWithError(w, http.StatusConflict, "Team name already taken")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to create team")
		return
	}
	team.ID = res.InsertedID.(primitive.ObjectID)

	respondWithJSON(w, http.StatusCreated, team)
}
