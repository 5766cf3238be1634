package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pool-league/internal/audit"
	"pool-league/internal/db"
	"pool-league/internal/models"
	"pool-league/internal/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PlayerHandler struct {
	db     *db.MongoDB
	roster *services.RosterService
}

func NewPlayerHandler(database *db.MongoDB, roster *services.RosterService) *PlayerHandler {
	return &PlayerHandler{db: database, roster: roster}
}

type CreatePlayerRequest struct {
	Name   string `json:"name"`
	TeamID string `json:"teamId,omitempty"`
}

type ChangeTeamRequest struct {
	TeamID string `json:"teamId"` // empty means free agent
}

// ListPlayers returns all players, optionally filtered by team.
// GET /api/players?teamId=...
func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if teamHex := r.URL.Query().Get("teamId"); teamHex != "" {
		teamID, err := primitive.ObjectIDFromHex(teamHex)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid teamId")
			return
		}
		filter["teamId"] = teamID
	}

	opts := options.Find().SetSort(bson.M{"name": 1})
	cursor, err := h.db.Players().Find(ctx, filter, opts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch players")
		return
	}
	defer cursor.Close(ctx)

	players := []models.Player{}
	if err := cursor.All(ctx, &players); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to decode players")
		return
	}

	respondWithJSON(w, http.StatusOK, players)
}

// GetPlayer returns one player by id.
// GET /api/players/{id}
func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	playerID, ok := objectIDFromVars(w, r, "id")
	if !ok {
		return
	}

	var p models.Player
	if err := h.db.Players().FindOne(ctx, bson.M{"_id": playerID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(w, http.StatusNotFound, "Player not found")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch player")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

// CreatePlayer registers a new player at the default rating.
// POST /api/players
func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	now := time.Now()
	player := &models.Player{
		Name:           req.Name,
		Status:         models.PlayerActive,
		Rating:         models.DefaultRating,
		PreviousRating: models.DefaultRating,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if req.TeamID != "" {
		teamID, err := primitive.ObjectIDFromHex(req.TeamID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid teamId")
			return
		}
		if err := h.db.Teams().FindOne(ctx, bson.M{"_id": teamID}).Err(); err != nil {
			respondWithError(w, http.StatusNotFound, "Team not found")
			return
		}
		player.TeamID = &teamID
	}

	res, err := h.db.Players().InsertOne(ctx, player)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondWithError(w, http.StatusConflict, "Player name already taken")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to create player")
		return
	}
	player.ID = res.InsertedID.(primitive.ObjectID)

	respondWithJSON(w, http.StatusCreated, player)
}

// ChangeTeam moves a player between teams, shifting their career
// contribution atomically. A new player starts contributing to the new
// team from their next match either way; this keeps historical stats
// attached to the roster the player is on.
// PUT /api/players/{id}/team
func (h *PlayerHandler) ChangeTeam(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	playerID, ok := objectIDFromVars(w, r, "id")
	if !ok {
		return
	}

	var req ChangeTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var newTeamID *primitive.ObjectID
	if req.TeamID != "" {
		teamID, err := primitive.ObjectIDFromHex(req.TeamID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid teamId")
			return
		}
		newTeamID = &teamID
	}

	player, err := h.roster.ChangeTeam(ctx, playerID, newTeamID)
	if err != nil {
		respondScoringError(w, err)
		return
	}

	audit.LogEvent(h.db, audit.EventRosterChange, nil, r, player.Name)
	respondWithJSON(w, http.StatusOK, player)
}

func objectIDFromVars(w http.ResponseWriter, r *http.Request, key string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[key])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
