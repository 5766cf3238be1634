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

type TournamentHandler struct {
	db *db.MongoDB
}

func NewTournamentHandler(database *db.MongoDB) *TournamentHandler {
	return &TournamentHandler{db: database}
}

type CreateTournamentRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Format      string     `json:"format,omitempty"`
	Prize       string     `json:"prize,omitempty"`
	MaxPlayers  int        `json:"maxPlayers,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// ListTournaments returns tournaments, optionally filtered by status,
// newest first.
// GET /api/tournaments?status=active
func (h *TournamentHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := h.db.Tournaments().Find(ctx, filter, opts)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch tournaments")
		return
	}
	defer cursor.Close(ctx)

	tournaments := []models.Tournament{}
	if err := cursor.All(ctx, &tournaments); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to decode tournaments")
		return
	}

	respondWithJSON(w, http.StatusOK, tournaments)
}

// GetTournament returns one tournament with its matches.
// GET /api/tournaments/{id}
func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	tournamentID, ok := objectIDFromVars(w, r, "id")
	if !ok {
		return
	}

	var t models.Tournament
	if err := h.db.Tournaments().FindOne(ctx, bson.M{"_id": tournamentID}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respondWithError(w, http.StatusNotFound, "Tournament not found")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch tournament")
		}
		return
	}

	cursor, err := h.db.Matches().Find(ctx, bson.M{"tournamentId": tournamentID},
		options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to fetch matches")
		return
	}
	defer cursor.Close(ctx)

	matches := []models.Match{}
	if err := cursor.All(ctx, &matches); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to decode matches")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"tournament": t,
		"matches":    matches,
	})
}

// CreateTournament registers an upcoming tournament.
// POST /api/tournaments
func (h *TournamentHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req CreateTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Name is required")
		return
	}

	now := time.Now()
	t := &models.Tournament{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Format:      req.Format,
		Prize:       req.Prize,
		MaxPlayers:  req.MaxPlayers,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.TournamentUpcoming,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := h.db.Tournaments().InsertOne(ctx, t)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create tournament")
		return
	}
	t.ID = res.InsertedID.(primitive.ObjectID)

	respondWithJSON(w, http.StatusCreated, t)
}
