package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pool-league/internal/auth"
	"pool-league/internal/config"
	"pool-league/internal/db"
	"pool-league/internal/eventbus"
	"pool-league/internal/handicap"
	"pool-league/internal/handlers"
	"pool-league/internal/middleware"
	"pool-league/internal/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env if present (local development)
	_ = godotenv.Load()

	// Load configuration
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting pool league server in %s mode", cfg.Environment)

	// Connect to MongoDB
	mongodb, err := db.NewMongoDB(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongodb.Close(ctx)
	}()

	log.Printf("Connected to MongoDB database: %s", cfg.MongoDB.Database)

	// Handicap chart; a bad chart is a deployment error, fail fast
	resolver, err := handicap.NewDefaultResolver()
	if err != nil {
		log.Fatalf("Failed to load handicap chart: %v", err)
	}

	// Auth services
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	passwordService := auth.NewPasswordService()

	// Domain services
	finalizer := services.NewFinalizationService(mongodb)
	roster := services.NewRosterService(mongodb)

	cleanup := services.NewStaleMatchCleanupService(mongodb)
	cleanup.Start()
	defer cleanup.Stop()

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Handlers
	wsHandler := handlers.NewWebSocketHandler()
	matchHandler := handlers.NewMatchHandler(mongodb, resolver, finalizer, wsHandler)
	playerHandler := handlers.NewPlayerHandler(mongodb, roster)
	teamHandler := handlers.NewTeamHandler(mongodb)
	tournamentHandler := handlers.NewTournamentHandler(mongodb)
	rankingsHandler := handlers.NewRankingsHandler(mongodb)
	authHandler := handlers.NewAuthHandler(mongodb, jwtService, passwordService, cfg.Admin.PasswordHash)

	// Event bus fans broadcasts out to other instances
	bus := eventbus.New(mongodb.WSEvents(), wsHandler.BroadcastLocal)
	wsHandler.SetEventBus(bus)
	if err := bus.EnsureIndexes(context.Background()); err != nil {
		log.Printf("Warning: failed to ensure event bus indexes: %v", err)
	}
	bus.Start()
	defer bus.Stop()

	// Set up router
	router := mux.NewRouter()
	router.Use(middleware.SecurityHeaders())

	// WebSocket routes
	router.Handle("/ws/matches/{matchId}",
		rateLimiter.IPRateLimitMiddleware(middleware.WebSocketUpgradeLimit)(
			http.HandlerFunc(wsHandler.HandleWebSocket)))

	// API routes
	api := router.PathPrefix("/api").Subrouter()

	// Auth routes (public, rate limited)
	api.Handle("/auth/login",
		rateLimiter.IPRateLimitMiddleware(middleware.LoginAttemptLimit)(
			http.HandlerFunc(authHandler.Login))).Methods("POST")

	// Match routes (optional auth; scoring is open to table scorers)
	matchApi := api.PathPrefix("/matches").Subrouter()
	matchApi.Use(authMiddleware.OptionalAuth)
	matchApi.Handle("",
		rateLimiter.IPRateLimitMiddleware(middleware.MatchCreationLimit)(
			http.HandlerFunc(matchHandler.CreateMatch))).Methods("POST")
	matchApi.HandleFunc("", matchHandler.ListMatches).Methods("GET")
	matchApi.HandleFunc("/{id}", matchHandler.GetMatch).Methods("GET")
	matchApi.HandleFunc("/{id}", matchHandler.CancelMatch).Methods("DELETE")
	matchApi.HandleFunc("/{id}/games", matchHandler.RecordGame).Methods("POST")
	matchApi.HandleFunc("/{id}/balls/pocket", matchHandler.PocketBall).Methods("POST")
	matchApi.HandleFunc("/{id}/balls/dead", matchHandler.MarkBallDead).Methods("POST")
	matchApi.HandleFunc("/{id}/finalize", matchHandler.FinalizeMatch).Methods("POST")

	// Player routes
	api.HandleFunc("/players", playerHandler.ListPlayers).Methods("GET")
	api.HandleFunc("/players", playerHandler.CreatePlayer).Methods("POST")
	api.HandleFunc("/players/{id}", playerHandler.GetPlayer).Methods("GET")
	api.Handle("/players/{id}/team",
		authMiddleware.RequireAdmin(http.HandlerFunc(playerHandler.ChangeTeam))).Methods("PUT")

	// Team routes
	api.HandleFunc("/teams", teamHandler.ListTeams).Methods("GET")
	api.HandleFunc("/teams", teamHandler.CreateTeam).Methods("POST")
	api.HandleFunc("/teams/{id}", teamHandler.GetTeam).Methods("GET")

	// Tournament routes
	api.HandleFunc("/tournaments", tournamentHandler.ListTournaments).Methods("GET")
	api.HandleFunc("/tournaments", tournamentHandler.CreateTournament).Methods("POST")
	api.HandleFunc("/tournaments/{id}", tournamentHandler.GetTournament).Methods("GET")

	// Rankings
	api.HandleFunc("/rankings", rankingsHandler.GetRankings).Methods("GET")

	// API Documentation
	router.HandleFunc("/docs", handlers.ServeAPIDocs).Methods("GET")

	// Health check
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Frontend.URL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
