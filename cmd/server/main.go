// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/quizcraft/arena/internal/arena"
	"github.com/quizcraft/arena/internal/auth"
	"github.com/quizcraft/arena/internal/cache"
	"github.com/quizcraft/arena/internal/database"
	"github.com/quizcraft/arena/internal/handlers"
	"github.com/quizcraft/arena/internal/ledger"
	"github.com/quizcraft/arena/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	treasury := ledger.NewPostgresBank(database.DB)

	a := arena.New(treasury)
	a.SetLogger(logger)

	// Deployment authority, reserved for the administrative cancel path.
	if ownerStr := os.Getenv("ARENA_OWNER"); ownerStr != "" {
		owner, err := uuid.Parse(ownerStr)
		if err != nil {
			log.Fatalf("invalid ARENA_OWNER: %v", err)
		}
		a.Owner = owner
	}

	srv := handlers.NewServer(a, logger)

	redisOK := true
	if err := cache.ConnectRedis(); err != nil {
		redisOK = false
		logger.Warnf("redis unavailable, event queue disabled: %v", err)
	}

	a.EmitFn = func(ev arena.Event) {
		srv.Feed.Publish(ev)
		if redisOK {
			if err := cache.PublishLobbyEvent(context.Background(), ev); err != nil {
				logger.Warnf("failed to publish arena event: %v", err)
			}
		}
	}

	a.OnComplete = func(snap arena.Snapshot) {
		if err := database.ArchiveLobby(context.Background(), snap); err != nil {
			logger.Errorf("failed to archive lobby %d: %v", snap.ID, err)
		}
	}

	mux := http.NewServeMux()

	// account endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)
	mux.HandleFunc("/user/me", handlers.MeHandler)

	// lobby endpoints
	mux.Handle("/lobby/create", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.CreateLobbyHandler(srv),
	)))
	mux.Handle("/lobby/join", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.JoinLobbyHandler(srv),
	)))
	mux.Handle("/lobby/payout", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.PayoutHandler(srv),
	)))
	mux.Handle("/lobby/get", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GetLobbyHandler(srv),
	)))
	mux.Handle("/lobby/players", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.PlayersHandler(srv),
	)))
	mux.Handle("/lobby/is-player", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.IsPlayerHandler(srv),
	)))
	mux.Handle("/lobby/result", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ResultHandler(srv),
	)))
	mux.Handle("/lobby/list", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ListLobbiesHandler(srv),
	)))
	mux.Handle("/lobby/archive", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.ArchivedLobbyHandler(srv),
	)))

	// bare value transfers are always rejected
	mux.Handle("/treasury/transfer", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.DirectTransferHandler(srv),
	)))

	// observer feed
	mux.Handle("/lobby/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.LobbyFeedHandler(logger, srv.Feed),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
