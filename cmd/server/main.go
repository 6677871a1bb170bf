package main

import (
	"context"
	"database/sql"
	"errors"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/pollmanagement/internal/adapters/directory"
	"github.com/vncsmyrnk/pollmanagement/internal/adapters/handler/http"
	"github.com/vncsmyrnk/pollmanagement/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollmanagement/internal/config"
	"github.com/vncsmyrnk/pollmanagement/internal/core/services"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	log.SetLevel(cfg.LogLevel)

	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		log.WithError(err).Fatal("failed to reach database")
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to apply migrations")
	}

	pollRepo := postgres.NewPollRepository(db)
	votingItemRepo := postgres.NewVotingItemRepository(db)

	clientOpts := directory.Options{
		Timeout:    cfg.RemoteTimeout,
		MaxRetries: cfg.RemoteRetries,
		Log:        log.WithField("component", "directory"),
	}
	users := directory.NewUserClient(cfg.UserServiceURL, clientOpts)
	groups := directory.NewGroupClient(cfg.GroupServiceURL, clientOpts)
	votes := directory.NewVoteClient(cfg.VoteServiceURL, clientOpts)

	aggregator := services.NewAggregator(users, groups, votes, cfg.LookupTimeout, log.WithField("component", "aggregator"))
	validator := services.NewValidator(pollRepo, users, groups, log.WithField("component", "validator"))
	pollService := services.NewPollService(services.PollServiceDeps{
		Repo:       pollRepo,
		Validator:  validator,
		Aggregator: aggregator,
		Groups:     groups,
		Votes:      votes,
		Now:        time.Now,
		Log:        log.WithField("component", "polls"),
	})
	votingItemService := services.NewVotingItemService(votingItemRepo, time.Now, log.WithField("component", "voting_items"))

	handlerLog := log.WithField("component", "http")
	handler := http.NewHandler(
		http.NewPollHandler(pollService, handlerLog),
		http.NewVotingItemHandler(votingItemService, handlerLog),
		http.NewHealthHandler(db, handlerLog),
		http.RouterConfig{JWTSecret: []byte(cfg.JWTSecret), Log: handlerLog},
	)
	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("shutdown failed")
	}
}
