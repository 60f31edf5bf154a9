package main // Entry point package

import (
	"time" // session TTL conversion

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/sirupsen/logrus"  // structured logging

	"github.com/iliyamo/marina-reservation/internal/config"     // internal config loader
	"github.com/iliyamo/marina-reservation/internal/database"   // MySQL connection
	"github.com/iliyamo/marina-reservation/internal/handler"    // page handlers
	"github.com/iliyamo/marina-reservation/internal/middleware" // identity + rate limit middleware
	"github.com/iliyamo/marina-reservation/internal/queue"      // account event consumer
	"github.com/iliyamo/marina-reservation/internal/repository" // data access layer
	"github.com/iliyamo/marina-reservation/internal/router"     // route registration
	"github.com/iliyamo/marina-reservation/internal/session"    // session store
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load() // load environment config (.env applied when present)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	// Redis backs sessions and the auth rate limiter. A nil client means
	// Redis was unreachable: sessions fall back to the in-process store
	// and the limiter disables itself.
	rdb := config.NewRedisClient()
	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute
	var sessions session.Store
	if rdb != nil {
		sessions = session.NewRedisStore(rdb, sessionTTL)
	} else {
		log.Warn("redis unavailable; sessions held in process memory")
		sessions = session.NewMemoryStore(sessionTTL)
	}

	users := repository.NewUserRepo(db)
	boats := repository.NewBoatRepo(db, log)
	reservations := repository.NewReservationRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, sessions, log)
	accountHandler := handler.NewAccountHandler(cfg, users, boats, reservations, sessions, log)

	// Consume account lifecycle events into the audit log. Runs its own
	// reconnect loop for the life of the process.
	go queue.StartAccountConsumer(log)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, authHandler, accountHandler,
		middleware.Identity(sessions, users, cfg.RememberSecret),
		middleware.RateLimit(config.LoadRateLimitConfig(), rdb),
	)

	addr := ":" + cfg.Port
	log.Infof("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
