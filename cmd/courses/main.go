package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/course-platform/internal/cache"
	"github.com/example/course-platform/internal/handlers"
	"github.com/example/course-platform/internal/platform/auth"
	"github.com/example/course-platform/internal/platform/config"
	"github.com/example/course-platform/internal/platform/db"
	"github.com/example/course-platform/internal/platform/httpserver"
	"github.com/example/course-platform/internal/platform/logging"
	"github.com/example/course-platform/internal/platform/natsconn"
	"github.com/example/course-platform/internal/platform/run"
	"github.com/example/course-platform/internal/store"
	"github.com/example/course-platform/internal/worker"
	"github.com/example/course-platform/internal/youtube"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	pool, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Error("db open", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()
	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Error("db migrate", zap.Error(err))
		run.Exit(1)
	}
	st := store.NewPostgresStore(pool)

	yt := youtube.New(cfg.YouTube.BaseURL, cfg.YouTube.APIKey)

	var cch cache.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Error("redis cache init", zap.Error(err))
			run.Exit(1)
		}
		cch = rc
	} else {
		cch = cache.NewMemoryCache(cfg.CacheTTL)
	}

	// NATS is optional: without it progress ticks write through the store.
	var publisher *handlers.EventPublisher
	var tickConsumer *worker.TickConsumer
	if cfg.NATSURL != "" {
		nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
		if err != nil {
			log.Error("nats connect", zap.Error(err))
			run.Exit(1)
		}
		defer nc.Close()

		js, err := nc.JetStream()
		if err != nil {
			log.Error("jetstream init", zap.Error(err))
			run.Exit(1)
		}
		publisher = handlers.NewEventPublisher(js)

		tickConsumer, err = worker.NewTickConsumer(log, nc, st)
		if err != nil {
			log.Error("tick consumer init", zap.Error(err))
			run.Exit(1)
		}
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r)

	r.Group(func(r chi.Router) {
		if cfg.AuthEnabled() {
			r.Use(auth.RequireUser(auth.JWTVerifier{Secret: cfg.JWTSecret}))
		}

		r.Post("/v1/courses", handlers.AddCourse(st, yt, cch, log))
		r.Get("/v1/courses", handlers.ListCourses(st))
		r.Get("/v1/courses/{course_id}", handlers.GetCourse(st))
		r.Patch("/v1/courses/{course_id}", handlers.UpdateCourse(st))
		r.Delete("/v1/courses/{course_id}", handlers.DeleteCourse(st))
		r.Post("/v1/courses/{course_id}/refresh", handlers.RefreshCourse(st, yt, cch, log))

		r.Put("/v1/courses/{course_id}/videos/{video_id}/progress", handlers.UpsertProgress(st, publisher))
		r.Post("/v1/courses/{course_id}/videos/{video_id}/complete", handlers.MarkComplete(st))
		r.Get("/v1/courses/{course_id}/videos/{video_id}/next", handlers.NextVideo(st))

		r.Get("/v1/config/player", handlers.PlayerConfig(yt))
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		if tickConsumer != nil {
			go func() {
				if err := tickConsumer.Run(ctx); err != nil {
					log.Error("tick consumer stopped", zap.Error(err))
				}
			}()
		}
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
