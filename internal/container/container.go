package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"beauty/advisor/internal/catalog"
	"beauty/advisor/internal/chat"
	"beauty/advisor/internal/client"
	"beauty/advisor/internal/config"
	"beauty/advisor/internal/queue"
	"beauty/advisor/internal/repository"
	"beauty/advisor/internal/server"
	"beauty/advisor/internal/service"
	"beauty/advisor/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Assistant  client.AssistantClient
	Selections state.SelectionStore
	Routines   repository.RoutineRepository
	Publisher  queue.Publisher
	Store      *catalog.Store
	Chats      *chat.Manager

	Service *service.Service
	Workers *service.EventWorkers // nil when the event feed is disabled
	Handler http.Handler

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config:     cfg,
		Selections: state.NewMemorySelectionStore(),
		Routines:   repository.NoopRoutineRepository{},
		Publisher:  queue.NoopPublisher{},
	}

	if cfg.Storage.Driver == "redis" || cfg.Events.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")
		container.redis = rdb
	}

	switch cfg.Storage.Driver {
	case "redis":
		container.Selections = state.NewRedisSelectionStore(container.redis)
	case "memory", "":
		log.Warn("⚠️ Using in-memory selection storage, selections are lost on restart")
	default:
		container.Close()
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Events.Enabled {
		redisQueue, err := queue.NewRedisQueue(ctx, container.redis, cfg.Events)
		if err != nil {
			container.Close()
			return nil, err
		}
		container.Publisher = queue.NewPublisher(redisQueue)
		container.Workers = service.NewEventWorkers(redisQueue, redisQueue.GroupName(), cfg.Events.MinIdleDuration(), service.LogEvent)
	}

	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		container.db = db

		if err := repository.Migrate(ctx, db); err != nil {
			container.Close()
			return nil, err
		}
		container.Routines = repository.NewRoutineRepository(db)
		log.Info("✅ Connected to PostgreSQL, routine archive enabled")
	}

	container.Assistant = client.NewAssistantClient(cfg.Assistant)
	container.Store = catalog.NewStore(client.NewCatalogSource(cfg.Catalog), container.Selections)
	container.Chats = chat.NewManager(chat.ManagerConfig{
		Client: container.Assistant,
		Typewriter: chat.Typewriter{
			CharDelay: cfg.Chat.CharDelayDuration(),
			DotDelay:  cfg.Chat.DotDelayDuration(),
			DotSteps:  cfg.Chat.DotSteps,
		},
		SessionTTL: cfg.Chat.SessionTTLDuration(),
	})

	container.Service = service.NewService(
		container.Store,
		container.Chats,
		container.Publisher,
		container.Routines,
	)
	container.Handler = server.NewRouter(container.Service, log.StandardLogger())

	return container, nil
}

// Run loads the catalog, then serves HTTP until ctx is cancelled
func (c *Container) Run(ctx context.Context) error {
	products, err := c.Store.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	log.Infof("📦 Catalog ready with %d products", len(products))

	httpServer := &http.Server{
		Addr:              c.Config.Server.Addr(),
		Handler:           c.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Listening on http://%s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("🛑 Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Config.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if c.Workers != nil {
		g.Go(func() error {
			return c.Workers.Run(ctx, c.Config.Events.Workers)
		})
	}

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			log.Warnf("⚠️ Failed to close Redis client: %v", err)
		}
	}

	log.Info("Container shut down successfully")
	return nil
}
