package main

import (
	"context"
	"fmt"

	"mealseek/autocom"
	"mealseek/db"
	"mealseek/favorites"
	"mealseek/globals"
	"mealseek/mealdb"
	"mealseek/mq"
	"mealseek/rdx"
	"mealseek/search"
	"mealseek/suggestions"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const favoritesCollection = "favorites"

// app holds the long-lived dependencies shared by every command.
type app struct {
	cfg       globals.Config
	log       *zap.Logger
	redis     *redis.Client
	mongo     *mongo.Client
	fetcher   *mealdb.Client
	favorites *favorites.Store
	matcher   suggestions.Matcher
	events    *mq.Emitter // nil without redis
}

func newApp(ctx context.Context, cfg globals.Config, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	if cfg.RedisURL != "" {
		conn, err := rdx.Connect(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			if cfg.FavoritesBackend == "redis" {
				return nil, err
			}
			log.Warn("redis unavailable; continuing without cache and index", zap.Error(err))
		} else {
			a.redis = conn
		}
	}

	names, err := suggestions.LoadReference()
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.matcher = suggestions.NewListMatcher(names)
	if a.redis != nil {
		ix := autocom.NewIndex(a.redis, "", log)
		if err := ix.Seed(ctx, names); err != nil {
			log.Warn("ingredient index not seeded; using in-memory list", zap.Error(err))
		} else {
			a.matcher = ix
		}
	}

	mcfg := mealdb.Config{
		BaseURL:     cfg.MealDBBaseURL,
		CallTimeout: cfg.MealDBTimeout,
		MaxRetries:  cfg.MealDBRetries,
		Concurrency: cfg.MealDBConcurrency,
		RPS:         cfg.MealDBRPS,
	}
	if a.redis != nil {
		mcfg.Cache = rdx.NewDetailCache(a.redis, cfg.DetailCacheTTL)
	}
	a.fetcher = mealdb.New(mcfg, log)

	slot, err := a.favoritesSlot(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.favorites = favorites.Open(ctx, slot, log)

	if a.redis != nil {
		a.events = mq.NewEmitter(a.redis, mq.FavoritesChannel(cfg.FavoritesSlot), log)
		a.favorites.OnChange(func(ctx context.Context) {
			a.events.Emit(ctx, mq.FavoritesChanged)
		})
	}

	log.Info("app ready",
		zap.String("favorites", cfg.FavoritesBackend),
		zap.Bool("redis", a.redis != nil),
		zap.Int("favoriteCount", len(a.favorites.List())))
	return a, nil
}

func (a *app) favoritesSlot(ctx context.Context) (favorites.Slot, error) {
	switch a.cfg.FavoritesBackend {
	case "redis":
		return rdx.NewFavoritesSlot(a.redis, a.cfg.FavoritesSlot), nil
	case "mongo":
		client, err := db.Connect(ctx, a.cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		a.mongo = client
		coll := client.Database(a.cfg.MongoDatabase).Collection(favoritesCollection)
		return db.NewFavoritesSlot(coll, a.cfg.FavoritesSlot), nil
	case "file":
		return favorites.NewFileSlot(a.cfg.FavoritesPath), nil
	default:
		return nil, fmt.Errorf("unknown favorites backend %q", a.cfg.FavoritesBackend)
	}
}

// followFavorites reloads the favorites whenever another process changes
// them. It returns immediately when events are not available.
func (a *app) followFavorites(ctx context.Context) {
	if a.events == nil {
		return
	}
	l, err := a.events.Subscribe(ctx)
	if err != nil {
		a.log.Warn("not following favorites changes", zap.Error(err))
		return
	}
	go l.Run(ctx, func(ctx context.Context, ev mq.Event) {
		if ev.Kind != mq.FavoritesChanged {
			return
		}
		if err := a.favorites.Reload(ctx); err != nil {
			a.log.Warn("favorites reload failed", zap.Error(err))
		}
	})
}

func (a *app) newOrchestrator() *search.Orchestrator {
	return search.NewOrchestrator(a.fetcher, a.favorites, a.matcher, a.log)
}

func (a *app) close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("closing redis", zap.Error(err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.log.Warn("closing mongo", zap.Error(err))
		}
	}
}
