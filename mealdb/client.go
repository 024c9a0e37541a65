// Package mealdb talks to TheMealDB and resolves an ingredient into fully
// detailed recipe records.
//
// Only a single ingredient can be searched per call: the public API filters
// by one ingredient at a time. Callers holding a list of ingredients decide
// which one to send.
package mealdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mealseek/models"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

const maxBody = 4 << 20

var (
	// ErrFetchFailed wraps every failure of a remote call, at either stage.
	ErrFetchFailed = errors.New("mealdb: fetch failed")
	ErrNotFound    = errors.New("mealdb: recipe not found")
)

// DetailCache lets by-id lookups skip the network. Get reports a miss as (nil, nil).
type DetailCache interface {
	Get(ctx context.Context, id string) (*models.Recipe, error)
	Put(ctx context.Context, r models.Recipe) error
}

type Config struct {
	BaseURL     string
	CallTimeout time.Duration // per attempt
	MaxRetries  int
	RetryWait   time.Duration // first backoff interval
	Concurrency int           // parallel detail lookups
	RPS         float64       // outbound pacing, 0 disables
	HTTPClient  *http.Client
	Cache       DetailCache
}

type Client struct {
	base        string
	http        *http.Client
	callTimeout time.Duration
	maxRetries  int
	retryWait   time.Duration
	concurrency int
	limiter     *rate.Limiter
	cache       DetailCache
	log         *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	c := &Client{
		base:        strings.TrimRight(cfg.BaseURL, "/"),
		http:        cfg.HTTPClient,
		callTimeout: cfg.CallTimeout,
		maxRetries:  cfg.MaxRetries,
		retryWait:   cfg.RetryWait,
		concurrency: cfg.Concurrency,
		cache:       cfg.Cache,
		log:         log,
	}
	if c.base == "" {
		c.base = DefaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.callTimeout <= 0 {
		c.callTimeout = 10 * time.Second
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.retryWait <= 0 {
		c.retryWait = 200 * time.Millisecond
	}
	if c.concurrency <= 0 {
		c.concurrency = 8
	}
	if cfg.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), c.concurrency)
	} else {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return c
}

// Search resolves ingredient into detailed recipes, in the order the filter
// endpoint listed them. No matches yields an empty slice. Any failed call
// fails the whole search and no partial results are returned.
func (c *Client) Search(ctx context.Context, ingredient string) ([]models.Recipe, error) {
	stubs, err := c.FilterByIngredient(ctx, ingredient)
	if err != nil {
		return nil, err
	}
	if len(stubs) == 0 {
		return []models.Recipe{}, nil
	}

	out := make([]models.Recipe, len(stubs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, s := range stubs {
		i, s := i, s
		g.Go(func() error {
			r, err := c.detail(gctx, s.ID)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Warn("recipe search failed", zap.String("ingredient", ingredient), zap.Int("stubs", len(stubs)), zap.Error(err))
		return nil, err
	}

	c.log.Debug("recipe search complete", zap.String("ingredient", ingredient), zap.Int("recipes", len(out)))
	return out, nil
}

// FilterByIngredient lists lightweight stubs of recipes containing ingredient.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]models.Stub, error) {
	var env struct {
		Meals []wireStub `json:"meals"`
	}
	if err := c.getJSON(ctx, "filter.php", url.Values{"i": {ingredient}}, &env); err != nil {
		return nil, fmt.Errorf("%w: filter %q: %v", ErrFetchFailed, ingredient, err)
	}

	stubs := make([]models.Stub, 0, len(env.Meals))
	for _, m := range env.Meals {
		stubs = append(stubs, models.Stub{ID: m.ID, Name: m.Name, Thumbnail: m.Thumb})
	}
	return stubs, nil
}

// LookupByID fetches one full record. An unknown id is an error wrapping
// both ErrFetchFailed and ErrNotFound.
func (c *Client) LookupByID(ctx context.Context, id string) (models.Recipe, error) {
	var env struct {
		Meals []wireMeal `json:"meals"`
	}
	if err := c.getJSON(ctx, "lookup.php", url.Values{"i": {id}}, &env); err != nil {
		return models.Recipe{}, fmt.Errorf("%w: lookup %s: %v", ErrFetchFailed, id, err)
	}
	if len(env.Meals) == 0 || env.Meals[0] == nil {
		return models.Recipe{}, fmt.Errorf("%w: %w: id %s", ErrFetchFailed, ErrNotFound, id)
	}
	return env.Meals[0].recipe(), nil
}

func (c *Client) detail(ctx context.Context, id string) (models.Recipe, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, id)
		if err != nil {
			c.log.Warn("detail cache read failed", zap.String("id", id), zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	r, err := c.LookupByID(ctx, id)
	if err != nil {
		return models.Recipe{}, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, r); err != nil {
			c.log.Warn("detail cache write failed", zap.String("id", id), zap.Error(err))
		}
	}
	return r, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// getJSON performs a GET with a per-attempt timeout, retrying transport
// errors, 429 and 5xx with exponential backoff.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	u := c.base + "/" + endpoint + "?" + query.Encode()

	op := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(callCtx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
			return &statusError{code: resp.StatusCode}
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return backoff.Permanent(&statusError{code: resp.StatusCode})
		}

		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s: %w", endpoint, err))
		}
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.retryWait
	expo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, uint64(c.maxRetries)), ctx)

	return backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		c.log.Warn("mealdb call failed, retrying",
			zap.String("endpoint", endpoint),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
}
