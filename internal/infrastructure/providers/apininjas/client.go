// Package apininjas provides the API Ninjas nutrition source.
// It is the first provider in the cascade: cheapest and fastest, single
// round trip per lookup.
package apininjas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/providers"
	"github.com/alchemorsel/nutrition/internal/ports/outbound"
	apperrors "github.com/alchemorsel/nutrition/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	providerName      = "api_ninjas"
	defaultBaseURL    = "https://api.api-ninjas.com/v1/nutrition"
	defaultConfidence = 0.85
)

// Client implements the SourceProvider interface against API Ninjas.
type Client struct {
	cfg        providers.ClientConfig
	confidence float64
	client     *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// item is one entry of the API Ninjas nutrition response.
type item struct {
	Name         string  `json:"name"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein_g"`
	Carbs        float64 `json:"carbohydrates_total_g"`
	Fat          float64 `json:"fat_total_g"`
	Fiber        float64 `json:"fiber_g"`
	Sugar        float64 `json:"sugar_g"`
	Sodium       float64 `json:"sodium_mg"`
	Cholesterol  float64 `json:"cholesterol_mg"`
	SaturatedFat float64 `json:"fat_saturated_g"`
}

// NewClient creates an API Ninjas client.
func NewClient(cfg providers.ClientConfig, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	confidence := cfg.BaseConfidence
	if confidence <= 0 {
		confidence = defaultConfidence
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		cfg:        cfg,
		confidence: confidence,
		client:     &http.Client{Timeout: cfg.EffectiveTimeout()},
		limiter:    limiter,
		logger:     logger.Named("api-ninjas"),
	}
}

// Name returns the provider identifier used in records and metrics.
func (c *Client) Name() string { return providerName }

// Lookup queries API Ninjas for the ingredient. Ordinary failures come back
// as tagged outcomes, never as panics or surfaced errors.
func (c *Client) Lookup(ctx context.Context, ingredientName string) outbound.LookupOutcome {
	if c.cfg.APIKey == "" {
		return outbound.LookupOutcome{Status: outbound.LookupSkipped}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.failure(ingredientName, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.EffectiveTimeout())
	defer cancel()

	endpoint := c.cfg.BaseURL + "?query=" + url.QueryEscape(ingredientName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return c.failure(ingredientName, err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.failure(ingredientName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return c.failure(ingredientName, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	var items []item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return c.failure(ingredientName, err)
	}

	if len(items) == 0 {
		c.logger.Debug("no results", zap.String("ingredient", ingredientName))
		return outbound.LookupOutcome{Status: outbound.LookupNoMatch}
	}

	candidates := make([]providers.Candidate, len(items))
	for i, it := range items {
		candidates[i] = providers.Candidate{Description: it.Name}
	}
	idx, ok := providers.BestMatch(ingredientName, candidates)
	if !ok {
		return outbound.LookupOutcome{Status: outbound.LookupNoMatch}
	}

	best := items[idx]
	return outbound.LookupOutcome{
		Status: outbound.LookupHit,
		Record: nutrition.Record{
			Calories:      best.Calories,
			Protein:       best.Protein,
			Carbohydrates: best.Carbs,
			Fat:           best.Fat,
			Fiber:         best.Fiber,
			Sugar:         best.Sugar,
			Sodium:        best.Sodium,
			Cholesterol:   best.Cholesterol,
			SaturatedFat:  best.SaturatedFat,
			Source:        nutrition.SourceAPINinjas,
			Confidence:    c.confidence,
		},
	}
}

func (c *Client) failure(ingredientName string, err error) outbound.LookupOutcome {
	var appErr *apperrors.AppError
	if errors.Is(err, context.DeadlineExceeded) {
		appErr = apperrors.NewTimeoutError(providerName)
	} else {
		appErr = apperrors.NewExternalServiceError(providerName, err)
	}
	c.logger.Warn("lookup failed",
		zap.String("ingredient", ingredientName),
		zap.Error(appErr))
	return outbound.LookupOutcome{Status: outbound.LookupError, Err: appErr}
}
