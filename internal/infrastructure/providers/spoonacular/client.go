// Package spoonacular provides the Spoonacular nutrition source.
// Lookups take two round trips: an ingredient search followed by an
// information request at a fixed 100 g amount.
package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/providers"
	"github.com/alchemorsel/nutrition/internal/ports/outbound"
	apperrors "github.com/alchemorsel/nutrition/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	providerName      = "spoonacular"
	defaultBaseURL    = "https://api.spoonacular.com/food"
	defaultConfidence = 0.8
	searchPageSize    = 5
)

// Client implements the SourceProvider interface against Spoonacular.
type Client struct {
	cfg        providers.ClientConfig
	confidence float64
	client     *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type searchResponse struct {
	Results []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"results"`
}

type informationResponse struct {
	Nutrition struct {
		Nutrients []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
			Unit   string  `json:"unit"`
		} `json:"nutrients"`
	} `json:"nutrition"`
}

// NewClient creates a Spoonacular client.
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
		logger:     logger.Named("spoonacular"),
	}
}

// Name returns the provider identifier used in records and metrics.
func (c *Client) Name() string { return providerName }

// Lookup resolves the ingredient via search + information calls. Both legs
// share one timeout budget.
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

	ingredientID, ok, out := c.search(ctx, ingredientName)
	if !ok {
		return out
	}

	return c.information(ctx, ingredientName, ingredientID)
}

func (c *Client) search(ctx context.Context, ingredientName string) (int, bool, outbound.LookupOutcome) {
	params := url.Values{}
	params.Set("apiKey", c.cfg.APIKey)
	params.Set("query", ingredientName)
	params.Set("number", fmt.Sprint(searchPageSize))

	var sr searchResponse
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/ingredients/search?"+params.Encode(), &sr); err != nil {
		return 0, false, c.failure(ingredientName, err)
	}

	if len(sr.Results) == 0 {
		c.logger.Debug("no results", zap.String("ingredient", ingredientName))
		return 0, false, outbound.LookupOutcome{Status: outbound.LookupNoMatch}
	}

	candidates := make([]providers.Candidate, len(sr.Results))
	for i, r := range sr.Results {
		candidates[i] = providers.Candidate{Description: r.Name}
	}
	idx, matched := providers.BestMatch(ingredientName, candidates)
	if !matched {
		return 0, false, outbound.LookupOutcome{Status: outbound.LookupNoMatch}
	}

	return sr.Results[idx].ID, true, outbound.LookupOutcome{}
}

func (c *Client) information(ctx context.Context, ingredientName string, id int) outbound.LookupOutcome {
	params := url.Values{}
	params.Set("apiKey", c.cfg.APIKey)
	params.Set("amount", "100")
	params.Set("unit", "grams")

	var ir informationResponse
	endpoint := fmt.Sprintf("%s/ingredients/%d/information?%s", c.cfg.BaseURL, id, params.Encode())
	if err := c.getJSON(ctx, endpoint, &ir); err != nil {
		return c.failure(ingredientName, err)
	}

	nutrients := make(map[string]float64, len(ir.Nutrition.Nutrients))
	for _, n := range ir.Nutrition.Nutrients {
		name := strings.ToLower(n.Name)
		amount := n.Amount
		// Sodium and cholesterol are carried in milligrams; Spoonacular
		// occasionally reports them in grams.
		if (name == "sodium" || name == "cholesterol") && strings.EqualFold(n.Unit, "g") {
			amount *= 1000
		}
		nutrients[name] = amount
	}

	return outbound.LookupOutcome{
		Status: outbound.LookupHit,
		Record: nutrition.Record{
			Calories:      nutrients["calories"],
			Protein:       nutrients["protein"],
			Carbohydrates: nutrients["carbohydrates"],
			Fat:           nutrients["fat"],
			Fiber:         nutrients["fiber"],
			Sugar:         nutrients["sugar"],
			Sodium:        nutrients["sodium"],
			Cholesterol:   nutrients["cholesterol"],
			SaturatedFat:  nutrients["saturated fat"],
			Source:        nutrition.SourceSpoonacular,
			Confidence:    c.confidence,
		},
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(v)
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
