// Package usda provides the USDA FoodData Central nutrition source.
// It is the most reliable provider and the last external one tried: a
// search over the Foundation and SR Legacy datasets, then a food detail
// request whose nutrient IDs map to the nine tracked fields.
package usda

import (
	"bytes"
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
	providerName       = "usda"
	defaultBaseURL     = "https://api.nal.usda.gov/fdc/v1"
	defaultConfidence  = 0.9
	searchPageSize     = 5
	dataTypeFoundation = "Foundation"
)

// FDC nutrient numbers for the nine tracked fields.
var nutrientFields = map[int]func(*nutrition.Record, float64){
	1008: func(r *nutrition.Record, v float64) { r.Calories = v },
	1003: func(r *nutrition.Record, v float64) { r.Protein = v },
	1005: func(r *nutrition.Record, v float64) { r.Carbohydrates = v },
	1004: func(r *nutrition.Record, v float64) { r.Fat = v },
	1079: func(r *nutrition.Record, v float64) { r.Fiber = v },
	2000: func(r *nutrition.Record, v float64) { r.Sugar = v },
	1093: func(r *nutrition.Record, v float64) { r.Sodium = v },
	1253: func(r *nutrition.Record, v float64) { r.Cholesterol = v },
	1258: func(r *nutrition.Record, v float64) { r.SaturatedFat = v },
}

// Client implements the SourceProvider interface against FoodData Central.
type Client struct {
	cfg        providers.ClientConfig
	confidence float64
	client     *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

type searchRequest struct {
	Query     string   `json:"query"`
	PageSize  int      `json:"pageSize"`
	DataTypes []string `json:"dataType"`
}

type searchResponse struct {
	Foods []struct {
		FDCID       int    `json:"fdcId"`
		Description string `json:"description"`
		DataType    string `json:"dataType"`
	} `json:"foods"`
}

type foodResponse struct {
	FoodNutrients []struct {
		Nutrient struct {
			ID int `json:"id"`
		} `json:"nutrient"`
		Amount float64 `json:"amount"`
	} `json:"foodNutrients"`
}

// NewClient creates a FoodData Central client.
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
		logger:     logger.Named("usda"),
	}
}

// Name returns the provider identifier used in records and metrics.
func (c *Client) Name() string { return providerName }

// Lookup searches FoodData Central and fetches the best match's nutrients.
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

	fdcID, ok, out := c.search(ctx, ingredientName)
	if !ok {
		return out
	}

	return c.food(ctx, ingredientName, fdcID)
}

func (c *Client) search(ctx context.Context, ingredientName string) (int, bool, outbound.LookupOutcome) {
	body, err := json.Marshal(searchRequest{
		Query:     ingredientName,
		PageSize:  searchPageSize,
		DataTypes: []string{dataTypeFoundation, "SR Legacy"},
	})
	if err != nil {
		return 0, false, c.failure(ingredientName, err)
	}

	endpoint := c.cfg.BaseURL + "/foods/search?api_key=" + url.QueryEscape(c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, false, c.failure(ingredientName, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var sr searchResponse
	if err := c.doJSON(req, &sr); err != nil {
		return 0, false, c.failure(ingredientName, err)
	}

	if len(sr.Foods) == 0 {
		c.logger.Debug("no results", zap.String("ingredient", ingredientName))
		return 0, false, outbound.LookupOutcome{Status: outbound.LookupNoMatch}
	}

	candidates := make([]providers.Candidate, len(sr.Foods))
	for i, f := range sr.Foods {
		candidates[i] = providers.Candidate{
			Description: f.Description,
			Canonical:   f.DataType == dataTypeFoundation,
		}
	}
	idx, matched := providers.BestMatch(ingredientName, candidates)
	if !matched {
		return 0, false, outbound.LookupOutcome{Status: outbound.LookupNoMatch}
	}

	return sr.Foods[idx].FDCID, true, outbound.LookupOutcome{}
}

func (c *Client) food(ctx context.Context, ingredientName string, fdcID int) outbound.LookupOutcome {
	endpoint := fmt.Sprintf("%s/food/%d?api_key=%s", c.cfg.BaseURL, fdcID, url.QueryEscape(c.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return c.failure(ingredientName, err)
	}

	var fr foodResponse
	if err := c.doJSON(req, &fr); err != nil {
		return c.failure(ingredientName, err)
	}

	rec := nutrition.Record{
		Source:     nutrition.SourceUSDA,
		Confidence: c.confidence,
	}
	for _, n := range fr.FoodNutrients {
		if set, ok := nutrientFields[n.Nutrient.ID]; ok {
			set(&rec, n.Amount)
		}
	}

	return outbound.LookupOutcome{Status: outbound.LookupHit, Record: rec}
}

func (c *Client) doJSON(req *http.Request, v interface{}) error {
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
