package usda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alchemorsel/nutrition/internal/domain/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/providers"
	"github.com/alchemorsel/nutrition/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const detailBody = `{"foodNutrients": [
	{"nutrient": {"id": 1008}, "amount": 165},
	{"nutrient": {"id": 1003}, "amount": 31},
	{"nutrient": {"id": 1005}, "amount": 0},
	{"nutrient": {"id": 1004}, "amount": 3.6},
	{"nutrient": {"id": 1079}, "amount": 0},
	{"nutrient": {"id": 2000}, "amount": 0},
	{"nutrient": {"id": 1093}, "amount": 74},
	{"nutrient": {"id": 1253}, "amount": 85},
	{"nutrient": {"id": 1258}, "amount": 1},
	{"nutrient": {"id": 1104}, "amount": 30}
]}`

func newTestClient(t *testing.T, searchBody string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/foods/search"):
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
			var req struct {
				Query     string   `json:"query"`
				PageSize  int      `json:"pageSize"`
				DataTypes []string `json:"dataType"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 5, req.PageSize)
			assert.Equal(t, []string{"Foundation", "SR Legacy"}, req.DataTypes)
			w.Write([]byte(searchBody))
		case strings.HasSuffix(r.URL.Path, "/food/171077"):
			w.Write([]byte(detailBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return NewClient(providers.ClientConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	}, zap.NewNop())
}

func TestLookupHitMapsNutrientIDs(t *testing.T) {
	c := newTestClient(t, `{"foods": [
		{"fdcId": 171077, "description": "Chicken breast", "dataType": "SR Legacy"}
	]}`)

	out := c.Lookup(context.Background(), "chicken breast")
	require.Equal(t, outbound.LookupHit, out.Status)
	assert.Equal(t, 165.0, out.Record.Calories)
	assert.Equal(t, 31.0, out.Record.Protein)
	assert.Equal(t, 3.6, out.Record.Fat)
	assert.Equal(t, 74.0, out.Record.Sodium)
	assert.Equal(t, 85.0, out.Record.Cholesterol)
	assert.Equal(t, 1.0, out.Record.SaturatedFat)
	assert.Equal(t, nutrition.SourceUSDA, out.Record.Source)
	assert.Equal(t, 0.9, out.Record.Confidence)
}

func TestLookupPrefersFoundationOnTie(t *testing.T) {
	// Both descriptions match the query equally; the Foundation entry's
	// bonus breaks the tie.
	c := newTestClient(t, `{"foods": [
		{"fdcId": 99999, "description": "Chicken breast", "dataType": "SR Legacy"},
		{"fdcId": 171077, "description": "Chicken breast", "dataType": "Foundation"}
	]}`)

	out := c.Lookup(context.Background(), "chicken breast")
	require.Equal(t, outbound.LookupHit, out.Status)
	assert.Equal(t, 165.0, out.Record.Calories)
}

func TestLookupNoResultsIsNoMatch(t *testing.T) {
	c := newTestClient(t, `{"foods": []}`)

	out := c.Lookup(context.Background(), "xyzzy")
	assert.Equal(t, outbound.LookupNoMatch, out.Status)
}

func TestLookupIrrelevantResultsAreNoMatch(t *testing.T) {
	c := newTestClient(t, `{"foods": [
		{"fdcId": 9266, "description": "Pineapple, raw", "dataType": "Foundation"}
	]}`)

	out := c.Lookup(context.Background(), "chicken breast")
	assert.Equal(t, outbound.LookupNoMatch, out.Status)
}

func TestLookupSearchFailureIsLookupError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(providers.ClientConfig{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())

	out := c.Lookup(context.Background(), "chicken breast")
	require.Equal(t, outbound.LookupError, out.Status)
	assert.Error(t, out.Err)
}

func TestLookupWithoutAPIKeyIsSkipped(t *testing.T) {
	c := NewClient(providers.ClientConfig{}, zap.NewNop())

	out := c.Lookup(context.Background(), "chicken breast")
	assert.Equal(t, outbound.LookupSkipped, out.Status)
}
