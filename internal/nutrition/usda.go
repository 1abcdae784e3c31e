package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"mealmind/internal/logging"
)

const usdaAPIURL = "https://api.nal.usda.gov/fdc/v1"

// USDAClient looks up nutrient data in the USDA FoodData Central API.
//
// Results are cached per ingredient for the lifetime of the client. Any
// failure (missing API key, network error, no match) falls back to the
// built-in estimate table, so Lookup never returns an error in practice.
type USDAClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	fallback   FallbackTable

	mu    sync.Mutex
	cache map[string]per100gValues
}

type per100gValues struct {
	calories float64
	protein  float64
	carbs    float64
	fat      float64
	fiber    float64
	sugar    float64
	sodium   float64
}

// NewUSDAClient creates a new USDA lookup client. An empty API key is
// allowed; every lookup then uses the fallback table.
func NewUSDAClient(apiKey string, logger *logging.Logger) *USDAClient {
	return &USDAClient{
		apiKey:  apiKey,
		baseURL: usdaAPIURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
		cache:  map[string]per100gValues{},
	}
}

// Lookup returns nutrient values for the given amount of an ingredient.
func (c *USDAClient) Lookup(ctx context.Context, ingredient string, amountGrams float64) (Info, error) {
	values, ok := c.cached(ingredient)
	if !ok {
		var err error
		values, err = c.fetch(ctx, ingredient)
		if err != nil {
			c.logger.Warn("nutrition_lookup_fallback", "ingredient", ingredient, "error", err)
			return c.fallback.Lookup(ctx, ingredient, amountGrams)
		}
		c.store(ingredient, values)
	}

	scale := amountGrams / 100.0
	return Info{
		Calories: values.calories * scale,
		ProteinG: values.protein * scale,
		CarbsG:   values.carbs * scale,
		FatG:     values.fat * scale,
		FiberG:   values.fiber * scale,
		SugarG:   values.sugar * scale,
		SodiumMG: values.sodium * scale,
	}, nil
}

func (c *USDAClient) cached(ingredient string) (per100gValues, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache[ingredient]
	return v, ok
}

func (c *USDAClient) store(ingredient string, v per100gValues) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[ingredient] = v
}

// fetch queries the FoodData Central search endpoint and extracts the
// per-100g nutrient values of the best match.
func (c *USDAClient) fetch(ctx context.Context, ingredient string) (per100gValues, error) {
	if c.apiKey == "" {
		return per100gValues{}, fmt.Errorf("no USDA API key configured")
	}

	params := url.Values{}
	params.Set("query", ingredient)
	params.Set("api_key", c.apiKey)
	params.Set("pageSize", "1")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/foods/search?"+params.Encode(), nil)
	if err != nil {
		return per100gValues{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return per100gValues{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return per100gValues{}, fmt.Errorf("usda api error: status=%d", resp.StatusCode)
	}

	var searchResp struct {
		Foods []struct {
			Description   string `json:"description"`
			FoodNutrients []struct {
				NutrientName string  `json:"nutrientName"`
				Value        float64 `json:"value"`
			} `json:"foodNutrients"`
		} `json:"foods"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return per100gValues{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(searchResp.Foods) == 0 {
		return per100gValues{}, fmt.Errorf("no match for %q", ingredient)
	}

	nutrients := map[string]float64{}
	for _, n := range searchResp.Foods[0].FoodNutrients {
		nutrients[n.NutrientName] = n.Value
	}

	values := per100gValues{
		calories: nutrients["Energy"],
		protein:  nutrients["Protein"],
		carbs:    firstOf(nutrients, "Carbohydrate, by difference", "Carbohydrate"),
		fat:      nutrients["Total lipid (fat)"],
		fiber:    firstOf(nutrients, "Fiber, total dietary", "Fiber"),
		sugar:    nutrients["Sugars, total including NLEA"],
		sodium:   nutrients["Sodium, Na"],
	}

	c.logger.Debug("nutrition_lookup_success", "ingredient", ingredient)
	return values, nil
}

func firstOf(nutrients map[string]float64, names ...string) float64 {
	for _, name := range names {
		if v, ok := nutrients[name]; ok {
			return v
		}
	}
	return 0
}
