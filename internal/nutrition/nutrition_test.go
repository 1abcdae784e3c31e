package nutrition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mealmind/internal/logging"
)

func TestFallbackTable(t *testing.T) {
	ctx := context.Background()
	var table FallbackTable

	t.Run("KnownIngredient", func(t *testing.T) {
		info, err := table.Lookup(ctx, "chicken breast", 200)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		// 165 cal / 100g scaled to 200g
		if info.Calories != 330 {
			t.Errorf("Expected 330 calories, got %f", info.Calories)
		}
		if info.ProteinG != 62 {
			t.Errorf("Expected 62g protein, got %f", info.ProteinG)
		}
	})

	t.Run("UnknownIngredientGenericEstimate", func(t *testing.T) {
		info, err := table.Lookup(ctx, "dragonfruit compote", 100)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if info.Calories != 100 {
			t.Errorf("Expected generic 100 calories, got %f", info.Calories)
		}
		if info.ProteinG != 5 {
			t.Errorf("Expected generic 5g protein, got %f", info.ProteinG)
		}
	})
}

func TestDefaultConversion(t *testing.T) {
	conv := DefaultConversion()
	if conv.MillilitersPerGram != 1.0 {
		t.Errorf("Expected ml ratio 1.0, got %f", conv.MillilitersPerGram)
	}
	if conv.IncludePieces {
		t.Error("Expected pieces to be excluded by default")
	}
	if conv.DefaultServings != 4 {
		t.Errorf("Expected default servings 4, got %d", conv.DefaultServings)
	}
}

func TestUSDAClient(t *testing.T) {
	ctx := context.Background()

	t.Run("APILookup", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if got := r.URL.Query().Get("query"); got != "quinoa" {
				t.Errorf("Expected query 'quinoa', got '%s'", got)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"foods": []map[string]interface{}{
					{
						"description": "Quinoa, cooked",
						"foodNutrients": []map[string]interface{}{
							{"nutrientName": "Energy", "value": 120.0},
							{"nutrientName": "Protein", "value": 4.4},
							{"nutrientName": "Carbohydrate, by difference", "value": 21.3},
							{"nutrientName": "Total lipid (fat)", "value": 1.9},
							{"nutrientName": "Fiber, total dietary", "value": 2.8},
							{"nutrientName": "Sodium, Na", "value": 7.0},
						},
					},
				},
			})
		}))
		defer server.Close()

		client := NewUSDAClient("test-key", logging.NewNop())
		client.baseURL = server.URL

		info, err := client.Lookup(ctx, "quinoa", 200)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if info.Calories != 240 {
			t.Errorf("Expected 240 calories for 200g, got %f", info.Calories)
		}
		if info.SodiumMG != 14 {
			t.Errorf("Expected 14mg sodium, got %f", info.SodiumMG)
		}

		// Second lookup is served from cache.
		if _, err := client.Lookup(ctx, "quinoa", 100); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("Expected 1 API call, got %d", calls)
		}
	})

	t.Run("NoAPIKeyFallsBack", func(t *testing.T) {
		client := NewUSDAClient("", logging.NewNop())

		info, err := client.Lookup(ctx, "broccoli", 100)
		if err != nil {
			t.Fatalf("Expected fallback result, got error %v", err)
		}
		if info.Calories != 34 {
			t.Errorf("Expected fallback 34 calories, got %f", info.Calories)
		}
	})

	t.Run("ServerErrorFallsBack", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewUSDAClient("test-key", logging.NewNop())
		client.baseURL = server.URL

		info, err := client.Lookup(ctx, "rice", 100)
		if err != nil {
			t.Fatalf("Expected fallback result, got error %v", err)
		}
		if info.Calories != 130 {
			t.Errorf("Expected fallback 130 calories, got %f", info.Calories)
		}
	})
}
