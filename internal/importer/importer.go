// Package importer fetches recipe pages from the web and turns them into
// structured library entries.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mealmind/internal/llm"
	"mealmind/internal/logging"
	"mealmind/internal/recipes"
	"mealmind/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

const extractionPrompt = `
You are a recipe extraction expert. Extract the recipe details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "name": "Recipe Title",
  "meal_type": "breakfast|lunch|dinner",
  "cuisine": "e.g. italian",
  "cooking_time_minutes": 30,
  "servings": 4,
  "ingredients": [{"name": "flour", "amount": 200, "unit": "grams"}],
  "instructions": ["Step 1 description", "Step 2 description"],
  "tags": ["quick", "vegetarian"]
}
Use only "grams", "ml" or "pieces" as units.

Page Content:
%s
`

// Importer fetches a URL, extracts the recipe with the text generator and
// saves it to the recipe library.
type Importer struct {
	library    *recipes.Library
	textGen    llm.TextGenerator
	httpClient *http.Client
	logger     *logging.Logger
}

func New(library *recipes.Library, textGen llm.TextGenerator, logger *logging.Logger) *Importer {
	return &Importer{
		library:    library,
		textGen:    textGen,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// ImportURL fetches the page, extracts a structured recipe and stores it.
// The returned meta carries the extraction call's token usage.
func (i *Importer) ImportURL(ctx context.Context, url string) (*recipes.LibraryEntry, shared.AgentMeta, error) {
	meta := shared.AgentMeta{AgentName: "RecipeImporter"}

	content, err := i.fetchAndCleanHTML(url)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to fetch content: %w", err)
	}

	start := time.Now()
	resp, err := i.textGen.GenerateContent(ctx, fmt.Sprintf(extractionPrompt, content))
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return nil, meta, fmt.Errorf("recipe extraction failed: %w", err)
	}

	raw := stripFences(resp.Content)
	var candidate recipes.Candidate
	if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
		return nil, meta, fmt.Errorf("failed to parse extracted recipe: %w. Response: %s", err, resp.Content)
	}
	if candidate.Name == "" {
		return nil, meta, fmt.Errorf("no recipe found at %s", url)
	}

	entry := recipes.LibraryEntry{
		SourceURL: url,
		Candidate: candidate,
	}
	id, err := i.library.Save(ctx, entry)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to save imported recipe: %w", err)
	}
	entry.ID = id

	i.logger.Info("recipe_imported", "url", url, "recipe", candidate.Name, "id", id)
	return &entry, meta, nil
}

// fetchAndCleanHTML downloads the page and strips markup that only wastes
// extraction tokens.
func (i *Importer) fetchAndCleanHTML(url string) (string, error) {
	resp, err := i.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
