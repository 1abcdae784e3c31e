package recipes

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"mealmind/internal/llm"
	"mealmind/internal/shared"
)

//go:embed recipe_prompt.md
var recipePrompt string

// Generator is an LLM-backed Source.
type Generator struct {
	textGen llm.TextGenerator
}

// NewGenerator creates a new Generator on top of a text generation backend.
func NewGenerator(textGen llm.TextGenerator) *Generator {
	return &Generator{textGen: textGen}
}

// Generate asks the model for one candidate recipe. Malformed model output
// is an error; the caller decides whether to fall back.
func (g *Generator) Generate(ctx context.Context, req Request) (Candidate, shared.AgentMeta, error) {
	start := time.Now()
	meta := shared.AgentMeta{AgentName: "RecipeGenerator"}

	prompt, err := buildRecipePrompt(req)
	if err != nil {
		return Candidate{}, meta, err
	}

	resp, err := g.textGen.GenerateContent(ctx, prompt)
	meta.Usage = resp.Usage
	meta.Latency = time.Since(start)
	if err != nil {
		return Candidate{}, meta, err
	}

	var candidate Candidate
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &candidate); err != nil {
		return Candidate{}, meta, fmt.Errorf(
			"failed to parse Candidate %w, :%s",
			err,
			resp.Content,
		)
	}

	if candidate.MealType == "" {
		candidate.MealType = req.MealType
	}

	return candidate, meta, nil
}

func buildRecipePrompt(req Request) (string, error) {
	tmpl, err := template.New("RecipeGenerator").Parse(recipePrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, req); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// stripFences removes a markdown code fence wrapper, which some models add
// despite being told not to.
func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)

	if idx := strings.Index(trimmed, "```json"); idx >= 0 {
		trimmed = trimmed[idx+len("```json"):]
	} else if idx := strings.Index(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[idx+len("```"):]
	} else {
		return trimmed
	}

	if end := strings.Index(trimmed, "```"); end >= 0 {
		trimmed = trimmed[:end]
	}
	return strings.TrimSpace(trimmed)
}
