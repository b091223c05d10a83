package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RefOption is a reference table row offered to the model.
type RefOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MenuMetadata is the model's guess at a menu item's id lists.
type MenuMetadata struct {
	CategoryIDs []int `json:"category_ids"`
	Allergens   []int `json:"allergens"`
	Appliances  []int `json:"appliances"`
}

// MetadataOptions are the rows the model may pick from.
type MetadataOptions struct {
	Categories []RefOption
	Allergens  []RefOption
	Appliances []RefOption
}

// MenuAssistant writes and classifies menu copy.
type MenuAssistant interface {
	SuggestDescription(ctx context.Context, title string) (string, error)
	EnhanceDescription(ctx context.Context, title, description string) (string, error)
	AnalyzeMetadata(ctx context.Context, title, description string, opts MetadataOptions) (MenuMetadata, error)
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini connects with apiKey. model defaults to gemini-1.5-flash.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0.6)
	return &Gemini{client: client, model: m}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

// Assistant turns menu requests into prompts for a Generator.
type Assistant struct {
	gen Generator
}

func NewAssistant(gen Generator) *Assistant {
	return &Assistant{gen: gen}
}

func (a *Assistant) SuggestDescription(ctx context.Context, title string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a two sentence description for a home-cooked dish called %q, as shown on a chef's menu. "+
			"Reply with the description only.", title)
	return a.gen.Generate(ctx, prompt)
}

func (a *Assistant) EnhanceDescription(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(
		"Improve this menu description for %q. Keep every fact the chef wrote, fix grammar, "+
			"and keep it under 60 words. Reply with the description only.\n\n%s", title, description)
	return a.gen.Generate(ctx, prompt)
}

func (a *Assistant) AnalyzeMetadata(ctx context.Context, title, description string, opts MetadataOptions) (MenuMetadata, error) {
	options, err := json.Marshal(map[string][]RefOption{
		"categories": opts.Categories,
		"allergens":  opts.Allergens,
		"appliances": opts.Appliances,
	})
	if err != nil {
		return MenuMetadata{}, err
	}
	prompt := fmt.Sprintf(
		"A chef is listing %q: %s\n"+
			"Pick the matching ids from these options: %s\n"+
			`Reply with JSON only: {"category_ids":[...],"allergens":[...],"appliances":[...]}`,
		title, description, options)

	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return MenuMetadata{}, err
	}
	meta, err := parseMetadata(text)
	if err != nil {
		return MenuMetadata{}, err
	}
	return meta.restrictTo(opts), nil
}

// parseMetadata reads the first JSON object in text; models like to wrap
// answers in code fences.
func parseMetadata(text string) (MenuMetadata, error) {
	start, end := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return MenuMetadata{}, fmt.Errorf("no JSON object in model reply")
	}
	var meta MenuMetadata
	if err := json.Unmarshal([]byte(text[start:end+1]), &meta); err != nil {
		return MenuMetadata{}, fmt.Errorf("decode model reply: %w", err)
	}
	return meta, nil
}

// restrictTo drops ids the model made up.
func (m MenuMetadata) restrictTo(opts MetadataOptions) MenuMetadata {
	return MenuMetadata{
		CategoryIDs: keepKnown(m.CategoryIDs, opts.Categories),
		Allergens:   keepKnown(m.Allergens, opts.Allergens),
		Appliances:  keepKnown(m.Appliances, opts.Appliances),
	}
}

func keepKnown(ids []int, options []RefOption) []int {
	known := make(map[int]bool, len(options))
	for _, o := range options {
		known[o.ID] = true
	}
	out := []int{}
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
			known[id] = false
		}
	}
	return out
}

// DisabledAssistant fails every call; the endpoints report the failure and
// the wizards carry on without suggestions.
type DisabledAssistant struct{}

func (DisabledAssistant) SuggestDescription(context.Context, string) (string, error) {
	return "", ErrDisabled
}

func (DisabledAssistant) EnhanceDescription(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

func (DisabledAssistant) AnalyzeMetadata(context.Context, string, string, MetadataOptions) (MenuMetadata, error) {
	return MenuMetadata{}, ErrDisabled
}
