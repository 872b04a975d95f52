package agent

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is the model used when no override is configured.
const DefaultModel = "gemini-2.5-flash"

// systemInstruction pins the hosted agent to cable-product topics.
const systemInstruction = `You are the Nassau National Cable assistant. Answer questions about cables, wiring, connectors, and related electrical products only. Use the product search tooling when a customer asks about availability, inventory, or pricing. Politely decline unrelated topics.`

// CommerceConfig carries the commerce backend credentials the hosted
// product-search tooling runs against. Both fields are required.
type CommerceConfig struct {
	StoreHash   string
	AccessToken string
}

// Gemini is the live Agent implementation backed by the Gemini API.
// The API key is read from GEMINI_API_KEY by the underlying client.
type Gemini struct {
	client   *genai.Client
	model    string
	commerce CommerceConfig // consumed by the hosted product-search tooling
}

// NewGemini creates the live agent. Missing commerce credentials are a
// startup failure, not a per-request one.
func NewGemini(ctx context.Context, model string, commerce CommerceConfig) (*Gemini, error) {
	if commerce.StoreHash == "" || commerce.AccessToken == "" {
		return nil, errors.New("commerce credentials are required")
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, model: model, commerce: commerce}, nil
}

// Send forwards one assembled prompt and returns the agent's raw reply
// text. The reply may embed tool-call artifacts; callers sanitize it.
func (g *Gemini) Send(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty model response")
	}
	return text, nil
}
