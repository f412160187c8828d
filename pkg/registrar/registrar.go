package registrar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrNotFound means the lookup succeeded but the model could not identify the
// registrar. Distinct from transport or API failures, which the caller shows
// as a retry-later condition.
var ErrNotFound = errors.New("registrar not found")

const defaultModel = "gemini-2.5-flash"

// Info is the answer to a registrar lookup.
type Info struct {
	RegistrarName string `json:"registrarName"`
	AllotmentURL  string `json:"allotmentUrl"`
}

// Client resolves an IPO display name to the registrar handling its allotment,
// using a structured-output Gemini query.
type Client struct {
	gc    *genai.Client
	model string
}

// New creates a lookup client. The underlying genai client picks its API key
// up from the environment. An empty model selects the default.
func New(ctx context.Context, model string) (*Client, error) {
	gc, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lookup client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{gc: gc, model: model}, nil
}

// Find looks up the registrar for the named IPO. There is no retry: a failed
// call surfaces as a single error.
func (c *Client) Find(ctx context.Context, ipoName string) (*Info, error) {
	prompt := fmt.Sprintf("For the IPO named %q, which registrar handled the allotment? "+
		"The main registrars in India are Link Intime, KFintech, and Bigshare. "+
		"Provide the registrar's name and the direct URL to their IPO allotment status check page. "+
		"If you cannot find the information, respond with an empty object.", ipoName)

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"registrarName": {Type: genai.TypeString},
				"allotmentUrl":  {Type: genai.TypeString},
			},
			Required: []string{"registrarName", "allotmentUrl"},
		},
	}

	resp, err := c.gc.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("registrar lookup failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, ErrNotFound
	}

	var info Info
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		return nil, fmt.Errorf("failed to decode registrar response: %w", err)
	}
	if info.RegistrarName == "" || info.AllotmentURL == "" {
		return nil, ErrNotFound
	}
	return &info, nil
}
