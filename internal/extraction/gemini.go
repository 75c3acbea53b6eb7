package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// resultSchema is the fixed response schema sent with every request.
// All four fields are required but nullable, so the service always
// returns a value or an explicit null per field rather than omitting
// keys.
var resultSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"transaction_name": {Type: genai.TypeString, Nullable: true},
		"total_amount":     {Type: genai.TypeNumber, Nullable: true},
		"transaction_date": {Type: genai.TypeString, Nullable: true},
		"category":         {Type: genai.TypeString, Nullable: true},
	},
	Required: []string{"transaction_name", "total_amount", "transaction_date", "category"},
}

// Gemini implements Extractor using Google Gemini with structured
// output.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini extractor.
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   resultSchema,
	}

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// Extract sends one request with the receipt image and the fixed
// schema, and parses the JSON response. No timeout is imposed here;
// the caller's context governs.
func (g *Gemini) Extract(ctx context.Context, imageData []byte, mimeType string) (*Result, error) {
	finalImageData, _, _, err := prepareImageData(imageData, mimeType)
	if err != nil {
		return nil, err
	}

	// genai.ImageData takes the format suffix, not the full MIME
	// type. prepareImageData always yields PNG.
	parts := []genai.Part{
		genai.ImageData("png", finalImageData),
		genai.Text(extractionPrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	responseText, err := candidateText(resp)
	if err != nil {
		return nil, err
	}

	result, err := parseResultJSON(responseText)
	if err != nil {
		return nil, fmt.Errorf("parsing extraction response: %w", err)
	}
	return result, nil
}

// candidateText joins the text parts of the first candidate. A
// candidate can arrive with nil Content when generation stops early,
// for a safety finish reason for instance; that reads as unparseable.
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnparseable)
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUnparseable)
	}

	var text strings.Builder
	for _, part := range content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String(), nil
}

// Close closes the Gemini client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
