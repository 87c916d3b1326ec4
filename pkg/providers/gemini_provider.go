package providers

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider talks to the Gemini API. It is the default backend: text
// generation with mixed text/inline-image contents, plus native image
// generation through response modalities.
type GeminiProvider struct {
	client     *genai.Client
	model      string
	imageModel string
}

func NewGeminiProvider(ctx context.Context, apiKey, model, imageModel string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: model, imageModel: imageModel}, nil
}

func (p *GeminiProvider) GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error) {
	contents, cfg := buildGeminiRequest(req)

	resp, err := p.client.Models.GenerateContent(ctx, p.resolveModel(req.Model), contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini API call: %w", err)
	}

	return &TextResponse{
		Text:  resp.Text(),
		Usage: geminiUsage(resp.UsageMetadata),
	}, nil
}

func (p *GeminiProvider) GenerateTextStream(ctx context.Context, req TextRequest, onDelta func(string)) (*TextResponse, error) {
	contents, cfg := buildGeminiRequest(req)

	var full string
	var usage *UsageInfo
	for resp, err := range p.client.Models.GenerateContentStream(ctx, p.resolveModel(req.Model), contents, cfg) {
		if err != nil {
			return nil, fmt.Errorf("gemini API stream: %w", err)
		}
		if delta := resp.Text(); delta != "" {
			full += delta
			onDelta(delta)
		}
		if resp.UsageMetadata != nil {
			usage = geminiUsage(resp.UsageMetadata)
		}
	}

	return &TextResponse{Text: full, Usage: usage}, nil
}

// GenerateImage runs one image-generation call. A response without inline
// image bytes maps to ErrNoImage so callers can distinguish "the model drew
// nothing" from transport failure.
func (p *GeminiProvider) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	model := req.Model
	if model == "" {
		model = p.imageModel
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}
	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini image API call: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &ImageResponse{
					Data:      part.InlineData.Data,
					MediaType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}
	return nil, ErrNoImage
}

func (p *GeminiProvider) DefaultModel() string      { return p.model }
func (p *GeminiProvider) DefaultImageModel() string { return p.imageModel }

func (p *GeminiProvider) resolveModel(model string) string {
	if model != "" {
		return model
	}
	return p.model
}

func buildGeminiRequest(req TextRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	parts := make([]*genai.Part, 0, len(req.Blocks))
	for _, b := range req.Blocks {
		switch b.Type {
		case "text":
			parts = append(parts, genai.NewPartFromText(b.Text))
		case "image":
			parts = append(parts, genai.NewPartFromBytes(b.Data, b.MediaType))
		}
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	return contents, cfg
}

func geminiUsage(meta *genai.GenerateContentResponseUsageMetadata) *UsageInfo {
	if meta == nil {
		return nil
	}
	return &UsageInfo{
		PromptTokens:     int(meta.PromptTokenCount),
		CompletionTokens: int(meta.CandidatesTokenCount),
		TotalTokens:      int(meta.TotalTokenCount),
	}
}

var (
	_ StreamingProvider = (*GeminiProvider)(nil)
	_ ImageProvider     = (*GeminiProvider)(nil)
)
