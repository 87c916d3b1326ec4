// Package providers wraps the hosted model APIs behind a small interface:
// one text-generation call over ordered content blocks, and one
// image-generation call over a plain prompt.
package providers

import (
	"context"
	"errors"

	"github.com/katsu224/asistenteRRHH/pkg/prompt"
)

// ErrNoImage is returned when an image-generation response carries no inline
// image payload. Distinct from transport failures: the call succeeded but
// produced nothing usable.
var ErrNoImage = errors.New("no image data in model response")

// TextRequest is a single text-generation call: a system instruction plus an
// ordered sequence of content blocks.
type TextRequest struct {
	System      string
	Blocks      []prompt.Block
	Model       string // empty means the provider default
	MaxTokens   int64
	Temperature float64
}

// TextResponse carries the generated text and token accounting when the API
// reports it.
type TextResponse struct {
	Text  string
	Usage *UsageInfo
}

// ImageRequest is a single image-generation call.
type ImageRequest struct {
	Prompt string
	Model  string // empty means the provider default
}

// ImageResponse carries decoded image bytes.
type ImageResponse struct {
	Data      []byte
	MediaType string
}

type UsageInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Provider is a text-generation backend.
type Provider interface {
	GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error)
	DefaultModel() string
}

// ImageProvider is an image-generation backend. Not every Provider
// implements it (Claude does not).
type ImageProvider interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResponse, error)
	DefaultImageModel() string
}

// StreamingProvider is implemented by providers that can push partial text
// while a call is in flight. onDelta receives raw text increments.
type StreamingProvider interface {
	Provider
	GenerateTextStream(ctx context.Context, req TextRequest, onDelta func(string)) (*TextResponse, error)
}
