// Package completion is the boundary to the hosted model APIs: it assembles
// knowledge-grounded requests, executes them, and converts every failure
// into a uniform GenError.
package completion

import (
	"context"
	"errors"

	"github.com/katsu224/asistenteRRHH/pkg/knowledge"
	"github.com/katsu224/asistenteRRHH/pkg/logger"
	"github.com/katsu224/asistenteRRHH/pkg/metrics"
	"github.com/katsu224/asistenteRRHH/pkg/prompt"
	"github.com/katsu224/asistenteRRHH/pkg/providers"
)

const (
	answerMaxTokens  = 2048
	conceptMaxTokens = 256

	answerTemperature  = 0.7
	conceptTemperature = 0.9
)

// Client executes completion calls against a text provider and an
// image-capable provider.
type Client struct {
	text    providers.Provider
	image   providers.ImageProvider
	tracker *metrics.Tracker
}

func NewClient(text providers.Provider, image providers.ImageProvider) *Client {
	return &Client{text: text, image: image}
}

// SetTracker attaches a usage tracker. Optional.
func (c *Client) SetTracker(t *metrics.Tracker) {
	c.tracker = t
}

// GetAnswer runs one grounded text-generation call for a plain question.
func (c *Client) GetAnswer(ctx context.Context, items []knowledge.Item, question, botName string) (string, error) {
	return c.generate(ctx, items, prompt.QuestionInstruction(question), botName, "answer")
}

// ReExplain asks the model to restate a prior answer differently, grounded
// in the same knowledge blocks.
func (c *Client) ReExplain(ctx context.Context, items []knowledge.Item, question, priorAnswer, botName string) (string, error) {
	return c.generate(ctx, items, prompt.ExplainInstruction(question, priorAnswer), botName, "explain")
}

// GetExample asks for a concrete example tied to a prior answer.
func (c *Client) GetExample(ctx context.Context, items []knowledge.Item, question, priorAnswer, botName string) (string, error) {
	return c.generate(ctx, items, prompt.ExampleInstruction(question, priorAnswer), botName, "example")
}

// GetAnswerStream is GetAnswer with partial text pushed through onDelta when
// the underlying provider supports streaming; otherwise it falls back to a
// single call.
func (c *Client) GetAnswerStream(ctx context.Context, items []knowledge.Item, question, botName string, onDelta func(string)) (string, error) {
	sp, ok := c.text.(providers.StreamingProvider)
	if !ok {
		return c.GetAnswer(ctx, items, question, botName)
	}

	req := textRequest(items, prompt.QuestionInstruction(question), botName)
	resp, err := sp.GenerateTextStream(ctx, req, onDelta)
	if err != nil {
		logger.ErrorCF("completion", "Streaming call failed", map[string]interface{}{
			"op":    "answer",
			"error": err.Error(),
		})
		return "", transportError(err)
	}
	c.record("answer", resp.Usage)
	return resp.Text, nil
}

// GenerateImageForConcept runs two chained calls: a text call that turns the
// question/answer pair into a short visual prompt, then an image-generation
// call with that prompt. A response with no image payload is its own error
// kind, distinct from transport failure.
func (c *Client) GenerateImageForConcept(ctx context.Context, question, answer string) (*providers.ImageResponse, error) {
	conceptReq := providers.TextRequest{
		Blocks:      []prompt.Block{prompt.TextBlock(prompt.ConceptInstruction(question, answer))},
		MaxTokens:   conceptMaxTokens,
		Temperature: conceptTemperature,
	}
	conceptResp, err := c.text.GenerateText(ctx, conceptReq)
	if err != nil {
		logger.ErrorCF("completion", "Concept derivation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, transportError(err)
	}
	c.record("image_concept", conceptResp.Usage)

	concept := prompt.BoundConcept(conceptResp.Text)
	if concept == "" {
		// Nothing derivable; the question itself is the best remaining prompt.
		concept = prompt.BoundConcept(question)
	}

	img, err := c.image.GenerateImage(ctx, providers.ImageRequest{Prompt: concept})
	if err != nil {
		if errors.Is(err, providers.ErrNoImage) {
			return nil, noImageError(err)
		}
		logger.ErrorCF("completion", "Image generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, transportError(err)
	}
	return img, nil
}

func (c *Client) generate(ctx context.Context, items []knowledge.Item, instruction, botName, op string) (string, error) {
	resp, err := c.text.GenerateText(ctx, textRequest(items, instruction, botName))
	if err != nil {
		logger.ErrorCF("completion", "Text generation failed", map[string]interface{}{
			"op":    op,
			"error": err.Error(),
		})
		return "", transportError(err)
	}
	c.record(op, resp.Usage)
	return resp.Text, nil
}

func textRequest(items []knowledge.Item, instruction, botName string) providers.TextRequest {
	return providers.TextRequest{
		System:      prompt.SystemInstruction(botName),
		Blocks:      prompt.Assemble(items, instruction),
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	}
}

func (c *Client) record(op string, usage *providers.UsageInfo) {
	if c.tracker == nil || usage == nil {
		return
	}
	c.tracker.Record(metrics.UsageEvent{
		Operation:    op,
		Model:        c.text.DefaultModel(),
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
	})
}
