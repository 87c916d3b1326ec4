package providers

import (
	"context"
	"fmt"

	"github.com/katsu224/asistenteRRHH/pkg/logger"
)

// FallbackProvider wraps a primary and a fallback text provider. When the
// primary fails it transparently retries the same request against the
// fallback, using the fallback's own default model.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
}

func NewFallbackProvider(primary, fallback Provider) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback}
}

func (p *FallbackProvider) GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error) {
	resp, err := p.primary.GenerateText(ctx, req)
	if err == nil {
		return resp, nil
	}

	logger.WarnCF("fallback", "Primary provider failed, trying fallback", map[string]interface{}{
		"primary_model":  p.primary.DefaultModel(),
		"fallback_model": p.fallback.DefaultModel(),
		"error":          err.Error(),
	})

	fbReq := req
	fbReq.Model = "" // let the fallback pick its own default
	fbResp, fbErr := p.fallback.GenerateText(ctx, fbReq)
	if fbErr != nil {
		return nil, fmt.Errorf("primary failed: %w; fallback also failed: %v", err, fbErr)
	}
	return fbResp, nil
}

func (p *FallbackProvider) GenerateTextStream(ctx context.Context, req TextRequest, onDelta func(string)) (*TextResponse, error) {
	var resp *TextResponse
	var err error
	if sp, ok := p.primary.(StreamingProvider); ok {
		resp, err = sp.GenerateTextStream(ctx, req, onDelta)
	} else {
		resp, err = p.primary.GenerateText(ctx, req)
	}
	if err == nil {
		return resp, nil
	}

	logger.WarnCF("fallback", "Primary provider failed, trying fallback", map[string]interface{}{
		"primary_model":  p.primary.DefaultModel(),
		"fallback_model": p.fallback.DefaultModel(),
		"error":          err.Error(),
	})

	fbReq := req
	fbReq.Model = ""
	if sp, ok := p.fallback.(StreamingProvider); ok {
		return sp.GenerateTextStream(ctx, fbReq, onDelta)
	}
	return p.fallback.GenerateText(ctx, fbReq)
}

func (p *FallbackProvider) DefaultModel() string { return p.primary.DefaultModel() }

// Primary returns the underlying primary provider.
func (p *FallbackProvider) Primary() Provider { return p.primary }

// Fallback returns the underlying fallback provider.
func (p *FallbackProvider) Fallback() Provider { return p.fallback }
