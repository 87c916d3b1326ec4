package completion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/katsu224/asistenteRRHH/pkg/knowledge"
	"github.com/katsu224/asistenteRRHH/pkg/prompt"
	"github.com/katsu224/asistenteRRHH/pkg/providers"
)

type fakeTextProvider struct {
	resp     *providers.TextResponse
	err      error
	requests []providers.TextRequest
}

func (f *fakeTextProvider) GenerateText(_ context.Context, req providers.TextRequest) (*providers.TextResponse, error) {
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

func (f *fakeTextProvider) DefaultModel() string { return "fake-text" }

type fakeImageProvider struct {
	resp     *providers.ImageResponse
	err      error
	requests []providers.ImageRequest
}

func (f *fakeImageProvider) GenerateImage(_ context.Context, req providers.ImageRequest) (*providers.ImageResponse, error) {
	f.requests = append(f.requests, req)
	return f.resp, f.err
}

func (f *fakeImageProvider) DefaultImageModel() string { return "fake-image" }

func testItems() []knowledge.Item {
	return []knowledge.Item{
		knowledge.NewTextItem("politica.md", "Vacaciones: 15 días al año"),
	}
}

func TestClient_GetAnswer_BuildsGroundedRequest(t *testing.T) {
	text := &fakeTextProvider{resp: &providers.TextResponse{Text: "15 días"}}
	client := NewClient(text, &fakeImageProvider{})

	answer, err := client.GetAnswer(context.Background(), testItems(), "¿Cuántos días?", "Clara")
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if answer != "15 días" {
		t.Errorf("Expected provider text back, got %q", answer)
	}

	if len(text.requests) != 1 {
		t.Fatalf("Expected one provider call, got %d", len(text.requests))
	}
	req := text.requests[0]
	if !strings.Contains(req.System, "Clara") {
		t.Errorf("System instruction should carry the bot name, got %q", req.System)
	}
	// One document block plus the trailing instruction.
	if len(req.Blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(req.Blocks))
	}
	last := req.Blocks[len(req.Blocks)-1]
	if !strings.Contains(last.Text, "¿Cuántos días?") {
		t.Errorf("Trailing block must quote the question verbatim, got %q", last.Text)
	}
}

func TestClient_GetAnswer_TransportError(t *testing.T) {
	text := &fakeTextProvider{err: errors.New("connection refused")}
	client := NewClient(text, &fakeImageProvider{})

	_, err := client.GetAnswer(context.Background(), testItems(), "q", "Clara")
	if err == nil {
		t.Fatal("Expected an error")
	}
	var genErr *GenError
	if !errors.As(err, &genErr) {
		t.Fatalf("Expected a GenError, got %T", err)
	}
	if genErr.Kind != KindTransport {
		t.Errorf("Expected KindTransport, got %v", genErr.Kind)
	}
	if genErr.UserMessage == "" {
		t.Error("GenError must carry a user-facing message")
	}
	if !errors.Is(err, text.err) {
		t.Error("Underlying cause must stay reachable via errors.Is")
	}
}

func TestClient_ReExplain_UsesPriorAnswer(t *testing.T) {
	text := &fakeTextProvider{resp: &providers.TextResponse{Text: "dicho más simple"}}
	client := NewClient(text, &fakeImageProvider{})

	_, err := client.ReExplain(context.Background(), testItems(), "¿pregunta?", "respuesta previa", "Clara")
	if err != nil {
		t.Fatal(err)
	}

	req := text.requests[0]
	last := req.Blocks[len(req.Blocks)-1]
	if !strings.Contains(last.Text, "respuesta previa") {
		t.Errorf("Explain instruction must include the prior answer, got %q", last.Text)
	}
	if !strings.Contains(last.Text, "¿pregunta?") {
		t.Errorf("Explain instruction must include the original question, got %q", last.Text)
	}
}

func TestClient_GetExample_UsesPriorAnswer(t *testing.T) {
	text := &fakeTextProvider{resp: &providers.TextResponse{Text: "por ejemplo"}}
	client := NewClient(text, &fakeImageProvider{})

	_, err := client.GetExample(context.Background(), testItems(), "¿pregunta?", "respuesta previa", "Clara")
	if err != nil {
		t.Fatal(err)
	}
	last := text.requests[0].Blocks[len(text.requests[0].Blocks)-1]
	if !strings.Contains(last.Text, "respuesta previa") {
		t.Errorf("Example instruction must include the prior answer, got %q", last.Text)
	}
}

func TestClient_GenerateImageForConcept_ChainsCalls(t *testing.T) {
	text := &fakeTextProvider{resp: &providers.TextResponse{Text: "un calendario con días marcados"}}
	image := &fakeImageProvider{resp: &providers.ImageResponse{Data: []byte{1, 2}, MediaType: "image/png"}}
	client := NewClient(text, image)

	img, err := client.GenerateImageForConcept(context.Background(), "¿vacaciones?", "15 días")
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if img.MediaType != "image/png" || len(img.Data) != 2 {
		t.Errorf("Unexpected image response %+v", img)
	}

	if len(text.requests) != 1 {
		t.Fatalf("Expected one concept call, got %d", len(text.requests))
	}
	if len(image.requests) != 1 {
		t.Fatalf("Expected one image call, got %d", len(image.requests))
	}
	if image.requests[0].Prompt != "un calendario con días marcados" {
		t.Errorf("Image prompt should be the derived concept, got %q", image.requests[0].Prompt)
	}
	// The concept call is not grounded in knowledge blocks.
	if len(text.requests[0].Blocks) != 1 {
		t.Errorf("Concept call should carry a single instruction block, got %d", len(text.requests[0].Blocks))
	}
}

func TestClient_GenerateImageForConcept_EmptyConceptFallsBackToQuestion(t *testing.T) {
	text := &fakeTextProvider{resp: &providers.TextResponse{Text: "   "}}
	image := &fakeImageProvider{resp: &providers.ImageResponse{Data: []byte{1}, MediaType: "image/png"}}
	client := NewClient(text, image)

	_, err := client.GenerateImageForConcept(context.Background(), "¿vacaciones?", "15 días")
	if err != nil {
		t.Fatal(err)
	}
	if image.requests[0].Prompt != "¿vacaciones?" {
		t.Errorf("Empty concept should fall back to the question, got %q", image.requests[0].Prompt)
	}
}

func TestClient_GenerateImageForConcept_LongConceptIsBounded(t *testing.T) {
	long := strings.Repeat("descripción muy larga ", 60)
	text := &fakeTextProvider{resp: &providers.TextResponse{Text: long}}
	image := &fakeImageProvider{resp: &providers.ImageResponse{Data: []byte{1}, MediaType: "image/png"}}
	client := NewClient(text, image)

	_, err := client.GenerateImageForConcept(context.Background(), "q", "a")
	if err != nil {
		t.Fatal(err)
	}

	got := image.requests[0].Prompt
	if len([]rune(got)) > len([]rune(prompt.BoundConcept(long))) {
		t.Errorf("Prompt exceeds the concept bound: %d runes", len([]rune(got)))
	}
	if got != prompt.BoundConcept(long) {
		t.Errorf("Prompt should be the bounded concept")
	}
}

func TestClient_GenerateImageForConcept_NoImagePayload(t *testing.T) {
	text := &fakeTextProvider{resp: &providers.TextResponse{Text: "concepto"}}
	image := &fakeImageProvider{err: providers.ErrNoImage}
	client := NewClient(text, image)

	_, err := client.GenerateImageForConcept(context.Background(), "q", "a")
	var genErr *GenError
	if !errors.As(err, &genErr) {
		t.Fatalf("Expected a GenError, got %T", err)
	}
	if genErr.Kind != KindNoImage {
		t.Errorf("Expected KindNoImage, got %v", genErr.Kind)
	}
}

func TestClient_GenerateImageForConcept_ConceptCallFailure(t *testing.T) {
	text := &fakeTextProvider{err: errors.New("timeout")}
	image := &fakeImageProvider{resp: &providers.ImageResponse{Data: []byte{1}, MediaType: "image/png"}}
	client := NewClient(text, image)

	_, err := client.GenerateImageForConcept(context.Background(), "q", "a")
	var genErr *GenError
	if !errors.As(err, &genErr) {
		t.Fatalf("Expected a GenError, got %T", err)
	}
	if genErr.Kind != KindTransport {
		t.Errorf("Expected KindTransport, got %v", genErr.Kind)
	}
	if len(image.requests) != 0 {
		t.Error("Image provider must not be contacted when the concept call fails")
	}
}

func TestClient_GetAnswerStream_FallsBackWithoutStreamingSupport(t *testing.T) {
	text := &fakeTextProvider{resp: &providers.TextResponse{Text: "respuesta"}}
	client := NewClient(text, &fakeImageProvider{})

	var deltas []string
	answer, err := client.GetAnswerStream(context.Background(), testItems(), "q", "Clara", func(d string) {
		deltas = append(deltas, d)
	})
	if err != nil {
		t.Fatal(err)
	}
	if answer != "respuesta" {
		t.Errorf("Expected full answer from fallback, got %q", answer)
	}
	if len(deltas) != 0 {
		t.Errorf("Non-streaming provider should produce no deltas, got %d", len(deltas))
	}
}

type fakeStreamingProvider struct {
	fakeTextProvider
	chunks []string
}

func (f *fakeStreamingProvider) GenerateTextStream(_ context.Context, req providers.TextRequest, onDelta func(string)) (*providers.TextResponse, error) {
	f.requests = append(f.requests, req)
	var full strings.Builder
	for _, c := range f.chunks {
		onDelta(c)
		full.WriteString(c)
	}
	return &providers.TextResponse{Text: full.String()}, nil
}

func TestClient_GetAnswerStream_DeliversDeltas(t *testing.T) {
	sp := &fakeStreamingProvider{chunks: []string{"15 ", "días"}}
	client := NewClient(sp, &fakeImageProvider{})

	var deltas []string
	answer, err := client.GetAnswerStream(context.Background(), testItems(), "q", "Clara", func(d string) {
		deltas = append(deltas, d)
	})
	if err != nil {
		t.Fatal(err)
	}
	if answer != "15 días" {
		t.Errorf("Expected assembled answer, got %q", answer)
	}
	if len(deltas) != 2 {
		t.Errorf("Expected 2 deltas, got %d", len(deltas))
	}
}
