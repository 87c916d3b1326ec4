package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// UsageEvent records token usage for a single model call.
type UsageEvent struct {
	Timestamp    string  `json:"ts"`
	Operation    string  `json:"op"` // answer, explain, example, image_concept
	Model        string  `json:"model"`
	InputTokens  int     `json:"in"`
	OutputTokens int     `json:"out"`
	CostUSD      float64 `json:"cost"`
}

// Tracker appends usage events to a JSONL file under the workspace.
type Tracker struct {
	filePath string
	mu       sync.Mutex
}

// NewTracker creates a tracker writing to workspace/metrics/usage.jsonl.
func NewTracker(workspace string) *Tracker {
	dir := filepath.Join(workspace, "metrics")
	os.MkdirAll(dir, 0755)
	return &Tracker{
		filePath: filepath.Join(dir, "usage.jsonl"),
	}
}

// Record appends a usage event. Failures are swallowed: metrics must never
// break a chat turn.
func (t *Tracker) Record(event UsageEvent) {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().Format(time.RFC3339)
	}
	event.CostUSD = calculateCost(event.Model, event.InputTokens, event.OutputTokens)

	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	f.Write(data)
	f.Write([]byte("\n"))
}

// Model pricing per million tokens (input, output).
type modelPricing struct {
	inputPerM  float64
	outputPerM float64
}

var pricing = map[string]modelPricing{
	"gemini-2.5-flash":           {0.30, 2.50},
	"gemini-2.5-pro":             {1.25, 10.0},
	"gpt-4o":                     {2.50, 10.0},
	"gpt-4o-mini":                {0.15, 0.60},
	"claude-sonnet-4-5-20250929": {3.0, 15.0},
	"claude-haiku-3-5-20241022":  {0.8, 4.0},
}

func calculateCost(model string, input, output int) float64 {
	p, ok := pricing[model]
	if !ok {
		// Prefix match covers dated model revisions.
		for name, mp := range pricing {
			if strings.HasPrefix(model, name) {
				p, ok = mp, true
				break
			}
		}
	}
	if !ok {
		return 0
	}
	return float64(input)*p.inputPerM/1e6 + float64(output)*p.outputPerM/1e6
}
