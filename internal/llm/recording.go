package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/emotiquest/emotiquest/internal/logging"
	"github.com/emotiquest/emotiquest/internal/store"
)

// EventSink receives one record per provider call.
type EventSink interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// RecordingProvider is a decorator that stores every call as an event and
// logs failures.
type RecordingProvider struct {
	inner    Provider
	provider string
	events   EventSink
	log      *logging.Logger
}

// WithRecording wraps p so calls are stored in events. A nil sink only logs.
func WithRecording(p Provider, provider string, events EventSink, log *logging.Logger) Provider {
	return &RecordingProvider{
		inner:    p,
		provider: provider,
		events:   events,
		log:      logging.OrNop(log).With("component", "llm", "provider", provider),
	}
}

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		RequestID:   RequestIDFrom(ctx),
		Provider:    r.provider,
		Model:       r.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: describeRequest(req),
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		r.log.Warn("llm request failed",
			"purpose", data.Purpose, "request_id", data.RequestID,
			"latency_ms", data.LatencyMs, "error", err)
	} else {
		r.log.Debug("llm request",
			"purpose", data.Purpose, "request_id", data.RequestID,
			"input_tokens", data.InputTokens, "output_tokens", data.OutputTokens,
			"latency_ms", data.LatencyMs)
	}

	if r.events != nil {
		if logErr := r.events.AppendLLMRequest(ctx, data); logErr != nil {
			r.log.Error("store llm event", "request_id", data.RequestID, "error", logErr)
		}
	}
	return resp, err
}

func (r *RecordingProvider) ModelID() string {
	return r.inner.ModelID()
}

// describeRequest renders req for the event log.
func describeRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", req.Prompt)
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "\n[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
