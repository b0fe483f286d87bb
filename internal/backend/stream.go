// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/meshintel/scribe/pkg/types"
)

// EventKind classifies a content-stream event.
type EventKind string

const (
	// EventChunk carries a fragment of generated text.
	EventChunk EventKind = "chunk"

	// EventDone signals normal completion. No further events follow.
	EventDone EventKind = "done"

	// EventError signals mid-stream failure. No further events follow;
	// text already delivered remains valid.
	EventError EventKind = "error"
)

// StreamEvent is one event of a content stream. Text is set for chunk
// events, Err for error events.
type StreamEvent struct {
	Kind EventKind
	Text string
	Err  error
}

// ContentStream delivers generated document text as an ordered sequence of
// chunk events terminated by exactly one done or error event. The transport
// preserves order; consumers apply chunks as they arrive.
type ContentStream struct {
	events chan StreamEvent
	cancel context.CancelFunc
}

// Events returns the event channel. It is closed after the terminal event.
func (s *ContentStream) Events() <-chan StreamEvent { return s.events }

// Cancel aborts the stream. Safe to call at any time, including after the
// stream has already completed.
func (s *ContentStream) Cancel() { s.cancel() }

// streamLine is the wire format of one NDJSON line of the content stream.
type streamLine struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message,omitempty"`
}

// GenerateContentStream opens the writing-phase content stream. The
// response body is NDJSON: one event object per line, ending with an
// explicit {"type":"done"} or {"type":"error"} line. A body that ends
// without a terminal line is reported as an error event, never as silent
// completion.
func (c *Client) GenerateContentStream(ctx context.Context, plan types.TaskPlan, results []types.ResearchResult) (*ContentStream, error) {
	ctx, cancel := context.WithCancel(ctx)

	body := map[string]any{"task_plan": plan, "research_results": results}
	req, err := c.newRequest(ctx, contentPath, body)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "application/x-ndjson")

	// Streams are long-lived; the configured request timeout would cut
	// them off mid-document. Cancellation happens through ctx instead.
	streamClient := &http.Client{Transport: c.httpClient.Transport}

	resp, err := streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening content stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		cancel()
		return nil, apiError(resp)
	}

	s := &ContentStream{
		events: make(chan StreamEvent),
		cancel: cancel,
	}
	go s.consume(ctx, resp)
	return s, nil
}

// consume reads NDJSON lines from resp and forwards them as events in
// arrival order. It emits exactly one terminal event and closes the
// channel.
func (s *ContentStream) consume(ctx context.Context, resp *http.Response) {
	defer close(s.events)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	// Generated chunks can be long; allow lines up to 1 MiB.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev streamLine
		if err := json.Unmarshal(line, &ev); err != nil {
			s.emit(ctx, StreamEvent{Kind: EventError, Err: fmt.Errorf("malformed stream line: %w", err)})
			return
		}

		switch ev.Type {
		case "chunk":
			if !s.emit(ctx, StreamEvent{Kind: EventChunk, Text: ev.Text}) {
				return
			}
		case "done":
			s.emit(ctx, StreamEvent{Kind: EventDone})
			return
		case "error":
			s.emit(ctx, StreamEvent{Kind: EventError, Err: errors.New(ev.Message)})
			return
		default:
			// Unknown event types are skipped so the wire format can grow.
		}
	}

	if err := scanner.Err(); err != nil {
		s.emit(ctx, StreamEvent{Kind: EventError, Err: fmt.Errorf("reading content stream: %w", err)})
		return
	}

	// EOF without a terminal line means the transport dropped.
	s.emit(ctx, StreamEvent{Kind: EventError, Err: errors.New("content stream ended without completion signal")})
}

// emit delivers an event unless the stream was cancelled. It reports
// whether delivery happened.
func (s *ContentStream) emit(ctx context.Context, ev StreamEvent) bool {
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
