// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meshintel/scribe/internal/httputil"
	"github.com/meshintel/scribe/pkg/types"
)

func init() {
	// Keep retry backoff negligible in tests.
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func newTestClient(baseURL string) *Client {
	return New(types.BackendConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "scribe-test/0.1",
		},
		BaseURL:    baseURL,
		APIKey:     "sk_test",
		MaxRetries: 2,
	})
}

func TestGeneratePlan(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plan" {
			t.Errorf("path = %q, want /plan", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "scribe-test/0.1" {
			t.Errorf("User-Agent = %q", got)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["query"] != "Impacto da IA na educação" {
			t.Errorf("query = %q", body["query"])
		}

		json.NewEncoder(w).Encode(types.TaskPlan{
			Title: "Impacto da IA na Educação",
			ExecutionPlan: types.ExecutionPlan{
				ResearchSteps: []string{"passo um", "passo dois"},
			},
		})
	}))
	defer ts.Close()

	plan, err := newTestClient(ts.URL).GeneratePlan(context.Background(), "Impacto da IA na educação")
	if err != nil {
		t.Fatal(err)
	}
	if plan.Title != "Impacto da IA na Educação" {
		t.Errorf("Title = %q", plan.Title)
	}
	if len(plan.ExecutionPlan.ResearchSteps) != 2 {
		t.Errorf("ResearchSteps = %v", plan.ExecutionPlan.ResearchSteps)
	}
}

func TestGenerateMindMap(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mindmap" {
			t.Errorf("path = %q, want /mindmap", r.URL.Path)
		}
		json.NewEncoder(w).Encode(types.MindMapData{
			Nodes: []types.MindMapNode{{ID: "root", Label: "Tema central", Style: "root"}},
		})
	}))
	defer ts.Close()

	mm, err := newTestClient(ts.URL).GenerateMindMap(context.Background(), types.TaskPlan{Title: "T"})
	if err != nil {
		t.Fatal(err)
	}
	if len(mm.Nodes) != 1 || mm.Nodes[0].ID != "root" {
		t.Errorf("mind map = %+v", mm)
	}
}

func TestPerformResearchStep(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/research/step" {
			t.Errorf("path = %q, want /research/step", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["step"] != "levantar estudos" || body["original_query"] != "consulta original" {
			t.Errorf("body = %v", body)
		}

		json.NewEncoder(w).Encode(StepResult{
			Summary: "Resumo do passo.",
			Sources: []types.AcademicSource{{URI: "https://doi.org/10.1/x", Title: "Fonte"}},
		})
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).PerformResearchStep(context.Background(), "levantar estudos", "consulta original")
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary != "Resumo do passo." || len(res.Sources) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestGenerateOutline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/outline" {
			t.Errorf("path = %q, want /outline", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"outline": "## Esboço\n1. Introdução"})
	}))
	defer ts.Close()

	outline, err := newTestClient(ts.URL).GenerateOutline(context.Background(), types.TaskPlan{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if outline != "## Esboço\n1. Introdução" {
		t.Errorf("outline = %q", outline)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "consulta vazia"})
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).GeneratePlan(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "consulta vazia") {
		t.Errorf("err = %v, want status and server message", err)
	}
}

func TestPostRetriesOnRateLimit(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(types.TaskPlan{Title: "ok"})
	}))
	defer ts.Close()

	plan, err := newTestClient(ts.URL).GeneratePlan(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	if plan.Title != "ok" {
		t.Errorf("Title = %q", plan.Title)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestFinalizeDocument(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/document/finalize" {
			t.Errorf("path = %q, want /document/finalize", r.URL.Path)
		}
		json.NewEncoder(w).Encode(FinalizeResult{
			WordCount:        4200,
			RemainingCredits: 8,
			Message:          "Documento registrado.",
		})
	}))
	defer ts.Close()

	res, err := newTestClient(ts.URL).FinalizeDocument(context.Background(), "conteúdo", "Título")
	if err != nil {
		t.Fatal(err)
	}
	if res.WordCount != 4200 || res.RemainingCredits != 8 {
		t.Errorf("result = %+v", res)
	}
}

func TestFinalizeDocumentNeverRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		// Even a retryable status must not trigger a second billing request.
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).FinalizeDocument(context.Background(), "conteúdo", "Título")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("finalize sent %d requests, want exactly 1", got)
	}
}

// --- content stream ---

func streamServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/content/stream" {
			t.Errorf("path = %q, want /content/stream", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, line := range lines {
			w.Write([]byte(line + "\n"))
		}
	}))
}

func collectEvents(t *testing.T, s *ContentStream) []StreamEvent {
	t.Helper()
	var events []StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("stream did not terminate; got %d events", len(events))
		}
	}
}

func TestGenerateContentStream(t *testing.T) {
	ts := streamServer(t, []string{
		`{"type":"chunk","text":"# Título\n"}`,
		`{"type":"chunk","text":"Primeiro parágrafo."}`,
		`{"type":"done"}`,
	})
	defer ts.Close()

	s, err := newTestClient(ts.URL).GenerateContentStream(context.Background(), types.TaskPlan{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	events := collectEvents(t, s)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(events), events)
	}
	if events[0].Kind != EventChunk || events[0].Text != "# Título\n" {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Kind != EventChunk || events[1].Text != "Primeiro parágrafo." {
		t.Errorf("events[1] = %+v", events[1])
	}
	if events[2].Kind != EventDone {
		t.Errorf("events[2] = %+v, want done", events[2])
	}
}

func TestGenerateContentStreamError(t *testing.T) {
	ts := streamServer(t, []string{
		`{"type":"chunk","text":"texto parcial"}`,
		`{"type":"error","message":"geração interrompida"}`,
	})
	defer ts.Close()

	s, err := newTestClient(ts.URL).GenerateContentStream(context.Background(), types.TaskPlan{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	events := collectEvents(t, s)
	if len(events) != 2 {
		t.Fatalf("got %d events: %+v", len(events), events)
	}
	last := events[len(events)-1]
	if last.Kind != EventError {
		t.Fatalf("last event = %+v, want error", last)
	}
	if !strings.Contains(last.Err.Error(), "geração interrompida") {
		t.Errorf("Err = %v", last.Err)
	}
}

func TestGenerateContentStreamEOFWithoutTerminal(t *testing.T) {
	ts := streamServer(t, []string{
		`{"type":"chunk","text":"texto"}`,
		// Connection ends without done or error.
	})
	defer ts.Close()

	s, err := newTestClient(ts.URL).GenerateContentStream(context.Background(), types.TaskPlan{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	events := collectEvents(t, s)
	last := events[len(events)-1]
	if last.Kind != EventError {
		t.Fatalf("last event = %+v, want error", last)
	}
	if !strings.Contains(last.Err.Error(), "without completion signal") {
		t.Errorf("Err = %v", last.Err)
	}
}

func TestGenerateContentStreamSkipsUnknownEvents(t *testing.T) {
	ts := streamServer(t, []string{
		`{"type":"progress","text":"ignorado"}`,
		`{"type":"chunk","text":"conteúdo"}`,
		`{"type":"done"}`,
	})
	defer ts.Close()

	s, err := newTestClient(ts.URL).GenerateContentStream(context.Background(), types.TaskPlan{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	events := collectEvents(t, s)
	if len(events) != 2 {
		t.Fatalf("got %d events, want unknown type skipped: %+v", len(events), events)
	}
	if events[0].Kind != EventChunk || events[0].Text != "conteúdo" {
		t.Errorf("events[0] = %+v", events[0])
	}
}

func TestGenerateContentStreamOpenFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "chave inválida"})
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).GenerateContentStream(context.Background(), types.TaskPlan{}, nil)
	if err == nil {
		t.Fatal("expected error for non-200 stream open")
	}
	if !strings.Contains(err.Error(), "chave inválida") {
		t.Errorf("err = %v", err)
	}
}

func TestContentStreamCancel(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type":"chunk","text":"primeiro"}` + "\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release // hold the stream open
	}))
	defer ts.Close()
	defer close(release)

	s, err := newTestClient(ts.URL).GenerateContentStream(context.Background(), types.TaskPlan{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// Read the first chunk, then cancel mid-stream.
	select {
	case ev := <-s.Events():
		if ev.Kind != EventChunk {
			t.Fatalf("first event = %+v", ev)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no first chunk")
	}

	s.Cancel()

	// The channel must close without requiring the server to finish.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-s.Events():
			if !ok {
				return
			}
		case <-timeout:
			t.Fatal("stream did not shut down after Cancel")
		}
	}
}
