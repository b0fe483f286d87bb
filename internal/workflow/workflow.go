// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow sequences the research-and-writing pipeline: thinking,
// research, outlining, and writing phases separated by human approval
// gates. The session accumulates the mind map, per-step research results,
// the outline, and the streamed document content; external generation is
// delegated to a Backend and persistence to store collaborators.
//
// See docs/ARCHITECTURE.md § Workflow.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/meshintel/scribe/internal/autosave"
	"github.com/meshintel/scribe/internal/backend"
	"github.com/meshintel/scribe/internal/store"
	"github.com/meshintel/scribe/internal/versions"
	"github.com/meshintel/scribe/pkg/types"
)

// Phase identifies the workflow state. Approval gates are phases of their
// own so that "research finished" and "user confirmed research" are
// distinguishable.
type Phase string

const (
	PhaseThinking                 Phase = "thinking"
	PhaseAwaitingPlanApproval     Phase = "awaiting_plan_approval"
	PhaseResearch                 Phase = "research"
	PhaseAwaitingResearchApproval Phase = "awaiting_research_approval"
	PhaseOutlining                Phase = "outlining"
	PhaseAwaitingOutlineApproval  Phase = "awaiting_outline_approval"
	PhaseWriting                  Phase = "writing"
	PhaseDone                     Phase = "done"
)

// View identifies the surface a UI should show for the current phase.
type View string

const (
	ViewMindMap  View = "mindmap"
	ViewResearch View = "research"
	ViewOutline  View = "outline"
	ViewDocument View = "document"
)

var (
	// ErrBusy is returned when a phase entry is invoked while another
	// phase call is still in flight for the session.
	ErrBusy = errors.New("a phase operation is already in flight")

	// ErrBadPhase is returned when an operation is invoked in a phase
	// that does not permit it.
	ErrBadPhase = errors.New("operation not valid in current phase")

	// ErrNothingToRetry is returned by Retry when no phase entry failed.
	ErrNothingToRetry = errors.New("no failed phase to retry")
)

// Stream is the writing-phase content stream as the workflow consumes it.
// *backend.ContentStream satisfies it.
type Stream interface {
	Events() <-chan backend.StreamEvent
	Cancel()
}

// Backend is the generation API contract the workflow depends on.
type Backend interface {
	GenerateMindMap(ctx context.Context, plan types.TaskPlan) (types.MindMapData, error)
	PerformResearchStep(ctx context.Context, stepText, originalQuery string) (backend.StepResult, error)
	GenerateOutline(ctx context.Context, plan types.TaskPlan, results []types.ResearchResult) (string, error)
	GenerateContentStream(ctx context.Context, plan types.TaskPlan, results []types.ResearchResult) (Stream, error)
	FinalizeDocument(ctx context.Context, content, title string) (backend.FinalizeResult, error)
}

// APIBackend adapts *backend.Client to the Backend interface. The only
// adaptation needed is returning the content stream as the Stream
// interface.
type APIBackend struct {
	*backend.Client
}

// GenerateContentStream opens the client's content stream.
func (a APIBackend) GenerateContentStream(ctx context.Context, plan types.TaskPlan, results []types.ResearchResult) (Stream, error) {
	s, err := a.Client.GenerateContentStream(ctx, plan, results)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Session is one research-and-writing workflow run. Phase entries
// (Start, ApprovePlan, ApproveResearch, ApproveOutline, Retry) block until
// their external work completes or fails; accessors are safe to call
// concurrently, which the auto-save controller relies on while the writing
// phase streams.
type Session struct {
	backend  Backend
	versions *versions.Manager
	research store.ResearchStore
	saver    *autosave.Controller
	progress io.Writer
	warn     io.Writer

	mu        sync.Mutex
	busy      bool
	id        string
	phase     Phase
	view      View
	query     string
	plan      types.TaskPlan
	mindMap   types.MindMapData
	results   []types.ResearchResult
	outline   string
	content   string
	stepIndex int
	lastErr   error
}

// Options carries the optional collaborators of a Session.
type Options struct {
	// Versions records snapshots at plan edits and writing completion.
	Versions *versions.Manager

	// Research persists the CompletedResearch when writing finishes.
	Research store.ResearchStore

	// AutoSave, when set, is started with the session and stopped when
	// the session closes.
	AutoSave *autosave.Controller

	// Progress receives human-readable progress lines. Defaults to
	// io.Discard.
	Progress io.Writer

	// Warn receives non-fatal warnings (persistence failures). Defaults
	// to io.Discard.
	Warn io.Writer
}

// NewSession returns a Session ready for Start or LoadCompleted.
func NewSession(b Backend, opts Options) *Session {
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.Warn == nil {
		opts.Warn = io.Discard
	}
	return &Session{
		backend:  b,
		versions: opts.Versions,
		research: opts.Research,
		saver:    opts.AutoSave,
		progress: opts.Progress,
		warn:     opts.Warn,
		id:       uuid.NewString(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Phase returns the current phase. Empty until Start or LoadCompleted.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// ActiveView returns the surface the current phase displays.
func (s *Session) ActiveView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Err returns the workflow-level error from the last failed phase call,
// or nil. It is cleared when the failed phase is retried successfully.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Plan returns the current task plan.
func (s *Session) Plan() types.TaskPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

// MindMap returns a copy of the accumulated mind map.
func (s *Session) MindMap() types.MindMapData {
	s.mu.Lock()
	defer s.mu.Unlock()
	mm := types.MindMapData{
		Nodes: make([]types.MindMapNode, len(s.mindMap.Nodes)),
		Edges: make([]types.MindMapEdge, len(s.mindMap.Edges)),
	}
	copy(mm.Nodes, s.mindMap.Nodes)
	copy(mm.Edges, s.mindMap.Edges)
	return mm
}

// Results returns a copy of the accumulated research results, in step order.
func (s *Session) Results() []types.ResearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ResearchResult, len(s.results))
	copy(out, s.results)
	return out
}

// Outline returns the outline text, empty before the outlining phase.
func (s *Session) Outline() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outline
}

// Content returns the written content accumulated so far. During the
// writing phase it grows after every received chunk; the auto-save
// controller uses this method as its content supplier.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Progress reports research-phase progress as (completed steps, total steps).
func (s *Session) Progress() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepIndex, len(s.plan.ExecutionPlan.ResearchSteps)
}

// CompletedRecord assembles the session's CompletedResearch snapshot.
func (s *Session) CompletedRecord() types.CompletedResearch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked()
}

func (s *Session) recordLocked() types.CompletedResearch {
	return types.CompletedResearch{
		ID:              s.id,
		OriginalQuery:   s.query,
		TaskPlan:        s.plan,
		MindMapData:     s.mindMap,
		ResearchResults: s.results,
		Outline:         s.outline,
		WrittenContent:  s.content,
	}
}

// LoadCompleted loads a previously completed record, bypassing every
// intermediate phase: the session jumps straight to done with all fields
// taken verbatim and the document surface active. No backend call is made.
func (s *Session) LoadCompleted(rec types.CompletedResearch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = rec.ID
	s.query = rec.OriginalQuery
	s.plan = rec.TaskPlan
	s.mindMap = rec.MindMapData
	s.results = rec.ResearchResults
	s.outline = rec.Outline
	s.content = rec.WrittenContent
	s.stepIndex = len(rec.ResearchResults)
	s.phase = PhaseDone
	s.view = ViewDocument
	s.lastErr = nil
}

// EditPlan replaces the task plan wholesale. Permitted in any approval
// gate; the edit never touches accumulated mind-map data, research
// results, or the outline. A version labeled "plan updated" is recorded;
// a version-store failure degrades to a warning.
func (s *Session) EditPlan(ctx context.Context, plan types.TaskPlan) error {
	s.mu.Lock()
	switch s.phase {
	case PhaseAwaitingPlanApproval, PhaseAwaitingResearchApproval, PhaseAwaitingOutlineApproval:
	default:
		s.mu.Unlock()
		return fmt.Errorf("editing plan in phase %q: %w", s.phase, ErrBadPhase)
	}
	s.plan = plan
	id, content, outline := s.id, s.content, s.outline
	s.mu.Unlock()

	s.snapshot(ctx, id, content, outline, "plan updated")
	return nil
}

// Finalize records the document as finalized, deducting credits. It is a
// billing event: it runs only on explicit user action, exactly one backend
// call per invocation, and is never retried automatically. Callers decide
// whether to invoke it again after a failure.
func (s *Session) Finalize(ctx context.Context, title string) (backend.FinalizeResult, error) {
	s.mu.Lock()
	if s.phase != PhaseDone {
		s.mu.Unlock()
		return backend.FinalizeResult{}, fmt.Errorf("finalizing in phase %q: %w", s.phase, ErrBadPhase)
	}
	content := s.content
	s.mu.Unlock()

	res, err := s.backend.FinalizeDocument(ctx, content, title)
	if err != nil {
		return backend.FinalizeResult{}, fmt.Errorf("finalize failed, credits were not deducted: %w", err)
	}
	return res, nil
}

// Close stops the session's auto-save controller. Safe to call repeatedly.
func (s *Session) Close() {
	if s.saver != nil {
		s.saver.Stop()
	}
}

// snapshot records a version, degrading store errors to warnings so
// persistence trouble never interrupts the workflow.
func (s *Session) snapshot(ctx context.Context, id, content, outline, comment string) {
	if s.versions == nil {
		return
	}
	if _, err := s.versions.Create(ctx, id, content, outline, comment); err != nil {
		fmt.Fprintf(s.warn, "warning: recording version (%s): %v\n", comment, err)
	}
}

// setErr stores a workflow-level error for display and returns it.
func (s *Session) setErr(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}

// begin marks a phase call in flight. It fails with ErrBusy if one already is.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
