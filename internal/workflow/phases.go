// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"fmt"

	"github.com/meshintel/scribe/internal/backend"
	"github.com/meshintel/scribe/pkg/types"
)

// Start begins a fresh session from a (query, plan) pair and runs the
// thinking phase. On success the session waits in the plan approval gate.
// A failed mind-map call leaves the session in the thinking phase,
// re-enterable through Retry.
func (s *Session) Start(ctx context.Context, query string, plan types.TaskPlan) error {
	s.mu.Lock()
	if s.phase != "" {
		s.mu.Unlock()
		return fmt.Errorf("session already started: %w", ErrBadPhase)
	}
	s.query = query
	s.plan = plan
	s.phase = PhaseThinking
	s.mu.Unlock()

	if s.saver != nil {
		s.saver.Start(s.ID(), s.Content)
	}
	return s.enterThinking(ctx)
}

// ApprovePlan confirms the plan approval gate and runs the research phase.
func (s *Session) ApprovePlan(ctx context.Context) error {
	if err := s.gate(PhaseAwaitingPlanApproval, PhaseResearch); err != nil {
		return err
	}
	return s.enterResearch(ctx)
}

// ApproveResearch confirms the research approval gate and runs the
// outlining phase.
func (s *Session) ApproveResearch(ctx context.Context) error {
	if err := s.gate(PhaseAwaitingResearchApproval, PhaseOutlining); err != nil {
		return err
	}
	return s.enterOutlining(ctx)
}

// ApproveOutline confirms the outline approval gate and runs the writing
// phase to completion.
func (s *Session) ApproveOutline(ctx context.Context) error {
	if err := s.gate(PhaseAwaitingOutlineApproval, PhaseWriting); err != nil {
		return err
	}
	return s.enterWriting(ctx)
}

// Retry re-invokes the entry of the phase whose external call failed.
// Retries are user-triggered only; the workflow never retries a phase on
// its own. Retrying the writing phase re-streams the document from
// scratch.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	phase := s.phase
	failed := s.lastErr != nil
	s.mu.Unlock()

	if !failed {
		return ErrNothingToRetry
	}

	switch phase {
	case PhaseThinking:
		return s.enterThinking(ctx)
	case PhaseResearch:
		return s.enterResearch(ctx)
	case PhaseOutlining:
		return s.enterOutlining(ctx)
	case PhaseWriting:
		return s.enterWriting(ctx)
	default:
		return ErrNothingToRetry
	}
}

// gate moves the session from an approval-gate phase into the next
// working phase.
func (s *Session) gate(from, to Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != from {
		return fmt.Errorf("confirming in phase %q: %w", s.phase, ErrBadPhase)
	}
	s.phase = to
	return nil
}

// enterThinking requests the mind map for the current plan.
func (s *Session) enterThinking(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	fmt.Fprintln(s.progress, "thinking: generating mind map")

	mm, err := s.backend.GenerateMindMap(ctx, s.Plan())
	if err != nil {
		return s.setErr(fmt.Errorf("thinking phase: %w", err))
	}

	s.mu.Lock()
	s.mindMap = mm
	s.view = ViewMindMap
	s.phase = PhaseAwaitingPlanApproval
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// enterResearch executes the plan's research steps strictly in order: a
// step's call must fully complete, and its result join the accumulated
// state, before the next step starts. Sequential execution keeps mind-map
// growth and progress reporting deterministic and bounds backend load; it
// is not a candidate for parallelization. A failed step leaves the
// completed prefix intact and Retry resumes from the failed step.
func (s *Session) enterResearch(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.view = ViewResearch
	steps := s.plan.ExecutionPlan.ResearchSteps
	query := s.query
	start := s.stepIndex
	s.mu.Unlock()

	for i := start; i < len(steps); i++ {
		fmt.Fprintf(s.progress, "research step %d/%d: %s\n", i+1, len(steps), steps[i])

		res, err := s.backend.PerformResearchStep(ctx, steps[i], query)
		if err != nil {
			return s.setErr(fmt.Errorf("research step %d: %w", i+1, err))
		}

		s.mu.Lock()
		s.results = append(s.results, types.ResearchResult{
			Query:   steps[i],
			Summary: res.Summary,
			Sources: res.Sources,
		})
		s.growMindMapLocked(i, steps[i], len(res.Sources))
		s.stepIndex = i + 1
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.phase = PhaseAwaitingResearchApproval
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// growMindMapLocked appends the node and edge for a completed research
// step. Nodes are laid out on a row below the thinking-phase map and
// linked from the root node when one exists.
func (s *Session) growMindMapLocked(step int, label string, sources int) {
	nodeID := fmt.Sprintf("research-%d", step+1)
	s.mindMap.Nodes = append(s.mindMap.Nodes, types.MindMapNode{
		ID:       nodeID,
		Label:    fmt.Sprintf("%s (%d fontes)", label, sources),
		Position: types.Position{X: float64(step) * 220, Y: 240},
		Style:    "research",
	})

	source := nodeID
	if len(s.mindMap.Nodes) > 1 {
		source = s.mindMap.Nodes[0].ID
	}
	s.mindMap.Edges = append(s.mindMap.Edges, types.MindMapEdge{
		ID:     fmt.Sprintf("edge-research-%d", step+1),
		Source: source,
		Target: nodeID,
	})
}

// enterOutlining requests an outline over the full research results.
func (s *Session) enterOutlining(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.view = ViewOutline
	s.mu.Unlock()

	fmt.Fprintln(s.progress, "outlining: generating document outline")

	outline, err := s.backend.GenerateOutline(ctx, s.Plan(), s.Results())
	if err != nil {
		return s.setErr(fmt.Errorf("outlining phase: %w", err))
	}

	s.mu.Lock()
	s.outline = outline
	s.phase = PhaseAwaitingOutlineApproval
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// enterWriting streams the document, appending chunks in arrival order.
// Content is updated after every chunk so the auto-save controller and any
// display observe it growing. A mid-stream error keeps the partial content
// and the writing phase; completion assembles the CompletedResearch, hands
// it to persistence, and records the "initial complete version" snapshot.
func (s *Session) enterWriting(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	defer s.end()

	s.mu.Lock()
	s.view = ViewDocument
	// A retry re-streams the whole document.
	s.content = ""
	s.mu.Unlock()

	fmt.Fprintln(s.progress, "writing: streaming document content")

	stream, err := s.backend.GenerateContentStream(ctx, s.Plan(), s.Results())
	if err != nil {
		return s.setErr(fmt.Errorf("writing phase: %w", err))
	}
	defer stream.Cancel()

	for ev := range stream.Events() {
		switch ev.Kind {
		case backend.EventChunk:
			s.mu.Lock()
			s.content += ev.Text
			s.mu.Unlock()
		case backend.EventDone:
			return s.completeWriting(ctx)
		case backend.EventError:
			return s.setErr(fmt.Errorf("writing phase stream: %w", ev.Err))
		}
	}

	select {
	case <-ctx.Done():
		return s.setErr(fmt.Errorf("writing phase: %w", ctx.Err()))
	default:
		return s.setErr(fmt.Errorf("writing phase: stream closed without completion"))
	}
}

// completeWriting transitions to done and persists the finished session.
// Persistence failures degrade to warnings; the workflow still completes.
func (s *Session) completeWriting(ctx context.Context) error {
	s.mu.Lock()
	s.phase = PhaseDone
	s.lastErr = nil
	rec := s.recordLocked()
	s.mu.Unlock()

	if s.research != nil {
		if err := s.research.Save(ctx, rec); err != nil {
			fmt.Fprintf(s.warn, "warning: saving completed research: %v\n", err)
		}
	}
	s.snapshot(ctx, rec.ID, rec.WrittenContent, rec.Outline, "initial complete version")

	fmt.Fprintln(s.progress, "done: document complete")
	return nil
}
