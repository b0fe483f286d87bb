// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scribe workflow
// engine: the research plan, mind map, accumulated research results, and
// the completed-research record the workflow produces.
//
// See docs/ARCHITECTURE.md § Data Structures.
package types

// DocumentDescription characterizes the document the user wants produced.
type DocumentDescription struct {
	// Type is the document kind (e.g. "artigo científico", "literature review").
	Type string `json:"type" yaml:"type"`

	// Audience describes the intended readership.
	Audience string `json:"audience" yaml:"audience"`

	// Style is the requested writing style or register.
	Style string `json:"style" yaml:"style"`

	// WordCountTarget is the requested approximate length. Zero means unspecified.
	WordCountTarget int `json:"word_count_target" yaml:"word_count_target"`
}

// ExecutionPlan holds the ordered step lists for each workflow phase.
type ExecutionPlan struct {
	// ThinkingSteps are the reasoning steps shown during the thinking phase.
	ThinkingSteps []string `json:"thinking_steps" yaml:"thinking_steps"`

	// ResearchSteps are executed strictly in order during the research phase.
	// Each step produces exactly one ResearchResult.
	ResearchSteps []string `json:"research_steps" yaml:"research_steps"`

	// WritingSteps describe the drafting stages the backend follows.
	WritingSteps []string `json:"writing_steps" yaml:"writing_steps"`
}

// TaskPlan is the research plan generated from a user query. It is created
// once per session and replaced wholesale when the user edits it; it is
// never mutated field by field.
type TaskPlan struct {
	// Title is the working title for the document.
	Title string `json:"title" yaml:"title"`

	// Description characterizes the target document.
	Description DocumentDescription `json:"description" yaml:"description"`

	// ExecutionPlan lists the steps for each phase.
	ExecutionPlan ExecutionPlan `json:"execution_plan" yaml:"execution_plan"`
}

// Position is a 2D node position on the mind-map surface.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// MindMapNode is one node of the research mind map.
type MindMapNode struct {
	// ID uniquely identifies the node within its map.
	ID string `json:"id" yaml:"id"`

	// Label is the display text.
	Label string `json:"label" yaml:"label"`

	// Position is the node's layout position.
	Position Position `json:"position" yaml:"position"`

	// Style is an optional presentation hint (e.g. "root", "step").
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
}

// MindMapEdge connects two mind-map nodes.
type MindMapEdge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// MindMapData is the mind map produced by the thinking phase. The research
// phase appends one node and one edge per completed step; nodes are never
// removed. It is persisted only as part of a CompletedResearch.
type MindMapData struct {
	Nodes []MindMapNode `json:"nodes" yaml:"nodes"`
	Edges []MindMapEdge `json:"edges" yaml:"edges"`
}

// AcademicSource is one source returned by a research step. Immutable once
// received from the backend.
type AcademicSource struct {
	// URI locates the source (DOI URL, publisher page, or repository link).
	URI string `json:"uri" yaml:"uri"`

	// Title is the source title.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year. Zero means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Abstract is the source abstract or summary, when available.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// SourceProvider identifies which search provider found the source
	// (e.g. "semantic_scholar", "crossref").
	SourceProvider string `json:"source_provider" yaml:"source_provider"`

	// CitationCount is the provider-reported citation count. Zero means unknown.
	CitationCount int `json:"citation_count,omitempty" yaml:"citation_count,omitempty"`
}

// ResearchResult is the outcome of one research step: the step text, a
// summary, and the sources found. Created once per step and never mutated.
type ResearchResult struct {
	// Query is the research step text that produced this result.
	Query string `json:"query" yaml:"query"`

	// Summary is the backend's synthesis of the step's findings.
	Summary string `json:"summary" yaml:"summary"`

	// Sources lists the sources backing the summary, in backend order.
	Sources []AcademicSource `json:"sources" yaml:"sources"`
}

// CompletedResearch is the terminal, persisted unit of the workflow. It is
// assembled exactly once when the writing phase finishes, or loaded whole
// from history. A record loaded from history is immutable.
type CompletedResearch struct {
	// ID uniquely identifies the research session.
	ID string `json:"id" yaml:"id"`

	// OriginalQuery is the user query that started the session.
	OriginalQuery string `json:"original_query" yaml:"original_query"`

	// TaskPlan is the plan as of completion (including any user edits).
	TaskPlan TaskPlan `json:"task_plan" yaml:"task_plan"`

	// MindMapData is the final mind map, including research-phase nodes.
	MindMapData MindMapData `json:"mind_map_data" yaml:"mind_map_data"`

	// ResearchResults holds one entry per research step, in step order.
	ResearchResults []ResearchResult `json:"research_results" yaml:"research_results"`

	// Outline is the approved document outline.
	Outline string `json:"outline" yaml:"outline"`

	// WrittenContent is the full generated document text.
	WrittenContent string `json:"written_content" yaml:"written_content"`
}
