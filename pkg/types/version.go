// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Version is one snapshot of a session's working content and outline.
// Versions are append-only: created at defined checkpoints (plan edited,
// writing complete, manual save) and never mutated afterwards. Restoring a
// version returns its data for the caller to apply; it does not delete or
// reorder other versions.
type Version struct {
	// VersionID uniquely identifies the snapshot.
	VersionID string `json:"version_id" yaml:"version_id"`

	// ResearchID is the session the snapshot belongs to.
	ResearchID string `json:"research_id" yaml:"research_id"`

	// Timestamp is when the snapshot was taken.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Content is the document text at snapshot time.
	Content string `json:"content" yaml:"content"`

	// Outline is the outline text at snapshot time.
	Outline string `json:"outline" yaml:"outline"`

	// Comment is a human-readable label (e.g. "plan updated").
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Comment is a user annotation anchored to a position in a session's
// document. Independent of the workflow phase; mutated only by resolving
// (flipping Resolved) or deleting.
type Comment struct {
	// ID uniquely identifies the comment.
	ID string `json:"id" yaml:"id"`

	// ResearchID is the session the comment belongs to.
	ResearchID string `json:"research_id" yaml:"research_id"`

	// Position is the character-offset anchor in the document text.
	Position int `json:"position" yaml:"position"`

	// Text is the comment body.
	Text string `json:"text" yaml:"text"`

	// Author names who wrote the comment.
	Author string `json:"author" yaml:"author"`

	// Timestamp is when the comment was created.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Resolved marks the comment as addressed.
	Resolved bool `json:"resolved" yaml:"resolved"`
}
