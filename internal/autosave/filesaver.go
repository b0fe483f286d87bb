// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package autosave

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSaver persists draft content as Markdown files under a directory,
// one file per session. Writes go through a temp file and rename so a
// crash mid-save never truncates the previous draft.
type FileSaver struct {
	Dir string
}

// Save writes the session's content to <dir>/<sessionID>.md.
func (f *FileSaver) Save(ctx context.Context, sessionID, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("creating drafts directory: %w", err)
	}

	final := filepath.Join(f.Dir, sessionID+".md")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("replacing draft: %w", err)
	}
	return nil
}
