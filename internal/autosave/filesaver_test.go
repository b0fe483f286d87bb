// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package autosave

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSaverWritesDraft(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drafts")
	saver := &FileSaver{Dir: dir}

	if err := saver.Save(context.Background(), "sess-1", "# Rascunho\ntexto"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sess-1.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# Rascunho\ntexto" {
		t.Errorf("draft content = %q", data)
	}
}

func TestFileSaverOverwrites(t *testing.T) {
	saver := &FileSaver{Dir: t.TempDir()}
	ctx := context.Background()

	if err := saver.Save(ctx, "sess-1", "primeira"); err != nil {
		t.Fatal(err)
	}
	if err := saver.Save(ctx, "sess-1", "segunda"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(saver.Dir, "sess-1.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "segunda" {
		t.Errorf("draft content = %q, want latest save", data)
	}

	// No temp file should linger after a successful save.
	if _, err := os.Stat(filepath.Join(saver.Dir, "sess-1.md.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestFileSaverCancelledContext(t *testing.T) {
	saver := &FileSaver{Dir: t.TempDir()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := saver.Save(ctx, "sess-1", "conteúdo"); err == nil {
		t.Error("expected error for cancelled context")
	}
	if _, err := os.Stat(filepath.Join(saver.Dir, "sess-1.md")); !os.IsNotExist(err) {
		t.Error("no draft should be written after cancellation")
	}
}
