package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/chazu/sketch/pkg/store"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: slices are non-nil so JSON carries [] rather than null.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	result := NewApp(nil, nil).Evaluate("")

	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
	b, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"errors":[]`) {
		t.Errorf("json = %s, want empty errors array", b)
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax error on a later line carries its position.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	source := "(+ 1 2)\n(line (pt 0 0)"
	result := NewApp(nil, nil).Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if result.Errors[0].Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
}

// ---------------------------------------------------------------------------
// 3. Runtime errors inside builtins name the builtin.
// ---------------------------------------------------------------------------

func TestE2EBuiltinError(t *testing.T) {
	result := NewApp(nil, nil).Evaluate(`(circle (pt 0 0))`)
	if len(result.Errors) == 0 {
		t.Fatal("expected an error")
	}
	if !strings.Contains(result.Errors[0].Message, "circle") {
		t.Errorf("message %q does not name the builtin", result.Errors[0].Message)
	}
}

// ---------------------------------------------------------------------------
// 4. Validation findings: a zero-length line is a warning, not an error.
// ---------------------------------------------------------------------------

func TestE2EZeroLengthLineWarns(t *testing.T) {
	app := NewApp(nil, nil)
	result := app.Evaluate(`(def a (joint 50 50 :name "a")) (line a (pt 50 50))`)

	if result.Failed() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a zero-length warning")
	}
}

// ---------------------------------------------------------------------------
// 5. Concurrent requests never interfere with each other.
// ---------------------------------------------------------------------------

func TestE2EConcurrentEvaluations(t *testing.T) {
	app := NewApp(nil, nil)
	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := app.Evaluate(`(rect (pt 10 10) (pt 50 30))`)
			if result.Failed() {
				errs <- result.Errors[0].Message
				return
			}
			if n := len(result.Sketch.Shapes); n != 4 {
				errs <- "wrong shape count"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

// ---------------------------------------------------------------------------
// 6. Persistence without a store and with bad input.
// ---------------------------------------------------------------------------

func TestPersistenceWithoutStore(t *testing.T) {
	ctx := context.Background()
	app := NewApp(nil, nil)

	if _, err := app.Save(ctx, "a", ""); !errors.Is(err, ErrNoStore) {
		t.Errorf("Save err = %v, want ErrNoStore", err)
	}
	if _, err := app.Load(ctx, "a"); !errors.Is(err, ErrNoStore) {
		t.Errorf("Load err = %v, want ErrNoStore", err)
	}
	if _, err := app.List(ctx); !errors.Is(err, ErrNoStore) {
		t.Errorf("List err = %v, want ErrNoStore", err)
	}
	if err := app.Delete(ctx, "a"); !errors.Is(err, ErrNoStore) {
		t.Errorf("Delete err = %v, want ErrNoStore", err)
	}
	if _, err := app.ExportDXF(ctx, "a"); !errors.Is(err, ErrNoStore) {
		t.Errorf("ExportDXF err = %v, want ErrNoStore", err)
	}
}

func TestSaveFailedScriptStoresNothing(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	result, err := app.Save(ctx, "broken", `(line (pt 0 0)`)
	if !errors.Is(err, ErrScript) {
		t.Fatalf("err = %v, want ErrScript", err)
	}
	if !result.Failed() {
		t.Error("expected eval errors in the result")
	}
	if _, err := app.Load(ctx, "broken"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Load err = %v, want ErrNotFound", err)
	}
}

func TestSaveMergedSketchReloads(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	source := `
(def a (joint 10 10))
(def b (joint 10 10))
(line b (pt 30 10))
(merge b a)
`
	saved, err := app.Save(ctx, "merged", source)
	if err != nil {
		t.Fatalf("save: %v (errors %v)", err, saved.Errors)
	}
	loaded, err := app.Load(ctx, "merged")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Failed() {
		t.Errorf("loaded sketch reports errors: %v", loaded.Errors)
	}
	if len(loaded.Sketch.Shapes) != 1 {
		t.Errorf("got %d shapes, want 1", len(loaded.Sketch.Shapes))
	}
}

func TestSaveEmptyName(t *testing.T) {
	_, err := newTestApp(t).Save(context.Background(), "", `(joint 1 1)`)
	if !errors.Is(err, store.ErrEmptyName) {
		t.Errorf("err = %v, want ErrEmptyName", err)
	}
}

func TestListEmptyIsNonNil(t *testing.T) {
	entries, err := newTestApp(t).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if entries == nil {
		t.Error("entries should be non-nil")
	}
}

// ---------------------------------------------------------------------------
// 7. Export edge cases.
// ---------------------------------------------------------------------------

func TestExportUnknownFormat(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	if _, err := app.Save(ctx, "r", `(rect (pt 0 0) (pt 10 10))`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := app.ExportSketch(ctx, "r", "stl"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestExportEmptySketch(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	if _, err := app.Save(ctx, "empty", ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := app.ExportDXF(ctx, "empty"); err == nil {
		t.Error("expected an error exporting a sketch without shapes")
	}
}

func TestExportDXFContainsLines(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	if _, err := app.Save(ctx, "r", `(rect (pt 0 0) (pt 10 10))`); err != nil {
		t.Fatalf("save: %v", err)
	}
	body, err := app.ExportDXF(ctx, "r")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(body), "LINE") {
		t.Error("DXF output has no LINE entities")
	}
}
