package analysis

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// recordingEngine collects the tasks it is handed.
type recordingEngine struct {
	tasks []Task
}

func (r *recordingEngine) Analyze(_ context.Context, task Task) error {
	r.tasks = append(r.tasks, task)
	return nil
}

func extensionDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("// "+name+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestAnalyzeDirectory(t *testing.T) {
	dir := extensionDir(t, "contentscript.js", "background.js", "wars.js", "manifest.json")

	engine := &recordingEngine{}
	a := NewAnalyzer(engine, nil)
	if err := a.AnalyzeDirectory(context.Background(), dir); err != nil {
		t.Fatalf("AnalyzeDirectory: %v", err)
	}

	if len(engine.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(engine.tasks))
	}
	task := engine.tasks[0]
	if task.ContentScript != filepath.Join(dir, "contentscript.js") {
		t.Errorf("ContentScript = %s", task.ContentScript)
	}
	if task.Background != filepath.Join(dir, "background.js") {
		t.Errorf("Background = %s", task.Background)
	}
	if task.Output != filepath.Join(dir, "analysis.json") {
		t.Errorf("Output = %s", task.Output)
	}
	if task.War {
		t.Error("War = true on a background task")
	}
	if !task.Chrome {
		t.Error("Chrome should default to true")
	}
	if task.RunID == "" {
		t.Error("RunID not assigned")
	}
	if len(task.APIs.Names) == 0 || !task.APIs.PermissionGated {
		t.Errorf("APIs = %+v, want gated default selection", task.APIs)
	}
}

func TestAnalyzeDirectoryWarMode(t *testing.T) {
	dir := extensionDir(t, "contentscript.js", "background.js", "wars.js", "manifest.json")

	engine := &recordingEngine{}
	a := NewAnalyzer(engine, nil)
	a.War = true
	if err := a.AnalyzeDirectory(context.Background(), dir); err != nil {
		t.Fatalf("AnalyzeDirectory: %v", err)
	}

	if len(engine.tasks) != 1 {
		t.Fatalf("tasks = %d, want 1 (war mode skips the background pairing)", len(engine.tasks))
	}
	task := engine.tasks[0]
	if !task.War {
		t.Error("War flag not set")
	}
	if task.Background != filepath.Join(dir, "wars.js") {
		t.Errorf("Background = %s, want wars.js", task.Background)
	}
	if task.Output != filepath.Join(dir, "analysis-war.json") {
		t.Errorf("Output = %s, want -war.json suffix", task.Output)
	}
}

func TestAnalyzeDirectorySkipsIncomplete(t *testing.T) {
	// No content script: nothing to analyze, but no error either.
	dir := extensionDir(t, "background.js")

	engine := &recordingEngine{}
	a := NewAnalyzer(engine, nil)
	if err := a.AnalyzeDirectory(context.Background(), dir); err != nil {
		t.Fatalf("AnalyzeDirectory: %v", err)
	}
	if len(engine.tasks) != 0 {
		t.Errorf("tasks = %d, want 0", len(engine.tasks))
	}
}

func TestAnalyzeTree(t *testing.T) {
	root := t.TempDir()
	for _, id := range []string{"ext-a", "ext-b"} {
		dir := filepath.Join(root, id)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{"contentscript.js", "background.js"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("//\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	// Incomplete sibling is skipped quietly.
	if err := os.MkdirAll(filepath.Join(root, "ext-empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	engine := &recordingEngine{}
	a := NewAnalyzer(engine, nil)
	if err := a.AnalyzeTree(context.Background(), root); err != nil {
		t.Fatalf("AnalyzeTree: %v", err)
	}

	var dirs []string
	for _, task := range engine.tasks {
		dirs = append(dirs, filepath.Base(filepath.Dir(task.ContentScript)))
	}
	sort.Strings(dirs)
	if len(dirs) != 2 || dirs[0] != "ext-a" || dirs[1] != "ext-b" {
		t.Errorf("analyzed dirs = %v, want [ext-a ext-b]", dirs)
	}

	// Distinct tasks get distinct run IDs.
	if engine.tasks[0].RunID == engine.tasks[1].RunID {
		t.Errorf("run IDs collide: %s", engine.tasks[0].RunID)
	}
}

func TestAnalyzeFilesOutputOverride(t *testing.T) {
	dir := extensionDir(t, "contentscript.js", "background.js")

	engine := &recordingEngine{}
	a := NewAnalyzer(engine, nil)
	a.OutputOverride = filepath.Join(dir, "custom.json")
	err := a.AnalyzeFiles(context.Background(),
		filepath.Join(dir, "contentscript.js"), filepath.Join(dir, "background.js"))
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}
	if len(engine.tasks) != 1 || engine.tasks[0].Output != a.OutputOverride {
		t.Errorf("tasks = %+v, want single task with overridden output", engine.tasks)
	}
}
