// Package analysis resolves extension file layouts and drives the dataflow
// engine over them. The engine itself (AST construction, dependence graphs,
// taint tracking) is an external collaborator injected behind the Engine
// interface; this package never inspects JavaScript.
package analysis

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/doublex/doublex/internal/config"
)

// Task is one unit of work for the engine: a content script paired with a
// background page or a web-accessible resource bundle.
type Task struct {
	RunID         string
	ContentScript string
	Background    string
	Manifest      string
	Output        string
	Chrome        bool
	War           bool
	APIs          APISelection
}

// Engine analyzes a prepared task. Implementations must treat the paths as
// read-only and write their findings to task.Output.
type Engine interface {
	Analyze(ctx context.Context, task Task) error
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, task Task) error

func (f EngineFunc) Analyze(ctx context.Context, task Task) error { return f(ctx, task) }

// Analyzer builds tasks from unpacked extension directories and hands them
// to the engine.
type Analyzer struct {
	Engine Engine
	Log    *slog.Logger

	Chrome bool
	War    bool
	APIs   APISelection

	// OutputOverride redirects analysis results away from the extension
	// directory when set.
	OutputOverride string
	// ManifestOverride points at an explicit manifest.json for single-file
	// runs whose content script lives outside its extension directory.
	ManifestOverride string
}

func NewAnalyzer(engine Engine, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{
		Engine: engine,
		Log:    log,
		Chrome: true,
		APIs:   DefaultAPIs(),
	}
}

func newRunID() string { return uuid.NewString() }

// AnalyzeFiles runs the engine over an explicit content-script/background
// pair. Empty manifest and output paths default to the content script's
// directory, like the rest of the pipeline expects.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, contentScript, background string) error {
	dir := filepath.Dir(contentScript)
	task := Task{
		RunID:         newRunID(),
		ContentScript: contentScript,
		Background:    background,
		Manifest:      filepath.Join(dir, config.ManifestName),
		Output:        filepath.Join(dir, config.AnalysisName),
		Chrome:        a.Chrome,
		War:           a.War,
		APIs:          a.APIs,
	}
	if a.OutputOverride != "" {
		task.Output = a.OutputOverride
	}
	if a.ManifestOverride != "" {
		task.Manifest = a.ManifestOverride
	}
	return a.Engine.Analyze(ctx, task)
}

// AnalyzeDirectory analyzes one unpacked extension directory. Missing
// component files demote the directory to a logged skip, never an error:
// batch runs continue past broken extensions.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string) error {
	contentScript := filepath.Join(dir, config.ContentScriptName)
	background := filepath.Join(dir, config.BackgroundName)
	wars := filepath.Join(dir, config.WarsName)
	manifest := filepath.Join(dir, config.ManifestName)

	if !fileExists(contentScript) {
		a.Log.Warn("required files not found, skipping", "dir", dir)
		return nil
	}

	output := a.outputPath(dir)

	if !a.War && fileExists(background) {
		a.Log.Info("analyzing content script and background page", "dir", dir)
		task := Task{
			RunID:         newRunID(),
			ContentScript: contentScript,
			Background:    background,
			Manifest:      manifest,
			Output:        output,
			Chrome:        a.Chrome,
			War:           false,
			APIs:          a.APIs,
		}
		if err := a.Engine.Analyze(ctx, task); err != nil {
			return fmt.Errorf("analyzing %s: %w", dir, err)
		}
	}
	if a.War && fileExists(wars) {
		a.Log.Info("analyzing content script and web-accessible resources", "dir", dir)
		task := Task{
			RunID:         newRunID(),
			ContentScript: contentScript,
			Background:    wars,
			Manifest:      manifest,
			Output:        warOutputPath(output),
			Chrome:        a.Chrome,
			War:           true,
			APIs:          a.APIs,
		}
		if err := a.Engine.Analyze(ctx, task); err != nil {
			return fmt.Errorf("analyzing %s: %w", dir, err)
		}
	}

	a.Log.Info("analysis completed", "dir", dir)
	return nil
}

// AnalyzeTree walks a directory of unpacked extension directories and
// analyzes each child directory.
func (a *Analyzer) AnalyzeTree(ctx context.Context, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if err := a.AnalyzeDirectory(ctx, path); err != nil {
			return err
		}
		return fs.SkipDir
	})
}

// outputPath returns where results for dir land: the override when set,
// otherwise analysis.json inside the extension directory.
func (a *Analyzer) outputPath(dir string) string {
	if a.OutputOverride != "" {
		return a.OutputOverride
	}
	return filepath.Join(dir, config.AnalysisName)
}

// warOutputPath rewrites analysis.json into analysis-war.json so a WAR pass
// never clobbers the background-page results.
func warOutputPath(output string) string {
	if strings.HasSuffix(output, ".json") {
		return strings.TrimSuffix(output, ".json") + config.WarAnalysisSuffix
	}
	return output + config.WarAnalysisSuffix
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
