package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/doublex/doublex/internal/analysis"
	"github.com/doublex/doublex/internal/config"
	"github.com/doublex/doublex/internal/unpack"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  %[1]s unpack -s <crx-or-dir> [-d dest] [-pc workers]
      Unpack packed extensions (manifest v2/v3) into their manifest,
      content scripts, background scripts/page, and WARs.

  %[1]s analyze [-cs path] [-bp path] [-dir path] [-dirs path]
      [-war] [-not-chrome] [-manifest path] [-analysis path] [-apis sel]
      Prepare analysis tasks from unpacked extension files and hand them
      to the configured dataflow engine.
`, os.Args[0])
	os.Exit(2)
}

// newLogger picks text output for interactive runs and JSON lines when
// stderr is redirected, so batch pipelines can ingest the logs directly.
func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	log := newLogger()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "unpack":
		err = runUnpack(ctx, log, os.Args[2:])
	case "analyze":
		err = runAnalyze(ctx, log, os.Args[2:])
	case "help", "-help", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
	}
	if err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func runUnpack(ctx context.Context, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)
	source := fs.String("s", "", "path of the packed extension to unpack, or a directory of extensions")
	dest := fs.String("d", "", "path where to store the extracted components (defaults next to each archive)")
	workers := fs.Int("pc", config.DefaultUnpackWorkers,
		fmt.Sprintf("worker count for directory mode (1-%d)", config.MaxUnpackWorkers))
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *source == "" {
		fs.Usage()
		return fmt.Errorf("unpack: -s is required")
	}

	u := unpack.New(log)

	info, err := os.Stat(*source)
	if err != nil {
		return err
	}
	if info.IsDir() {
		log.Info("unpacking extensions in directory", "source", *source)
		_, err := u.UnpackDirectory(ctx, *source, *dest, *workers)
		return err
	}

	log.Info("unpacking extension", "source", *source)
	target := *dest
	if target == "" {
		target = filepath.Dir(*source)
	}
	return u.UnpackExtension(*source, target)
}

func runAnalyze(ctx context.Context, log *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	cs := fs.String("cs", "", "path of the content script")
	bp := fs.String("bp", "", "path of the background page (or the WAR when -war is given)")
	dir := fs.String("dir", "", "directory containing one unpacked extension")
	dirs := fs.String("dirs", "", "directory containing unpacked extension directories")
	war := fs.Bool("war", false, "treat -bp as a web-accessible-resources bundle")
	notChrome := fs.Bool("not-chrome", false, "extension is not Chromium based (e.g. Firefox)")
	manifest := fs.String("manifest", "", "path of the extension manifest.json")
	output := fs.String("analysis", "", "path of the file to store the analysis results in")
	apis := fs.String("apis", config.APIsPermissions,
		"sensitive APIs to consider: permissions, all, empoweb, or a path to a YAML/JSON list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	selection, err := analysis.LoadAPIs(*apis)
	if err != nil {
		return err
	}

	a := analysis.NewAnalyzer(taskWriter{log: log}, log)
	a.Chrome = !*notChrome
	a.War = *war
	a.APIs = selection
	a.OutputOverride = *output
	a.ManifestOverride = *manifest

	switch {
	case *dir != "":
		log.Info("analyzing extension directory", "dir", *dir)
		return a.AnalyzeDirectory(ctx, *dir)
	case *dirs != "":
		log.Info("analyzing extension directories", "root", *dirs)
		return a.AnalyzeTree(ctx, *dirs)
	default:
		if *cs == "" || *bp == "" {
			fs.Usage()
			return fmt.Errorf("analyze: need -cs and -bp, or -dir/-dirs")
		}
		log.Info("analyzing extension files", "cs", *cs, "bp", *bp)
		return a.AnalyzeFiles(ctx, *cs, *bp)
	}
}

// taskWriter is the built-in engine: it records each prepared task as JSON
// at the task's output path. A real dataflow engine consuming the same
// layout replaces it through the analysis.Engine interface.
type taskWriter struct {
	log *slog.Logger
}

func (w taskWriter) Analyze(_ context.Context, task analysis.Task) error {
	w.log.Info("prepared analysis task",
		"run", task.RunID, "cs", task.ContentScript, "bp", task.Background, "war", task.War)
	data, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(task.Output, append(data, '\n'), 0o644)
}
