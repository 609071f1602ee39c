package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nadhmi12/api-dev-marketplace/compiler/gen"
	"github.com/nadhmi12/api-dev-marketplace/compiler/load"
	"github.com/nadhmi12/api-dev-marketplace/contract/clientgen"
	"github.com/nadhmi12/api-dev-marketplace/target"
)

func newGenerateCmd() *cobra.Command {
	var (
		file      string
		targets   []string
		outDir    string
		clientOut string
		workers   int
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate artifacts for one or more targets",
		Long: "Loads a YAML resource description, renders the model, validation,\n" +
			"controller and routes artifacts for every requested target and writes\n" +
			"them only after the cross-target contract check passes.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(targets) == 0 {
				targets = target.IDs()
			}
			run := func(ctx context.Context) error {
				return generate(ctx, file, targets, outDir, clientOut, workers)
			}
			if err := run(cmd.Context()); err != nil {
				if !watch {
					return err
				}
				// In watch mode a broken description is a state to
				// recover from, not a reason to exit.
				slog.Error("generation failed", "err", err)
			}
			if !watch {
				return nil
			}
			return watchAndRun(cmd.Context(), file, run)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "resources.yaml", "Path to the resource description")
	cmd.Flags().StringSliceVarP(&targets, "target", "t", nil, "Target IDs to generate (default: all registered)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "./gen", "Output directory")
	cmd.Flags().StringVar(&clientOut, "client", "", "Also write a typed Go client to this path")
	cmd.Flags().IntVar(&workers, "workers", 0, "Bound on parallel rendering (default: GOMAXPROCS)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate whenever the description changes")
	return cmd
}

func generate(ctx context.Context, file string, targets []string, outDir, clientOut string, workers int) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	resources, err := load.DecodeBytes(data)
	if err != nil {
		return err
	}
	opts := []gen.Option{gen.WithContractInfo(apiTitle(file), "0.1.0")}
	if workers > 0 {
		opts = append(opts, gen.WithWorkers(workers))
	}
	sess, err := gen.NewSession(resources, targets, opts...)
	if err != nil {
		return err
	}
	slog.Info("session started", "id", sess.ID, "resources", len(resources), "targets", sess.Targets())

	artifacts, err := sess.Run(ctx)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		path := filepath.Join(outDir, a.Target, a.FileName())
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(a.Source), 0o644); err != nil {
			return err
		}
		slog.Debug("wrote artifact", "path", path)
	}
	fingerprint, err := sess.Fingerprint()
	if err != nil {
		return err
	}
	slog.Info("generation complete", "artifacts", len(artifacts), "fingerprint", fingerprint)

	if clientOut != "" {
		doc, err := sess.Document()
		if err != nil {
			return err
		}
		source, err := clientgen.Generate(sess.Graph(), doc, "client")
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(clientOut), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(clientOut, []byte(source), 0o644); err != nil {
			return err
		}
		slog.Info("wrote client", "path", clientOut)
	}
	return nil
}

// watchAndRun regenerates whenever the description file changes. Editors
// often replace the file rather than write it in place, so the watch is on
// the parent directory and rename/create events re-arm it.
func watchAndRun(ctx context.Context, file string, run func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	slog.Info("watching", "file", abs)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || !event.Op.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			slog.Debug("description changed", "op", event.Op.String())
			if err := run(ctx); err != nil {
				slog.Error("generation failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "err", err)
		}
	}
}

// apiTitle derives the contract title from the description file name.
func apiTitle(file string) string {
	base := filepath.Base(file)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	if base == "" {
		return "Generated API"
	}
	return fmt.Sprintf("%s API", base)
}
