package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"minipas/analyzer-go/pkg/report"
)

// Change events closer together than this are folded into one re-check.
const watchSettle = 100 * time.Millisecond

func newWatchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-check a program every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := c.watch(ctx, cmd, args[0]); err != nil {
				return &exitError{code: exitFatal, err: err}
			}
			return nil
		},
	}
}

// watch checks file once and again after every change until ctx is done.
// It watches the parent directory and filters on the file name.
func (c *cli) watch(ctx context.Context, cmd *cobra.Command, file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("watch: resolve %s: %w", file, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: %s: %w", filepath.Dir(abs), err)
	}

	loader, err := c.loader("", "")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	check := func() {
		r, err := c.analyzeFile(loader, abs)
		if err != nil {
			c.logger.Warn("check failed", "file", abs, "error", err)
			return
		}
		if err := report.Console(out, r); err != nil {
			c.logger.Warn("cannot render report", "error", err)
		}
	}

	check()
	c.logger.Info("watching for changes", "file", abs)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("watch stopped", "file", abs)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				settle = time.After(watchSettle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("watch error", "error", err)
		case <-settle:
			settle = nil
			check()
		}
	}
}
