package cmd

import (
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jhentschel/anntab/logger"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Revalidates the corpus on changes",
	Long: `Watches the corpus tree and reruns validation whenever scores,
tables or descriptors change. Bursts of writes trigger one run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(watch())
	},
}

func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func revalidate() {
	report, err := RunValidate(corpusDir)
	if err != nil {
		logger.Error("validation run failed", logger.Err(err))
		return
	}
	logger.Info("validation run finished",
		logger.Int("errors", report.Errors()), logger.Int("warnings", report.Warnings()))
	for _, p := range report.Problems {
		logger.Warn("finding", logger.String("problem", p.String()))
	}
}

func watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirs(w, corpusDir); err != nil {
		return err
	}

	revalidate()

	debounced := debounce.New(500 * time.Millisecond)
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("watching corpus", logger.String("dir", corpusDir))
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			// new subcorpus or kind folders need watching too
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					addDirs(w, ev.Name)
				}
			}
			logger.Debug("change detected", logger.String("path", ev.Name))
			debounced(revalidate)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", logger.Err(err))
		case <-done:
			logger.Info("stopping watcher")
			return nil
		}
	}
}
