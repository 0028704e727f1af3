package dataset

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the dataset file and swaps a freshly loaded Dataset into
// st each time the file changes. onReload, if non-nil, is called with
// every dataset that gets installed. Watch runs until ctx is cancelled.
//
// The watch is placed on the file's parent directory: a rename onto the
// path (how the collector sink replaces the file) delivers a Create for
// the destination name only to a directory watch, while a watch on the
// file itself follows the replaced inode and goes dead.
//
// If a reload fails (unreadable file, top level not an array), the error is
// logged and the previous dataset remains active; onReload is not called.
func Watch(ctx context.Context, path string, st *Store, onReload func(*Dataset)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	base := filepath.Base(path)

	slog.Info("dataset: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// The directory watch reports every entry; only the dataset file
			// matters. In-place writes arrive as Write, an atomic save
			// (rename onto the path) as Create for the destination name.
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			ds, err := Load(path)
			if err != nil {
				slog.Error("dataset: reload failed, keeping previous dataset",
					"path", path, "err", err)
				continue
			}

			st.Swap(ds)
			slog.Info("dataset: reloaded", "path", path,
				"regions", len(ds.Regions()), "samples", ds.Len(), "skipped", ds.Skipped())
			if onReload != nil {
				onReload(ds)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("dataset: watcher error", "err", err)
		}
	}
}
