package server

import (
	"context"
	"fmt"

	"github.com/conneroisu/widgetkit/internal/fixtures"
	"github.com/conneroisu/widgetkit/internal/session"
	"github.com/conneroisu/widgetkit/internal/watcher"
	"github.com/conneroisu/widgetkit/internal/websocket"
)

func (s *Server) watchFixtures(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(fixturesDebounce, s.logger)
	if err != nil {
		return fmt.Errorf("creating fixtures watcher: %w", err)
	}
	if err := fw.WatchFile(s.config.Fixtures.Path); err != nil {
		_ = fw.Stop()
		return err
	}
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddHandler(s.onFixturesChange)
	if err := fw.Start(ctx); err != nil {
		_ = fw.Stop()
		return err
	}

	s.serverMu.Lock()
	s.watcher = fw
	s.serverMu.Unlock()

	s.logger.Info(ctx, "Watching fixtures", "path", s.config.Fixtures.Path)
	return nil
}

// onFixturesChange reloads the document unless the file went away, in which
// case the current document stays until the file reappears.
func (s *Server) onFixturesChange(ctx context.Context, events []watcher.ChangeEvent) error {
	if len(events) == 0 {
		return nil
	}
	last := events[len(events)-1]
	if last.Removed() {
		s.logger.Info(ctx, "Fixtures file removed, keeping current document",
			"path", last.Path, "event", last.Type.String())
		return nil
	}
	s.logger.Debug(ctx, "Fixtures file changed",
		"path", last.Path, "event", last.Type.String(), "size", last.Size, "mod_time", last.ModTime)
	return s.ReloadFixtures(ctx)
}

// ReloadFixtures re-reads the fixtures file and pushes the new rows into
// every live table. New sessions also pick up changed columns and
// testimonials. A document that fails to load leaves the current one in
// place.
func (s *Server) ReloadFixtures(ctx context.Context) error {
	doc, err := fixtures.Load(s.config.Fixtures.Path)
	if err != nil {
		return err
	}
	s.apply(ctx, doc)
	return nil
}

func (s *Server) apply(ctx context.Context, doc *fixtures.Document) {
	s.docMu.Lock()
	s.doc = doc
	s.docMu.Unlock()

	rows := doc.TableRows()
	s.store.Each(func(w *session.Workspace) {
		_ = w.Do(func(v *session.View) error {
			v.SetRows(rows)
			return nil
		})
	})

	s.metrics.FixtureReloads.Inc()
	s.hub.Publish(websocket.Event{Type: "fixtures.reload", Data: len(rows)})
	s.logger.Info(ctx, "Fixtures reloaded", "rows", len(rows), "sessions", s.store.Len())
}
