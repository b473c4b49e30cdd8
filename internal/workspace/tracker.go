// Package workspace exposes the editor-facing lifecycle of the tracking
// core: workspace init, document open/change/delete, folder add/remove.
// Handlers log failures instead of returning them; the editor protocol side
// must stay responsive no matter what happens underneath.
package workspace

import (
	"context"
	"log"

	"github.com/standardbeagle/workspaced/internal/config"
	"github.com/standardbeagle/workspaced/internal/debug"
	"github.com/standardbeagle/workspaced/internal/discovery"
	"github.com/standardbeagle/workspaced/internal/fanout"
	"github.com/standardbeagle/workspaced/internal/scan"
	"github.com/standardbeagle/workspaced/internal/store"
	"github.com/standardbeagle/workspaced/internal/telemetry"
	"github.com/standardbeagle/workspaced/internal/types"
	"github.com/standardbeagle/workspaced/internal/uri"
	"github.com/standardbeagle/workspaced/internal/watcher"
)

// AppContext is the explicit application context threaded through every
// component constructor. There is no ambient or static state; everything a
// component needs arrives through here.
type AppContext struct {
	Cfg       *config.Config
	State     *store.State
	Lookup    *store.Lookup
	Fanout    *fanout.Fanout
	Validator *scan.Validator
	Snippets  *telemetry.Snippets
}

// NewAppContext wires the shared state for a process. Pass nil for a
// disabled indexer.
func NewAppContext(cfg *config.Config, ast, vector fanout.Indexer) *AppContext {
	state := store.NewState(nil)
	return &AppContext{
		Cfg:       cfg,
		State:     state,
		Lookup:    store.NewLookup(state),
		Fanout:    fanout.New(ast, vector),
		Validator: scan.NewValidator(cfg),
		Snippets:  telemetry.NewSnippets(),
	}
}

// Tracker is the change-propagation front of the core. It implements
// watcher.Propagator so classified filesystem batches flow through the same
// paths as editor events.
type Tracker struct {
	app    *AppContext
	walker *discovery.Walker
	watch  *watcher.Service
}

// NewTracker creates the tracker and its watch session. The session is not
// started; call StartWatcher once folders are registered.
func NewTracker(app *AppContext) (*Tracker, error) {
	t := &Tracker{
		app:    app,
		walker: discovery.NewWalker(app.Cfg, app.Validator),
	}
	watch, err := watcher.New(app.Cfg, app.Validator, app.State, t)
	if err != nil {
		return nil, err
	}
	t.watch = watch
	return t, nil
}

// StartWatcher begins the filesystem watch session when watching is enabled.
func (t *Tracker) StartWatcher() {
	if !t.app.Cfg.Index.WatchMode {
		log.Printf("File watching disabled in configuration")
		return
	}
	t.watch.Start()
}

// Close stops the watch session.
func (t *Tracker) Close() {
	t.watch.Stop()
}

// EnqueueAllWorkspaceFiles is the full rebuild: rediscover every workspace
// folder, atomically replace the known-files set and mark the caches stale,
// then enqueue everything. The set replacement happens before either indexer
// sees the batch, so concurrent readers observe the old or the new set but
// never a half-populated one. Racing rebuilds are safe: each fully replaces
// the set. Returns the number of files found.
func (t *Tracker) EnqueueAllWorkspaceFiles(ctx context.Context) int {
	folders := t.app.State.Folders()
	debug.LogWorkspace("full rebuild across %d folders\n", len(folders))

	docs := t.walker.Discover(ctx, folders)
	uris := make([]uri.DocURI, 0, len(docs))
	for _, d := range docs {
		uris = append(uris, d.URI)
	}

	t.app.State.ReplaceFiles(uris)
	t.app.Fanout.EnqueueInitial(ctx, docs)

	log.Printf("workspace rebuild found %d files", len(docs))
	return len(docs)
}

// RebuildWorkspace implements watcher.Propagator.
func (t *Tracker) RebuildWorkspace(ctx context.Context) {
	t.EnqueueAllWorkspaceFiles(ctx)
}

// EnqueueChanged implements watcher.Propagator.
func (t *Tracker) EnqueueChanged(ctx context.Context, docs []types.DocumentInfo) {
	t.app.Fanout.EnqueueChanged(ctx, docs)
}

// OnWorkspaceInit discovers and enqueues the initial workspace content.
func (t *Tracker) OnWorkspaceInit(ctx context.Context) int {
	return t.EnqueueAllWorkspaceFiles(ctx)
}

// OnDidOpen installs a buffer overlay for a newly-opened document and, for
// valid files, propagates the overlay content so the indexers see what the
// editor sees.
func (t *Tracker) OnDidOpen(ctx context.Context, path, text, languageID string) {
	u, err := uri.Resolve(path)
	if err != nil {
		log.Printf("on_did_open: %v", err)
		return
	}
	log.Printf("on_did_open %s", tail(u.Path(), 30))

	t.app.State.OpenDocument(u, languageID, text)

	if t.app.Validator.IsValid(u.Path()) {
		doc := types.DocumentInfo{URI: u, Document: types.NewDocument(languageID, text)}
		t.app.Fanout.EnqueueEdited(ctx, []types.DocumentInfo{doc})
	}
}

// OnDidChange updates the overlay for an edited document. An identity this
// process never learned about is a consistency warning, not an error: the
// document is inserted anyway and the caches marked stale.
func (t *Tracker) OnDidChange(ctx context.Context, path, text string) {
	u, err := uri.Resolve(path)
	if err != nil {
		log.Printf("on_did_change: %v", err)
		return
	}

	if inserted := t.app.State.ChangeDocument(u, text); inserted {
		log.Printf("WARNING: file %s reported changed, but this process has no record of it", tail(u.Path(), 30))
	}

	if t.app.Validator.IsValid(u.Path()) {
		doc, _ := t.app.State.Overlay(u)
		info := types.DocumentInfo{URI: u, Document: &doc}
		t.app.Fanout.EnqueueEdited(ctx, []types.DocumentInfo{info})
	}

	t.app.Snippets.SourcesChanged(u, text)
	debug.LogWorkspace("on_did_change %s\n", tail(u.Path(), 30))
}

// OnDidDelete removes the overlay for a deleted document and drops the
// identity from both indexes.
func (t *Tracker) OnDidDelete(ctx context.Context, path string) {
	u, err := uri.Resolve(path)
	if err != nil {
		log.Printf("on_did_delete: %v", err)
		return
	}
	log.Printf("on_did_delete %s", tail(u.Path(), 30))

	t.app.State.CloseDocument(u)
	t.app.Fanout.RemoveFile(ctx, u)
}

// AddFolder registers a new discovery root, extends the watch session to it
// and enqueues its files. The known-files set grows; nothing is rebuilt.
func (t *Tracker) AddFolder(ctx context.Context, path string) {
	t.app.State.AddFolder(path)
	if err := t.watch.Watch(path); err != nil {
		log.Printf("Warning: %v", err)
	}

	docs := t.walker.Discover(ctx, []string{path})
	uris := make([]uri.DocURI, 0, len(docs))
	for _, d := range docs {
		uris = append(uris, d.URI)
	}
	t.app.State.AppendFiles(uris)
	t.app.Fanout.EnqueueInitial(ctx, docs)
}

// RemoveFolder drops a discovery root. Partial removal cannot cheaply prove
// which files belonged only to that folder, so the structural index is reset
// and the whole workspace rediscovered.
func (t *Tracker) RemoveFolder(ctx context.Context, path string) {
	if !t.app.State.RemoveFolder(path) {
		log.Printf("remove_folder: %s was not a workspace folder", path)
		return
	}
	t.watch.Unwatch(path)

	t.app.Fanout.ResetAST(ctx)
	t.EnqueueAllWorkspaceFiles(ctx)
}

// GetFileText returns the current content for a path: the editor overlay if
// the file is open, otherwise what is on disk.
func (t *Tracker) GetFileText(path string) (string, error) {
	u, err := uri.Resolve(path)
	if err != nil {
		return "", err
	}
	return t.app.State.ReadCurrent(u)
}

// tail keeps log lines bounded on deep paths.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
