package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/workspaced/internal/debug"
	"github.com/standardbeagle/workspaced/internal/types"
	"github.com/standardbeagle/workspaced/internal/uri"
)

// Fanout routes batches to the AST and vector indexers. Handles are fixed at
// construction; pass Noop for a disabled module.
type Fanout struct {
	ast    Indexer
	vector Indexer
}

// New creates a fanout over the two indexer handles. Nil handles become Noop.
func New(ast, vector Indexer) *Fanout {
	if ast == nil {
		ast = Noop{}
	}
	if vector == nil {
		vector = Noop{}
	}
	return &Fanout{ast: ast, vector: vector}
}

// EnqueueChanged delivers a live-change batch (watcher or editor edits) to
// both indexers concurrently, without any shared lock between the two calls.
func (f *Fanout) EnqueueChanged(ctx context.Context, docs []types.DocumentInfo) {
	if len(docs) == 0 {
		return
	}
	debug.LogFanout("enqueue %d changed docs\n", len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f.ast.EnqueueFiles(gctx, docs, true)
		return nil
	})
	g.Go(func() error {
		f.vector.EnqueueFiles(gctx, docs, false)
		return nil
	})
	_ = g.Wait()
}

// EnqueueEdited delivers an editor-originated batch (open or buffer edit).
// Editor batches carry the overlay content already, so neither indexer needs
// its freshness heuristics bypassed; force stays off for both.
func (f *Fanout) EnqueueEdited(ctx context.Context, docs []types.DocumentInfo) {
	if len(docs) == 0 {
		return
	}
	debug.LogFanout("enqueue %d edited docs\n", len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f.ast.EnqueueFiles(gctx, docs, false)
		return nil
	})
	g.Go(func() error {
		f.vector.EnqueueFiles(gctx, docs, false)
		return nil
	})
	_ = g.Wait()
}

// EnqueueInitial delivers a full-rebuild batch. The vector indexer sees the
// initial-load flag so it can batch embedding work; the AST indexer treats
// the batch as routine.
func (f *Fanout) EnqueueInitial(ctx context.Context, docs []types.DocumentInfo) {
	debug.LogFanout("enqueue %d docs (initial load)\n", len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f.ast.EnqueueFiles(gctx, docs, false)
		return nil
	})
	g.Go(func() error {
		f.vector.EnqueueFiles(gctx, docs, true)
		return nil
	})
	_ = g.Wait()
}

// RemoveFile drops one identity from both indexes.
func (f *Fanout) RemoveFile(ctx context.Context, u uri.DocURI) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f.vector.RemoveFile(gctx, u)
		return nil
	})
	g.Go(func() error {
		f.ast.RemoveFile(gctx, u)
		return nil
	})
	_ = g.Wait()
}

// ResetAST discards the structural index ahead of a rediscovery, as when a
// workspace folder is removed.
func (f *Fanout) ResetAST(ctx context.Context) {
	f.ast.ResetIndex(ctx)
}
