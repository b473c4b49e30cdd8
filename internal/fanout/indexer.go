// Package fanout delivers document-change batches to the downstream
// indexers. The two indexers are independently paced: a slow or failing one
// never delays the other, and neither is ever called under a store lock.
package fanout

import (
	"context"

	"github.com/standardbeagle/workspaced/internal/types"
	"github.com/standardbeagle/workspaced/internal/uri"
)

// Indexer is the contract both downstream index modules implement: the
// structural (AST) indexer and the semantic (vector) indexer. Calls are
// fire-and-forget from the tracker's point of view; indexers must be
// idempotent and tolerate duplicate or out-of-order enqueues of the same
// identity.
type Indexer interface {
	// EnqueueFiles hands a batch of documents to the indexer. The force
	// flag is indexer-defined: it marks a batch the indexer should not
	// skip by its own freshness heuristics.
	EnqueueFiles(ctx context.Context, docs []types.DocumentInfo, force bool)

	// RemoveFile drops one identity from the index.
	RemoveFile(ctx context.Context, u uri.DocURI)

	// ResetIndex discards the whole index ahead of a rediscovery.
	ResetIndex(ctx context.Context)
}

// Noop is the Indexer used when a module is disabled. Having a real
// implementation keeps presence checks out of every call site.
type Noop struct{}

func (Noop) EnqueueFiles(context.Context, []types.DocumentInfo, bool) {}
func (Noop) RemoveFile(context.Context, uri.DocURI)                   {}
func (Noop) ResetIndex(context.Context)                               {}
