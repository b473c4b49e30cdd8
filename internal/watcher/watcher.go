// Package watcher subscribes to OS filesystem events for every workspace
// folder, classifies them into document-change batches and hands those to
// the propagation layer.
//
// The fsnotify callback goroutine only converts raw events and pushes them
// onto a bounded channel (drop-oldest on overflow); a dedicated consumer
// goroutine owns debouncing, classification and dispatch. Losing an event
// under storm conditions is safe because a destructive event always triggers
// a full rediscovery, which is idempotent.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/workspaced/internal/config"
	"github.com/standardbeagle/workspaced/internal/debug"
	wserrors "github.com/standardbeagle/workspaced/internal/errors"
	"github.com/standardbeagle/workspaced/internal/scan"
	"github.com/standardbeagle/workspaced/internal/store"
	"github.com/standardbeagle/workspaced/internal/types"
	"github.com/standardbeagle/workspaced/internal/uri"
)

// Propagator is what the classifier needs from the propagation layer. The
// workspace tracker implements it.
type Propagator interface {
	// EnqueueChanged delivers filtered changed documents to both indexers.
	EnqueueChanged(ctx context.Context, docs []types.DocumentInfo)

	// RebuildWorkspace rediscovers every workspace folder and replaces the
	// known-files set. Safe to call redundantly.
	RebuildWorkspace(ctx context.Context)
}

type rawEvent struct {
	path string
	kind types.FileEventKind
	dir  bool
}

// Service owns one watch session over the current workspace folders.
type Service struct {
	cfg       *config.Config
	validator *scan.Validator
	state     *store.State
	prop      Propagator

	watcherMu sync.Mutex
	fsw       *fsnotify.Watcher

	events    chan rawEvent
	debouncer *eventDebouncer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	statsMu sync.Mutex
	dropped int64
	batches int64
}

// New creates a watch service. Start must be called before events flow.
func New(cfg *config.Config, validator *scan.Validator, state *store.State, prop Propagator) (*Service, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		cfg:       cfg,
		validator: validator,
		state:     state,
		prop:      prop,
		fsw:       fsw,
		events:    make(chan rawEvent, cfg.Index.EventQueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	s.debouncer = newEventDebouncer(time.Duration(cfg.Index.WatchDebounceMs)*time.Millisecond, s.processBatch)
	return s, nil
}

// Start subscribes to every current workspace folder and begins processing.
// A folder that cannot be watched is logged and left unmonitored.
func (s *Service) Start() {
	for _, folder := range s.state.Folders() {
		if err := s.Watch(folder); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	s.wg.Add(2)
	go s.readOSEvents()
	go s.consume()
}

// Stop tears the session down and waits for the goroutines to finish.
func (s *Service) Stop() {
	s.cancel()

	s.watcherMu.Lock()
	if err := s.fsw.Close(); err != nil {
		log.Printf("Error closing fsnotify watcher: %v", err)
	}
	s.watcherMu.Unlock()

	s.debouncer.stop()
	s.wg.Wait()
}

// Watch adds a folder (and its non-blacklisted subdirectories) to the live
// session without restarting it.
func (s *Service) Watch(folder string) error {
	visited := make(map[string]bool)

	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}
		if !info.IsDir() {
			return nil
		}
		if path != folder && config.IsBlacklistedDir(info.Name()) {
			return filepath.SkipDir
		}

		// Symlink cycle guard
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		if visited[realPath] {
			return filepath.SkipDir
		}
		visited[realPath] = true

		s.watcherMu.Lock()
		addErr := s.fsw.Add(path)
		s.watcherMu.Unlock()
		if addErr != nil {
			debug.LogWatch("failed to watch %s: %v\n", path, addErr)
		}
		return nil
	})
	if err != nil {
		return wserrors.NewWatchError(folder, err)
	}
	return nil
}

// Unwatch removes a folder and everything under it from the live session.
func (s *Service) Unwatch(folder string) {
	folder = filepath.Clean(folder)
	prefix := folder + string(filepath.Separator)

	s.watcherMu.Lock()
	defer s.watcherMu.Unlock()
	for _, watched := range s.fsw.WatchList() {
		if watched == folder || strings.HasPrefix(watched, prefix) {
			_ = s.fsw.Remove(watched)
		}
	}
}

// readOSEvents drains fsnotify on the OS callback side. It does the minimum:
// kind mapping plus a non-blocking push onto the bounded channel.
func (s *Service) readOSEvents() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return

		case event, ok := <-s.fsw.Events:
			if !ok {
				return
			}
			s.pushRaw(event)

		case err, ok := <-s.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// pushRaw converts one fsnotify event and enqueues it, dropping the oldest
// pending event when the queue is full.
func (s *Service) pushRaw(event fsnotify.Event) {
	var kind types.FileEventKind
	switch {
	case event.Op&fsnotify.Create != 0:
		kind = types.FileEventCreate
	case event.Op&fsnotify.Write != 0:
		kind = types.FileEventModifyContent
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		kind = types.FileEventRemove
	default:
		return // metadata-only and unknown kinds are dropped
	}

	ev := rawEvent{path: event.Name, kind: kind}
	if kind == types.FileEventCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			ev.dir = true
		}
	}

	select {
	case s.events <- ev:
	default:
		select {
		case <-s.events:
			s.statsMu.Lock()
			s.dropped++
			s.statsMu.Unlock()
		default:
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}

// consume owns the debouncer: every raw event lands in the pending map and
// (re)arms the flush timer.
func (s *Service) consume() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case ev := <-s.events:
			if ev.dir {
				s.handleNewDirectory(ev.path)
				continue
			}
			debug.LogWatch("event %s %s\n", ev.kind, ev.path)
			s.debouncer.add(ev.path, ev.kind)
		}
	}
}

// insideBlacklisted reports whether path sits under a blacklisted directory
// within its workspace folder. Paths outside every registered folder are not
// blacklisted; classification decides what to do with them.
func (s *Service) insideBlacklisted(path string) bool {
	for _, folder := range s.state.Folders() {
		if path == folder || strings.HasPrefix(path, folder+string(filepath.Separator)) {
			return config.InsideBlacklistedDir(path, folder)
		}
	}
	return false
}

// handleNewDirectory extends the watch to a directory created inside a
// watched folder, unless it is blacklisted.
func (s *Service) handleNewDirectory(path string) {
	if config.IsBlacklistedDir(filepath.Base(path)) || s.insideBlacklisted(path) {
		return
	}
	s.watcherMu.Lock()
	err := s.fsw.Add(path)
	s.watcherMu.Unlock()
	if err != nil {
		debug.LogWatch("failed to watch new directory %s: %v\n", path, err)
	}
}

// processBatch classifies one debounced batch and dispatches it.
//
// A Remove with at least one path outside blacklisted directories means a
// file that mattered is gone; a single event cannot prove what else depended
// on it, so the whole workspace is rediscovered. Creates and content
// modifications are filtered and enqueued; surviving creates become known
// files first so a later removal can be classified against them.
func (s *Service) processBatch(batch map[string]types.FileEventKind) {
	s.statsMu.Lock()
	s.batches++
	s.statsMu.Unlock()

	destructive := false
	var docs []types.DocumentInfo
	var created []uri.DocURI

	for path, kind := range batch {
		switch kind {
		case types.FileEventRemove:
			if !s.insideBlacklisted(path) {
				destructive = true
			}

		case types.FileEventCreate, types.FileEventModifyContent:
			if s.insideBlacklisted(path) {
				continue
			}
			if err := s.validator.Check(path); err != nil {
				continue
			}
			u, err := uri.Resolve(path)
			if err != nil {
				continue
			}
			docs = append(docs, types.DocumentInfo{URI: u})
			if kind == types.FileEventCreate {
				created = append(created, u)
			}
		}
	}

	if destructive {
		log.Printf("Likely a useful file was removed, rebuilding index")
		s.prop.RebuildWorkspace(s.ctx)
		return
	}
	if len(docs) == 0 {
		return
	}

	debug.LogWatch("enqueue %d changed paths\n", len(docs))
	if len(created) > 0 {
		s.state.AppendFiles(created)
	}
	s.prop.EnqueueChanged(s.ctx, docs)
}

// Stats reports counters for the current session.
func (s *Service) Stats() (dropped, batches int64) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.dropped, s.batches
}

// eventDebouncer batches file events so an OS event storm becomes one
// classification pass. Adapted for per-path latest-kind semantics: a Create
// followed by a content modify stays a Create, so the identity still joins
// the known-files set.
type eventDebouncer struct {
	mu       sync.Mutex
	events   map[string]types.FileEventKind
	debounce time.Duration
	timer    *time.Timer
	flush    func(map[string]types.FileEventKind)
}

func newEventDebouncer(debounce time.Duration, flush func(map[string]types.FileEventKind)) *eventDebouncer {
	if debounce <= 0 {
		debounce = time.Duration(types.DefaultWatchDebounceMs) * time.Millisecond
	}
	return &eventDebouncer{
		events:   make(map[string]types.FileEventKind),
		debounce: debounce,
		flush:    flush,
	}
}

func (d *eventDebouncer) add(path string, kind types.FileEventKind) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.events[path]; !(ok && prev == types.FileEventCreate && kind == types.FileEventModifyContent) {
		d.events[path] = kind
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.fire)
}

func (d *eventDebouncer) fire() {
	d.mu.Lock()
	events := d.events
	d.events = make(map[string]types.FileEventKind)
	d.mu.Unlock()

	if len(events) == 0 {
		return
	}
	d.flush(events)
}

// stop cancels any pending flush. Events pending at shutdown are dropped;
// the session is being torn down anyway.
func (d *eventDebouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
