package store

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hbollon/go-edlib"
)

// Lookup holds the derived caches over the known-files set: a short-path
// correction map (base name to full path) and a flat list for fuzzy search.
// Both are rebuilt lazily when the staleness flag says so, never eagerly on
// every mutation.
type Lookup struct {
	state *State

	mu         sync.Mutex
	built      bool
	correction map[string][]string // base name -> full paths
	paths      []string
}

// NewLookup creates a lookup bound to a state.
func NewLookup(state *State) *Lookup {
	return &Lookup{state: state}
}

// ensureFresh rebuilds the caches when they were never built or a mutation
// marked them stale. Caller must hold l.mu.
func (l *Lookup) ensureFresh() {
	if l.built && !l.state.TakeDirty() {
		return
	}

	files := l.state.SnapshotFiles()
	correction := make(map[string][]string, len(files))
	paths := make([]string, 0, len(files))
	for _, u := range files {
		p := u.Path()
		paths = append(paths, p)
		base := filepath.Base(p)
		correction[base] = append(correction[base], p)
	}
	sort.Strings(paths)

	l.correction = correction
	l.paths = paths
	l.built = true
}

// CorrectPath maps a short or partial path to the full workspace paths it
// could mean: exact base-name hits first, then suffix matches.
func (l *Lookup) CorrectPath(short string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureFresh()

	if hits, ok := l.correction[filepath.Base(short)]; ok {
		slashed := filepath.ToSlash(short)
		exact := make([]string, 0, len(hits))
		for _, hit := range hits {
			if strings.HasSuffix(filepath.ToSlash(hit), slashed) {
				exact = append(exact, hit)
			}
		}
		if len(exact) > 0 {
			return exact
		}
		out := make([]string, len(hits))
		copy(out, hits)
		return out
	}
	return nil
}

// FuzzyPaths returns up to n workspace paths ranked by similarity to query.
// Linear over the path list; the workspace file count bounds the cost.
func (l *Lookup) FuzzyPaths(query string, n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ensureFresh()

	if n <= 0 || len(l.paths) == 0 {
		return nil
	}

	type scored struct {
		path  string
		score float32
	}
	candidates := make([]scored, 0, len(l.paths))
	for _, p := range l.paths {
		score, err := edlib.StringsSimilarity(query, filepath.Base(p), edlib.JaroWinkler)
		if err != nil {
			continue
		}
		candidates = append(candidates, scored{path: p, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.path)
	}
	return out
}
