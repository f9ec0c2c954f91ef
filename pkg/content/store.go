package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	siteerrors "github.com/vango-dev/frontpage/internal/errors"
)

// ErrNotFound is returned by Get for unknown slugs. Match it with
// errors.Is.
var ErrNotFound = siteerrors.New("E200")

type snapshot struct {
	lists map[Kind][]*Entry
	index map[Kind]map[string]*Entry
}

// Store serves parsed entries from a Source. Reload swaps in a new snapshot
// so readers never see a half-loaded collection.
type Store struct {
	src    Source
	md     goldmark.Markdown
	logger *zap.Logger

	mu       sync.RWMutex
	snap     snapshot
	loadedAt time.Time
	drafts   bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithDrafts includes entries marked draft.
func WithDrafts() StoreOption {
	return func(s *Store) { s.drafts = true }
}

// NewStore creates an empty store. Call Reload to populate it.
func NewStore(src Source, logger *zap.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		src:    src,
		md:     NewMarkdown(),
		logger: logger.Named("content"),
		snap: snapshot{
			lists: map[Kind][]*Entry{},
			index: map[Kind]map[string]*Entry{},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload reads every kind from the source. Files that fail to parse are
// logged and skipped; a source failure aborts the reload and keeps the
// previous snapshot.
func (s *Store) Reload(ctx context.Context) error {
	next := snapshot{
		lists: make(map[Kind][]*Entry, len(Kinds())),
		index: make(map[Kind]map[string]*Entry, len(Kinds())),
	}
	total := 0

	for _, kind := range Kinds() {
		docs, err := s.src.List(ctx, kind)
		if err != nil {
			return siteerrors.New("E203").WithDetail(kind.Dir()).Wrap(err)
		}

		idx := make(map[string]*Entry, len(docs))
		list := make([]*Entry, 0, len(docs))
		for _, doc := range docs {
			e, err := Parse(s.md, kind, doc)
			if err != nil {
				s.logger.Warn("skipping content file",
					zap.String("kind", string(kind)),
					zap.String("file", doc.Name),
					zap.Error(err))
				continue
			}
			if e.Draft && !s.drafts {
				continue
			}
			if _, dup := idx[e.Slug]; dup {
				s.logger.Warn("duplicate slug",
					zap.String("kind", string(kind)),
					zap.String("slug", e.Slug),
					zap.String("file", doc.Name))
				continue
			}
			idx[e.Slug] = e
			list = append(list, e)
		}

		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].Date.Equal(list[j].Date) {
				return list[i].Date.After(list[j].Date)
			}
			return list[i].Slug < list[j].Slug
		})
		next.lists[kind] = list
		next.index[kind] = idx
		total += len(list)
	}

	s.mu.Lock()
	s.snap = next
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("content loaded", zap.Int("entries", total))
	return nil
}

// List returns the entries of kind, newest first.
func (s *Store) List(kind Kind) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.snap.lists[kind]
	out := make([]*Entry, len(list))
	copy(out, list)
	return out
}

// Latest returns at most n entries of kind.
func (s *Store) Latest(kind Kind, n int) []*Entry {
	list := s.List(kind)
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

// Get returns the entry of kind with slug.
func (s *Store) Get(kind Kind, slug string) (*Entry, error) {
	s.mu.RLock()
	e, ok := s.snap.index[kind][slug]
	s.mu.RUnlock()
	if !ok {
		return nil, siteerrors.New("E200").WithDetail(kind.Dir() + "/" + slug)
	}
	return e, nil
}

// LoadedAt returns the time of the last successful reload.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Count returns the number of entries across all kinds.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, list := range s.snap.lists {
		n += len(list)
	}
	return n
}
