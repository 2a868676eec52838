package store

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/platform/sentinel"
	"lendmatch/pkg/requestcontext"
)

// lenderLog is the append-only history of one lender.
// saveMu serializes writers; readers load the atomic pointers without locking
// and always observe a whole snapshot.
type lenderLog struct {
	saveMu  sync.Mutex
	current atomic.Pointer[models.Snapshot]
	history atomic.Pointer[[]*models.Snapshot] // oldest first, copy-on-write
}

// InMemoryStore keeps policy history in process memory.
type InMemoryStore struct {
	mu        sync.RWMutex
	lenders   map[id.LenderID]*lenderLog
	byVersion map[id.VersionID]*models.Snapshot
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		lenders:   make(map[id.LenderID]*lenderLog),
		byVersion: make(map[id.VersionID]*models.Snapshot),
	}
}

func (s *InMemoryStore) log(lenderID id.LenderID, create bool) *lenderLog {
	s.mu.RLock()
	l, ok := s.lenders[lenderID]
	s.mu.RUnlock()
	if ok || !create {
		return l
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok = s.lenders[lenderID]; !ok {
		l = &lenderLog{}
		s.lenders[lenderID] = l
	}
	return l
}

// Save appends a snapshot built from draft and advances the current pointer.
// A non-nil base must equal the current version or sentinel.ErrStaleVersion
// is returned.
func (s *InMemoryStore) Save(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID) (*models.Snapshot, error) {
	l := s.log(lenderID, true)
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var predecessor id.VersionID
	if cur := l.current.Load(); cur != nil {
		predecessor = cur.VersionID
	}
	if !base.IsNil() && base != predecessor {
		return nil, sentinel.ErrStaleVersion
	}

	snap := models.NewSnapshot(lenderID, predecessor, draft, requestcontext.Now(ctx))

	var next []*models.Snapshot
	if prev := l.history.Load(); prev != nil {
		next = slices.Clone(*prev)
	}
	next = append(next, snap)

	s.mu.Lock()
	s.byVersion[snap.VersionID] = snap
	s.mu.Unlock()

	l.history.Store(&next)
	l.current.Store(snap)
	return snap, nil
}

func (s *InMemoryStore) Current(_ context.Context, lenderID id.LenderID) (*models.Snapshot, error) {
	l := s.log(lenderID, false)
	if l == nil {
		return nil, sentinel.ErrNotFound
	}
	cur := l.current.Load()
	if cur == nil {
		return nil, sentinel.ErrNotFound
	}
	return cur, nil
}

// History returns the lender's snapshots, most recent first.
func (s *InMemoryStore) History(_ context.Context, lenderID id.LenderID) ([]*models.Snapshot, error) {
	l := s.log(lenderID, false)
	if l == nil {
		return []*models.Snapshot{}, nil
	}
	hist := l.history.Load()
	if hist == nil {
		return []*models.Snapshot{}, nil
	}
	out := slices.Clone(*hist)
	slices.Reverse(out)
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, versionID id.VersionID) (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.byVersion[versionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return snap, nil
}

// ListActive returns the current snapshot of every lender whose current
// policy is active.
func (s *InMemoryStore) ListActive(_ context.Context) ([]*models.Snapshot, error) {
	s.mu.RLock()
	logs := make([]*lenderLog, 0, len(s.lenders))
	for _, l := range s.lenders {
		logs = append(logs, l)
	}
	s.mu.RUnlock()

	active := make([]*models.Snapshot, 0, len(logs))
	for _, l := range logs {
		if cur := l.current.Load(); cur != nil && cur.Policy.IsActive {
			active = append(active, cur)
		}
	}
	slices.SortFunc(active, func(a, b *models.Snapshot) int {
		return compareLender(a.LenderID, b.LenderID)
	})
	return active, nil
}

func compareLender(a, b id.LenderID) int {
	return slices.Compare(a[:], b[:])
}
