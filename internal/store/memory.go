package store

import (
	"context"
	"sort"
	"sync"

	"sammyAPI/internal/dailylog"
	"sammyAPI/internal/user"
)

// MemoryStore keeps everything in process. Transactions are serialized by a
// single mutex, which is enough for local runs and tests.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]user.Profile
	logs     map[string]map[string]dailylog.DailyLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]user.Profile),
		logs:     make(map[string]map[string]dailylog.DailyLog),
	}
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	c := p.Clone()
	return &c, nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, userID string, fn ProfileMutator) (*user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.profiles[userID]
	p := current.Clone()
	if err := fn(&p, exists); err != nil {
		return nil, err
	}
	s.profiles[userID] = p.Clone()
	return &p, nil
}

func (s *MemoryStore) GetLog(ctx context.Context, userID, date string) (*dailylog.DailyLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[userID][date]
	if !ok {
		return nil, ErrNotFound
	}
	c := l.Clone()
	return &c, nil
}

func (s *MemoryStore) ListLogs(ctx context.Context, userID string, q dailylog.Query) ([]dailylog.DailyLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []dailylog.DailyLog{}
	for date, l := range s.logs[userID] {
		if q.From != "" && date < q.From {
			continue
		}
		if q.To != "" && date > q.To {
			continue
		}
		out = append(out, l.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if q.Descending {
			return out[i].Date > out[j].Date
		}
		return out[i].Date < out[j].Date
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) UpdateLog(ctx context.Context, userID, date string, fn LogMutator) (*dailylog.DailyLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.logs[userID][date]
	l := current.Clone()
	l.Date = date
	if err := fn(&l, exists); err != nil {
		return nil, err
	}

	if s.logs[userID] == nil {
		s.logs[userID] = make(map[string]dailylog.DailyLog)
	}
	s.logs[userID][date] = l.Clone()
	return &l, nil
}

func (s *MemoryStore) DeleteLog(ctx context.Context, userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.logs[userID][date]; !ok {
		return ErrNotFound
	}
	delete(s.logs[userID], date)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
