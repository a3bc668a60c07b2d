package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/Dan9191/credit-service/internal/models"
	"github.com/Dan9191/credit-service/internal/repository"
)

// StoreMock is an in-memory repository.CreditStore. Setting Err makes every
// call fail with it.
type StoreMock struct {
	Err error

	mu      sync.Mutex
	records map[int64]models.CreditRecord
	nextID  int64
	Calls   int
}

var _ repository.CreditStore = (*StoreMock)(nil)

// NewStoreMock returns a mock seeded with the given records
func NewStoreMock(seed ...models.CreditRecord) *StoreMock {
	s := &StoreMock{records: map[int64]models.CreditRecord{}}
	for _, rec := range seed {
		s.records[rec.ID] = rec
		if rec.ID > s.nextID {
			s.nextID = rec.ID
		}
	}
	return s
}

// enter locks the mock; callers unlock
func (s *StoreMock) enter() error {
	s.mu.Lock()
	s.Calls++
	if s.records == nil {
		s.records = map[int64]models.CreditRecord{}
	}
	return s.Err
}

func (s *StoreMock) lookup(key models.Key) (models.CreditRecord, bool) {
	if !key.ByName() {
		rec, ok := s.records[key.ID]
		return rec, ok
	}
	var found *models.CreditRecord
	for id := range s.records {
		rec := s.records[id]
		if rec.CompanyName == key.Name && (found == nil || rec.ID < found.ID) {
			found = &rec
		}
	}
	if found == nil {
		return models.CreditRecord{}, false
	}
	return *found, true
}

func (s *StoreMock) List(ctx context.Context) ([]models.CreditRecord, error) {
	err := s.enter()
	defer s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	records := make([]models.CreditRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (s *StoreMock) Get(ctx context.Context, key models.Key) (*models.CreditRecord, error) {
	err := s.enter()
	defer s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	rec, ok := s.lookup(key)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (s *StoreMock) Create(ctx context.Context, rec *models.CreditRecord) error {
	err := s.enter()
	defer s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := s.lookup(models.Key{Name: rec.CompanyName}); ok {
		return repository.ErrNameExists
	}
	if rec.ID != 0 {
		if _, ok := s.records[rec.ID]; ok {
			return repository.ErrIDExists
		}
	} else {
		rec.ID = s.nextID + 1
	}
	if rec.ID > s.nextID {
		s.nextID = rec.ID
	}
	s.records[rec.ID] = *rec
	return nil
}

func (s *StoreMock) Update(ctx context.Context, key models.Key, patch models.CreditPatch) (*models.CreditRecord, error) {
	err := s.enter()
	defer s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	rec, ok := s.lookup(key)
	if !ok {
		return nil, repository.ErrNotFound
	}
	updated := patch.Apply(rec)
	s.records[updated.ID] = updated
	return &updated, nil
}

func (s *StoreMock) Delete(ctx context.Context, key models.Key) (*models.CreditRecord, error) {
	err := s.enter()
	defer s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	rec, ok := s.lookup(key)
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.records, rec.ID)
	return &rec, nil
}

func (s *StoreMock) Count(ctx context.Context) (int64, error) {
	err := s.enter()
	defer s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return int64(len(s.records)), nil
}

func (s *StoreMock) Optimize(ctx context.Context) error {
	err := s.enter()
	defer s.mu.Unlock()
	return err
}

func (s *StoreMock) Ping(ctx context.Context) error {
	err := s.enter()
	defer s.mu.Unlock()
	return err
}
