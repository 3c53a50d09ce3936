package store

import (
	"sort"
	"sync"

	"github.com/signgate/signgate/lib"
)

var _ RequestStorer = (*memoryStore)(nil)

type memoryStore struct {
	sync.Mutex
	requests map[string]*RequestRecord
}

func (ms *memoryStore) Get(id string) (*RequestRecord, error) {
	ms.Lock()
	defer ms.Unlock()
	if ms.requests == nil {
		return nil, ErrClosed
	}
	r, ok := ms.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *r
	return &c, nil
}

func (ms *memoryStore) SetRecord(record *RequestRecord) error {
	ms.Lock()
	defer ms.Unlock()
	if ms.requests == nil {
		return ErrClosed
	}
	c := *record
	if c.Signers == nil {
		c.Signers = StringSlice{}
	}
	ms.requests[record.ID] = &c
	return nil
}

func (ms *memoryStore) List(includeFinished bool) ([]*RequestRecord, error) {
	records := []*RequestRecord{}
	ms.Lock()
	defer ms.Unlock()
	if ms.requests == nil {
		return nil, ErrClosed
	}

	for _, value := range ms.requests {
		if !includeFinished && value.Status.Finished() {
			continue
		}
		c := *value
		records = append(records, &c)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (ms *memoryStore) SetStatus(id string, status lib.SignRequestStatus) error {
	ms.Lock()
	defer ms.Unlock()
	if ms.requests == nil {
		return ErrClosed
	}
	r, ok := ms.requests[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	return nil
}

func (ms *memoryStore) Close() error {
	ms.Lock()
	defer ms.Unlock()
	ms.requests = nil
	return nil
}

// NewMemoryStore returns an in-memory RequestStorer.
func NewMemoryStore() RequestStorer {
	return &memoryStore{
		requests: make(map[string]*RequestRecord),
	}
}
