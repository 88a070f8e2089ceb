package importers

import (
	"context"
	"errors"

	"github.com/mrlokans/hanzi/internal/entities"
)

var errStoreDown = errors.New("store unavailable")

// memoryStore mimics the vocabulary repository: records keyed by headword,
// schema validation on write.
type memoryStore struct {
	records  map[string]*entities.Vocabulary
	nextID   uint
	failOn   map[string]error
	upserted []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]*entities.Vocabulary), failOn: make(map[string]error)}
}

func (m *memoryStore) Upsert(_ context.Context, v *entities.Vocabulary) (entities.UpsertResult, error) {
	m.upserted = append(m.upserted, v.Headword)
	if err, ok := m.failOn[v.Headword]; ok {
		return entities.UpsertResult{}, err
	}
	if err := v.Validate(); err != nil {
		return entities.UpsertResult{}, err
	}

	if existing, ok := m.records[v.Headword]; ok {
		v.ID = existing.ID
		m.records[v.Headword] = v
		return entities.UpsertResult{Action: entities.UpsertUpdated, ID: v.ID}, nil
	}

	m.nextID++
	v.ID = m.nextID
	m.records[v.Headword] = v
	return entities.UpsertResult{Action: entities.UpsertCreated, ID: v.ID}, nil
}

func (m *memoryStore) Exists(_ context.Context, headword string) (bool, error) {
	if err, ok := m.failOn[headword]; ok {
		return false, err
	}
	_, ok := m.records[headword]
	return ok, nil
}
