package adimport

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/adcatalog-backend/internal/domain"
)

// memStore is an in-memory catalog that records calls to verify pipeline behavior.
type memStore struct {
	mu sync.Mutex

	brands   map[string]*domain.Brand
	agencies map[string]*domain.Agency
	tags     map[string]*domain.Tag
	ads      map[string]*domain.Ad
	adTags   map[uuid.UUID][]uuid.UUID

	brandErr  error
	agencyErr error
	tagErr    error
	upsertErr error
	linkErr   error

	callLog []string
}

func newMemStore() *memStore {
	return &memStore{
		brands:   make(map[string]*domain.Brand),
		agencies: make(map[string]*domain.Agency),
		tags:     make(map[string]*domain.Tag),
		ads:      make(map[string]*domain.Ad),
		adTags:   make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *memStore) stores() Stores {
	return Stores{
		Brands:   brandStoreFunc(m.getOrCreateBrand),
		Agencies: agencyStoreFunc(m.getOrCreateAgency),
		Tags:     tagStoreFunc(m.getOrCreateTag),
		Ads:      m,
	}
}

func (m *memStore) logCall(name string) {
	m.callLog = append(m.callLog, name)
}

func (m *memStore) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.callLog...)
}

func (m *memStore) getOrCreateBrand(_ context.Context, name, slug string) (*domain.Brand, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("Brand:" + name)
	if m.brandErr != nil {
		return nil, false, m.brandErr
	}
	if b, ok := m.brands[name]; ok {
		return b, false, nil
	}
	b := &domain.Brand{ID: uuid.New(), Name: name}
	if slug != "" {
		b.Slug = &slug
	}
	m.brands[name] = b
	return b, true, nil
}

func (m *memStore) getOrCreateAgency(_ context.Context, name, slug string) (*domain.Agency, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("Agency:" + name)
	if m.agencyErr != nil {
		return nil, false, m.agencyErr
	}
	if a, ok := m.agencies[name]; ok {
		return a, false, nil
	}
	a := &domain.Agency{ID: uuid.New(), Name: name}
	if slug != "" {
		a.Slug = &slug
	}
	m.agencies[name] = a
	return a, true, nil
}

func (m *memStore) getOrCreateTag(_ context.Context, name, slug string) (*domain.Tag, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("Tag:" + slug)
	if m.tagErr != nil {
		return nil, false, m.tagErr
	}
	if t, ok := m.tags[slug]; ok {
		return t, false, nil
	}
	t := &domain.Tag{ID: uuid.New(), Name: name, Slug: slug}
	m.tags[slug] = t
	return t, true, nil
}

func (m *memStore) Upsert(_ context.Context, ad *domain.Ad) (uuid.UUID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("Upsert:" + ad.VideoID)
	if m.upsertErr != nil {
		return uuid.Nil, false, m.upsertErr
	}
	if existing, ok := m.ads[ad.VideoID]; ok {
		stored := *ad
		stored.ID = existing.ID
		m.ads[ad.VideoID] = &stored
		return existing.ID, false, nil
	}
	stored := *ad
	stored.ID = uuid.New()
	m.ads[ad.VideoID] = &stored
	return stored.ID, true, nil
}

func (m *memStore) ReplaceTags(_ context.Context, adID uuid.UUID, tagIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("ReplaceTags")
	if m.linkErr != nil {
		return m.linkErr
	}
	m.adTags[adID] = append([]uuid.UUID(nil), tagIDs...)
	return nil
}

func (m *memStore) AddTags(_ context.Context, adID uuid.UUID, tagIDs []uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("AddTags")
	if m.linkErr != nil {
		return 0, m.linkErr
	}
	added := 0
	for _, id := range tagIDs {
		if !containsID(m.adTags[adID], id) {
			m.adTags[adID] = append(m.adTags[adID], id)
			added++
		}
	}
	return added, nil
}

// tagSlugs returns the slugs linked to the ad with videoID, in link order.
func (m *memStore) tagSlugs(videoID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ad, ok := m.ads[videoID]
	if !ok {
		return nil
	}
	var out []string
	for _, id := range m.adTags[ad.ID] {
		for _, t := range m.tags {
			if t.ID == id {
				out = append(out, t.Slug)
			}
		}
	}
	return out
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type brandStoreFunc func(ctx context.Context, name, slug string) (*domain.Brand, bool, error)

func (f brandStoreFunc) GetOrCreate(ctx context.Context, name, slug string) (*domain.Brand, bool, error) {
	return f(ctx, name, slug)
}

type agencyStoreFunc func(ctx context.Context, name, slug string) (*domain.Agency, bool, error)

func (f agencyStoreFunc) GetOrCreate(ctx context.Context, name, slug string) (*domain.Agency, bool, error) {
	return f(ctx, name, slug)
}

type tagStoreFunc func(ctx context.Context, name, slug string) (*domain.Tag, bool, error)

func (f tagStoreFunc) GetOrCreate(ctx context.Context, name, slug string) (*domain.Tag, bool, error) {
	return f(ctx, name, slug)
}
