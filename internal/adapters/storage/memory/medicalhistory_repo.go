package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"vet-clinic-console/internal/domain/medicalhistory"
)

type medicalHistoryRepo struct {
	mu   sync.RWMutex
	byID map[string]medicalhistory.Record

	// seq desempata registros con el mismo created_at
	seq   int
	order map[string]int
}

func NewMedicalHistoryRepo() medicalhistory.Store {
	return &medicalHistoryRepo{
		byID:  make(map[string]medicalhistory.Record),
		order: make(map[string]int),
	}
}

func (r *medicalHistoryRepo) Create(ctx context.Context, rec medicalhistory.Record) (medicalhistory.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return medicalhistory.Record{}, errors.New("medical history id required")
	}
	if _, exists := r.byID[rec.ID]; exists {
		return medicalhistory.Record{}, errors.New("medical history record already exists")
	}

	r.seq++
	r.order[rec.ID] = r.seq
	r.byID[rec.ID] = rec
	return rec, nil
}

func (r *medicalHistoryRepo) Update(ctx context.Context, rec medicalhistory.Record) (medicalhistory.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[rec.ID]
	if !exists {
		return medicalhistory.Record{}, medicalhistory.ErrNotFound
	}
	rec.CreatedAt = prev.CreatedAt
	r.byID[rec.ID] = rec
	return rec, nil
}

func (r *medicalHistoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return medicalhistory.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.order, id)
	return nil
}

func (r *medicalHistoryRepo) ListByPet(ctx context.Context, petID string, page medicalhistory.Page) ([]medicalhistory.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]medicalhistory.Record, 0)
	for _, rec := range r.byID {
		if rec.PetID == petID {
			out = append(out, rec)
		}
	}

	// Más reciente primero, igual que el backend
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.order[out[i].ID] > r.order[out[j].ID]
	})

	return paginate(out, page), nil
}

func paginate(items []medicalhistory.Record, page medicalhistory.Page) []medicalhistory.Record {
	if page.Limit <= 0 {
		return items
	}
	p := page.Page
	if p <= 0 {
		p = 1
	}
	start := (p - 1) * page.Limit
	if start >= len(items) {
		return []medicalhistory.Record{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
