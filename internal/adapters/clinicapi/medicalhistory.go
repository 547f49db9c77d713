package clinicapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"vet-clinic-console/internal/domain/medicalhistory"
)

type MedicalHistoryRepo struct {
	c *Client
}

func NewMedicalHistoryRepo(c *Client) *MedicalHistoryRepo {
	return &MedicalHistoryRepo{c: c}
}

// ListByPet conserva el orden del backend (más reciente primero).
func (r *MedicalHistoryRepo) ListByPet(ctx context.Context, petID string, page medicalhistory.Page) ([]medicalhistory.Record, error) {
	q := url.Values{}
	if page.Page > 0 {
		q.Set("page", strconv.Itoa(page.Page))
	}
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
	}

	var list historyList
	if err := r.c.http.DoJSON(ctx, http.MethodGet, "/medical-history/pet/"+url.PathEscape(petID), q, nil, &list); err != nil {
		mapped := mapErr(err, medicalhistory.ErrNotFound)
		// mascota sin historia: algunos backends responden 404
		if errors.Is(mapped, medicalhistory.ErrNotFound) {
			return []medicalhistory.Record{}, nil
		}
		return nil, mapped
	}

	out := make([]medicalhistory.Record, 0, len(list))
	for _, it := range list {
		out = append(out, it.Record)
	}
	return out, nil
}

func (r *MedicalHistoryRepo) Create(ctx context.Context, rec medicalhistory.Record) (medicalhistory.Record, error) {
	var out historyDTO
	if err := r.c.http.DoJSON(ctx, http.MethodPost, "/medical-history", nil, toPayload(rec), &out); err != nil {
		return medicalhistory.Record{}, mapErr(err, medicalhistory.ErrNotFound)
	}
	return merge(rec, out.Record), nil
}

func (r *MedicalHistoryRepo) Update(ctx context.Context, rec medicalhistory.Record) (medicalhistory.Record, error) {
	var out historyDTO
	if err := r.c.http.DoJSON(ctx, http.MethodPut, "/medical-history/"+url.PathEscape(rec.ID), nil, toPayload(rec), &out); err != nil {
		return medicalhistory.Record{}, mapErr(err, medicalhistory.ErrNotFound)
	}
	return merge(rec, out.Record), nil
}

func (r *MedicalHistoryRepo) Delete(ctx context.Context, id string) error {
	err := r.c.http.DoJSON(ctx, http.MethodDelete, "/medical-history/"+url.PathEscape(id), nil, nil, nil)
	return mapErr(err, medicalhistory.ErrNotFound)
}

// merge: si el backend devuelve el registro se usa ese (id y timestamps del
// servidor); si responde vacío queda lo que se mandó.
func merge(sent, got medicalhistory.Record) medicalhistory.Record {
	if got.ID == "" {
		return sent
	}
	if got.CreatedAt.IsZero() {
		got.CreatedAt = sent.CreatedAt
	}
	if got.UpdatedAt.IsZero() {
		got.UpdatedAt = sent.UpdatedAt
	}
	return got
}
