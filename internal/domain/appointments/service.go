package appointments

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("appointment not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id string) (Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Appointment{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// SetStatus persiste el nuevo estado. Es la única mutación que hace el console.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	id = strings.TrimSpace(id)
	if id == "" || !status.Valid() {
		return ErrInvalidInput
	}
	return s.repo.SetStatus(ctx, id, status)
}
