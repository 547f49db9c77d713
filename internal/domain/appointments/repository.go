package appointments

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Appointment, error)
	SetStatus(ctx context.Context, id string, status Status) error
}
