package medicalhistory

import "context"

// Store es el backend de historias clínicas.
// ListByPet devuelve los registros del más reciente al más antiguo; ese orden importa
// para el fallback de FindExistingRecord.
// Update y Delete devuelven ErrNotFound si el id no existe.
type Store interface {
	ListByPet(ctx context.Context, petID string, page Page) ([]Record, error)
	Create(ctx context.Context, r Record) (Record, error)
	Update(ctx context.Context, r Record) (Record, error)
	Delete(ctx context.Context, id string) error
}
