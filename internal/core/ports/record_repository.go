package ports

import (
	"context"

	"github.com/ayursutra/clinic/internal/core/domain"
)

// RecordRepository persists one collection of the reference clinic API.
// Update applies a partial set of fields and returns the stored record.
type RecordRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, rec T) (*T, error)
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id string) error
}

// RecordService is the use-case surface behind the REST collection handlers.
type RecordService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, rec T) (*T, error)
	Update(ctx context.Context, id string, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id string) (domain.Result, error)
}
