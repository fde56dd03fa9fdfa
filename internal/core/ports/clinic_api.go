package ports

import (
	"context"

	"github.com/ayursutra/clinic/internal/core/domain"
)

// Collection is the client view of one REST collection of the clinic API.
// Create and Update take the subset of fields the caller writes; the server
// returns the resulting record.
type Collection[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, fields any) (*T, error)
	Update(ctx context.Context, id string, fields any) (*T, error)
	Delete(ctx context.Context, id string) (domain.Result, error)
}

// ClinicAPI is everything the portal needs from the clinic backend.
type ClinicAPI interface {
	Patients() Collection[domain.Patient]
	Therapies() Collection[domain.Therapy]
	Notifications() Collection[domain.Notification]
	SendEmail(ctx context.Context, email domain.Email) (domain.Result, error)
}
