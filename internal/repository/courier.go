package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"virtual-vr-console/internal/domain"
)

// CourierRepo represents the courier collection.
type CourierRepo struct{ docs documents[domain.Courier] }

// NewCourierRepo creates a new CourierRepo.
func NewCourierRepo(client *firestore.Client) *CourierRepo {
	return &CourierRepo{docs: documents[domain.Courier]{
		client:     client,
		collection: domain.CollectionDeliveries,
		now:        time.Now,
		decode:     decodeCourier,
	}}
}

func decodeCourier(snap *firestore.DocumentSnapshot, now time.Time) (domain.Courier, error) {
	var c domain.Courier
	if err := snap.DataTo(&c); err != nil {
		return domain.Courier{}, err
	}
	c.ID = snap.Ref.ID
	c.Normalize(now)
	return c, nil
}

// List returns every courier, newest registration first.
func (r *CourierRepo) List(ctx context.Context) ([]domain.Courier, error) {
	return r.docs.list(ctx)
}

// Subscribe calls fn with the full, newest-first courier list on every change
// until ctx is cancelled.
func (r *CourierRepo) Subscribe(ctx context.Context, fn func([]domain.Courier)) error {
	return r.docs.subscribe(ctx, fn)
}

// Get - returns courier by its ID, or nil when absent.
func (r *CourierRepo) Get(ctx context.Context, id string) (*domain.Courier, error) {
	return r.docs.get(ctx, id)
}

// Create writes a new courier document keyed by its auth uid.
func (r *CourierRepo) Create(ctx context.Context, c *domain.Courier) error {
	return r.docs.create(ctx, c.ID, c)
}

// Update patches the given fields.
func (r *CourierRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.docs.update(ctx, id, fields)
}
