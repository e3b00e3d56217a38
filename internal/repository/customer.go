package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"virtual-vr-console/internal/domain"
)

// CustomerRepo represents the customer collection.
type CustomerRepo struct{ docs documents[domain.Customer] }

// NewCustomerRepo creates a new CustomerRepo.
func NewCustomerRepo(client *firestore.Client) *CustomerRepo {
	return &CustomerRepo{docs: documents[domain.Customer]{
		client:     client,
		collection: domain.CollectionUsers,
		now:        time.Now,
		decode:     decodeCustomer,
	}}
}

func decodeCustomer(snap *firestore.DocumentSnapshot, now time.Time) (domain.Customer, error) {
	var c domain.Customer
	if err := snap.DataTo(&c); err != nil {
		return domain.Customer{}, err
	}
	c.ID = snap.Ref.ID
	c.Normalize(now)
	return c, nil
}

func (r *CustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	return r.docs.list(ctx)
}

func (r *CustomerRepo) Subscribe(ctx context.Context, fn func([]domain.Customer)) error {
	return r.docs.subscribe(ctx, fn)
}

func (r *CustomerRepo) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return r.docs.get(ctx, id)
}

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	return r.docs.create(ctx, c.ID, c)
}

func (r *CustomerRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.docs.update(ctx, id, fields)
}
