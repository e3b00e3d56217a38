package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"virtual-vr-console/internal/domain"
)

// AdminRepo represents the administrator collection. Administrators have no
// registerDate, so the collection is only read by id.
type AdminRepo struct{ docs documents[domain.Admin] }

// NewAdminRepo creates a new AdminRepo.
func NewAdminRepo(client *firestore.Client) *AdminRepo {
	return &AdminRepo{docs: documents[domain.Admin]{
		client:     client,
		collection: domain.CollectionAdmins,
		now:        time.Now,
		decode: func(snap *firestore.DocumentSnapshot, now time.Time) (domain.Admin, error) {
			var a domain.Admin
			if err := snap.DataTo(&a); err != nil {
				return domain.Admin{}, err
			}
			a.ID = snap.Ref.ID
			a.Normalize(now)
			return a, nil
		},
	}}
}

func (r *AdminRepo) Get(ctx context.Context, id string) (*domain.Admin, error) {
	return r.docs.get(ctx, id)
}

func (r *AdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	return r.docs.create(ctx, a.ID, a)
}
