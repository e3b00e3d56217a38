package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const orderField = "registerDate"

// documents is the shared Firestore access for one collection of T.
type documents[T any] struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
	decode     func(snap *firestore.DocumentSnapshot, now time.Time) (T, error)
}

func (d documents[T]) ordered() firestore.Query {
	return d.client.Collection(d.collection).OrderBy(orderField, firestore.Desc)
}

func (d documents[T]) list(ctx context.Context) ([]T, error) {
	iter := d.ordered().Documents(ctx)
	defer iter.Stop()

	now := d.now()
	out := make([]T, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", d.collection, mapErr(err))
		}
		v, err := d.decode(snap, now)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", d.collection, snap.Ref.ID, err)
		}
		out = append(out, v)
	}
}

// subscribe streams full result sets until ctx is cancelled. Every emission
// replaces the previous one.
func (d documents[T]) subscribe(ctx context.Context, fn func([]T)) error {
	it := d.ordered().Snapshots(ctx)
	defer it.Stop()

	for {
		qs, err := it.Next()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if status.Code(err) == codes.Canceled {
				return context.Canceled
			}
			return fmt.Errorf("watch %s: %w", d.collection, mapErr(err))
		}
		snaps, err := qs.Documents.GetAll()
		if err != nil {
			return fmt.Errorf("read %s snapshot: %w", d.collection, mapErr(err))
		}
		now := d.now()
		items := make([]T, 0, len(snaps))
		for _, snap := range snaps {
			v, err := d.decode(snap, now)
			if err != nil {
				return fmt.Errorf("decode %s/%s: %w", d.collection, snap.Ref.ID, err)
			}
			items = append(items, v)
		}
		fn(items)
	}
}

// get returns nil when the document does not exist.
func (d documents[T]) get(ctx context.Context, id string) (*T, error) {
	snap, err := d.client.Collection(d.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s/%s: %w", d.collection, id, mapErr(err))
	}
	v, err := d.decode(snap, d.now())
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", d.collection, id, err)
	}
	return &v, nil
}

func (d documents[T]) create(ctx context.Context, id string, data any) error {
	if _, err := d.client.Collection(d.collection).Doc(id).Create(ctx, data); err != nil {
		return fmt.Errorf("create %s/%s: %w", d.collection, id, mapErr(err))
	}
	return nil
}

// update patches the given fields and stamps a server-side updatedAt.
func (d documents[T]) update(ctx context.Context, id string, fields map[string]any) error {
	if _, err := d.client.Collection(d.collection).Doc(id).Update(ctx, toUpdates(fields)); err != nil {
		return fmt.Errorf("update %s/%s: %w", d.collection, id, mapErr(err))
	}
	return nil
}

func toUpdates(fields map[string]any) []firestore.Update {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == "updatedAt" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ups := make([]firestore.Update, 0, len(keys)+1)
	for _, k := range keys {
		ups = append(ups, firestore.Update{Path: k, Value: fields[k]})
	}
	return append(ups, firestore.Update{Path: "updatedAt", Value: firestore.ServerTimestamp})
}
