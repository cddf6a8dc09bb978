package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"finpulse/internal/shared/stream"
)

// watchCollection emits the full decoded set of coll on every change.
// The snapshot listener is stopped when the subscription closes.
func watchCollection[T any](ctx context.Context, logger *zap.Logger, coll *firestore.CollectionRef, decode func(*firestore.DocumentSnapshot) (T, error)) stream.Subscription[[]T] {
	return stream.New(ctx, func(ctx context.Context, emit func([]T) bool) error {
		it := coll.Snapshots(ctx)
		defer it.Stop()

		logger.Debug("listener attached", zap.String("path", coll.Path))
		defer logger.Debug("listener detached", zap.String("path", coll.Path))

		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return nil
				}
				return fmt.Errorf("listener on %s failed: %w", coll.Path, err)
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				return fmt.Errorf("failed to read snapshot of %s: %w", coll.Path, err)
			}
			if !emit(decodeDocs(logger, docs, decode)) {
				return nil
			}
		}
	})
}

// watchUserCollection guards against an anonymous caller: without a uid the
// feed emits one empty set instead of attaching a listener.
func watchUserCollection[T any](ctx context.Context, s *Store, uid, name string, decode func(*firestore.DocumentSnapshot) (T, error)) stream.Subscription[[]T] {
	if uid == "" {
		return stream.Just(ctx, []T{})
	}
	return watchCollection(ctx, s.logger, s.userCollection(uid, name), decode)
}

func listUserCollection[T any](ctx context.Context, s *Store, uid, name string, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	if uid == "" {
		return []T{}, nil
	}
	return listCollection(ctx, s.logger, s.userCollection(uid, name), decode)
}
