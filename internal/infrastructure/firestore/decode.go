package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
)

// decodeEach converts every input with decode. Inputs that fail are reported
// to skip and left out; the rest keep their order.
func decodeEach[S, T any](inputs []S, decode func(S) (T, error), skip func(S, error)) []T {
	out := make([]T, 0, len(inputs))
	for _, in := range inputs {
		v, err := decode(in)
		if err != nil {
			skip(in, err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// decodeDocs decodes a collection snapshot, skipping and logging corrupt records.
func decodeDocs[T any](logger *zap.Logger, docs []*firestore.DocumentSnapshot, decode func(*firestore.DocumentSnapshot) (T, error)) []T {
	return decodeEach(docs, decode, func(doc *firestore.DocumentSnapshot, err error) {
		logger.Warn("skipping undecodable document",
			zap.String("path", doc.Ref.Path),
			zap.Error(err),
		)
	})
}

// decodeAs builds a snapshot decoder from a document struct D and its
// conversion to the domain type.
func decodeAs[D any, T any](convert func(d *D, id string) (T, error)) func(*firestore.DocumentSnapshot) (T, error) {
	return func(doc *firestore.DocumentSnapshot) (T, error) {
		var d D
		if err := doc.DataTo(&d); err != nil {
			var zero T
			return zero, fmt.Errorf("decode %s: %w", doc.Ref.ID, err)
		}
		return convert(&d, doc.Ref.ID)
	}
}

// listCollection reads the full current set of a user collection.
func listCollection[T any](ctx context.Context, logger *zap.Logger, coll *firestore.CollectionRef, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	docs, err := coll.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", coll.Path, err)
	}
	return decodeDocs(logger, docs, decode), nil
}
