package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// nextID allocates the next int64 ID for an entity using a transactional
// counter document.
func nextID(ctx context.Context, client *firestore.Client, collection, doc string) (int64, error) {
	counterRef := client.Collection(collection).Doc(doc)

	var id int64
	err := client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snapshot, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				id = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": id,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := snapshot.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		id = currentValue.(int64) + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: id},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to allocate next ID")
	}

	return id, nil
}

func prefixed(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}
