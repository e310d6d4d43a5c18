package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sequence hands out auto-incrementing integer IDs, one counter document per
// collection, so records keep the same integer identity as in the SQL store.
type sequence struct {
	coll *mongo.Collection
	name string
}

func newSequence(db *mongo.Database, name string) *sequence {
	return &sequence{coll: db.Collection(collectionCounters), name: name}
}

func (s *sequence) next(ctx context.Context) (int64, error) {
	id, err := s.increment(ctx)
	// Two concurrent upserts of a missing counter can collide on _id; the
	// loser retries against the document the winner created.
	if mongo.IsDuplicateKeyError(err) {
		id, err = s.increment(ctx)
	}
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", s.name, err)
	}
	return id, nil
}

func (s *sequence) increment(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": s.name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	return doc.Seq, err
}
