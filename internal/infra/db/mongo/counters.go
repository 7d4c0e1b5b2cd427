package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Counters issues sequential integer ids per named sequence.
type Counters struct {
	col *mongo.Collection
}

func NewCounters(db *mongo.Database) *Counters {
	return &Counters{col: db.Collection("counters")}
}

type counterDocument struct {
	ID    string `bson:"_id"`
	Value int    `bson:"value"`
}

// Next runs outside any session bound to ctx: an id allocation must not make
// unrelated transactions conflict on the counter document. Aborted
// transactions leave gaps in the sequence.
func (c *Counters) Next(ctx context.Context, name string) (int, error) {
	detached, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc counterDocument
	err := c.col.FindOneAndUpdate(detached, bson.M{"_id": name}, bson.M{"$inc": bson.M{"value": 1}}, opts).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Value, nil
}
