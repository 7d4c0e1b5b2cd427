package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrentals "vacationrental/internal/domain/rentals"
)

const rentalSequence = "rentals"

type RentalRepository struct {
	col      *mongo.Collection
	counters *Counters
}

func NewRentalRepository(db *mongo.Database, counters *Counters) *RentalRepository {
	return &RentalRepository{col: db.Collection("agg_rental"), counters: counters}
}

func (r *RentalRepository) ByID(ctx context.Context, id domainrentals.RentalID) (*domainrentals.Rental, error) {
	var doc rentalDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": int(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrentals.ErrRentalNotFound
		}
		return nil, translate(err)
	}
	return doc.toAggregate(), nil
}

// ByIDForUpdate writes to the rental document so that any other transaction
// doing the same before this one ends fails with a write conflict.
func (r *RentalRepository) ByIDForUpdate(ctx context.Context, id domainrentals.RentalID) (*domainrentals.Rental, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc rentalDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": int(id)}, bson.M{"$inc": bson.M{"lock_version": 1}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrentals.ErrRentalNotFound
		}
		return nil, translate(err)
	}
	return doc.toAggregate(), nil
}

func (r *RentalRepository) Create(ctx context.Context, rental *domainrentals.Rental) (domainrentals.RentalID, error) {
	seq, err := r.counters.Next(ctx, rentalSequence)
	if err != nil {
		return 0, err
	}
	id := domainrentals.RentalID(seq)
	doc := newRentalDocument(rental)
	doc.ID = seq
	doc.Version = 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return 0, translate(err)
	}
	rental.Version = doc.Version
	return id, nil
}

func (r *RentalRepository) Update(ctx context.Context, rental *domainrentals.Rental) error {
	doc := newRentalDocument(rental)
	doc.Version = rental.Version + 1
	filter := bson.M{"_id": doc.ID, "version": rental.Version}
	update := bson.M{"$set": bson.M{
		"units":                    doc.Units,
		"preparation_time_in_days": doc.PreparationTimeInDays,
		"updated_at":               doc.UpdatedAt,
		"version":                  doc.Version,
	}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.ByID(ctx, rental.ID); err != nil {
			return err
		}
		return ErrConcurrentUpdate
	}
	rental.Version = doc.Version
	return nil
}

type rentalDocument struct {
	ID                    int   `bson:"_id"`
	Units                 int   `bson:"units"`
	PreparationTimeInDays int   `bson:"preparation_time_in_days"`
	CreatedAt             int64 `bson:"created_at"`
	UpdatedAt             int64 `bson:"updated_at"`
	Version               int64 `bson:"version"`
	LockVersion           int64 `bson:"lock_version"`
}

func newRentalDocument(r *domainrentals.Rental) rentalDocument {
	return rentalDocument{
		ID:                    int(r.ID),
		Units:                 r.Units,
		PreparationTimeInDays: r.PreparationTimeInDays,
		CreatedAt:             r.CreatedAt.UnixMilli(),
		UpdatedAt:             r.UpdatedAt.UnixMilli(),
		Version:               r.Version,
	}
}

func (d rentalDocument) toAggregate() *domainrentals.Rental {
	return &domainrentals.Rental{
		ID:                    domainrentals.RentalID(d.ID),
		Units:                 d.Units,
		PreparationTimeInDays: d.PreparationTimeInDays,
		CreatedAt:             timestampToTime(d.CreatedAt),
		UpdatedAt:             timestampToTime(d.UpdatedAt),
		Version:               d.Version,
	}
}
