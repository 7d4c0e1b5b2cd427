package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "vacationrental/internal/domain/booking"
	domainrentals "vacationrental/internal/domain/rentals"
)

const bookingSequence = "bookings"

type BookingRepository struct {
	col      *mongo.Collection
	counters *Counters
}

func NewBookingRepository(db *mongo.Database, counters *Counters) *BookingRepository {
	return &BookingRepository{col: db.Collection("agg_booking"), counters: counters}
}

func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "rental_id", Value: 1}, {Key: "_id", Value: 1}}}
	_, err := r.col.Indexes().CreateOne(ctx, idx)
	return err
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": int(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, translate(err)
	}
	return doc.toAggregate(), nil
}

// ListByRental returns bookings in ascending id order, which is creation order.
func (r *BookingRepository) ListByRental(ctx context.Context, rentalID domainrentals.RentalID) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"rental_id": int(rentalID)}, opts)
	if err != nil {
		return nil, translate(err)
	}
	defer cur.Close(ctx)
	out := make([]*domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	if err := cur.Err(); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) (domainbooking.BookingID, error) {
	seq, err := r.counters.Next(ctx, bookingSequence)
	if err != nil {
		return 0, err
	}
	doc := newBookingDocument(b)
	doc.ID = seq
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return 0, translate(err)
	}
	return domainbooking.BookingID(seq), nil
}

type bookingDocument struct {
	ID        int   `bson:"_id"`
	RentalID  int   `bson:"rental_id"`
	Start     int64 `bson:"start"`
	Nights    int   `bson:"nights"`
	CreatedAt int64 `bson:"created_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:        int(b.ID),
		RentalID:  int(b.RentalID),
		Start:     b.Start.UnixMilli(),
		Nights:    b.Nights,
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:        domainbooking.BookingID(d.ID),
		RentalID:  domainrentals.RentalID(d.RentalID),
		Start:     timestampToTime(d.Start),
		Nights:    d.Nights,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
