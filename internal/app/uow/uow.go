package uow

import (
	"context"

	"vacationrental/internal/app/outbox"
	domainbooking "vacationrental/internal/domain/booking"
	domainrentals "vacationrental/internal/domain/rentals"
)

//go:generate go run go.uber.org/mock/mockgen -source=uow.go -destination=mocks/uow.go -package=mocks

// UnitOfWork coordinates repositories inside a transaction boundary.
// The availability decision and the write it guards share one unit.
type UnitOfWork interface {
	Rentals() domainrentals.Repository
	Bookings() domainbooking.Repository
	Outbox() outbox.Outbox

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
