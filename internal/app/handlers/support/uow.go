package support

import (
	"context"

	"vacationrental/internal/app/uow"
)

// BeginReadOnlyUnit reuses the unit already bound to ctx or starts a read-only
// one. cleanup is nil when the unit came from ctx.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, func(), error) {
	unit, ok := uow.FromContext(ctx)
	if ok {
		return unit, ctx, nil, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	newUnit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx := uow.Bind(ctx, newUnit)
	cleanup := func() {
		_ = newUnit.Rollback(execCtx)
	}
	return newUnit, execCtx, cleanup, nil
}

// ManagedUnit is a write unit a handler started itself because none was bound
// to the context. Commit and Close are no-ops for borrowed units.
type ManagedUnit struct {
	uow.UnitOfWork
	Ctx       context.Context
	managed   bool
	committed bool
}

// BeginWriteUnit reuses the unit bound to ctx (e.g. by the transaction
// middleware) or starts one the caller must Commit and Close.
func BeginWriteUnit(ctx context.Context, factory uow.UoWFactory) (*ManagedUnit, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return &ManagedUnit{UnitOfWork: unit, Ctx: ctx}, nil
	}
	if factory == nil {
		return nil, uow.ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &ManagedUnit{UnitOfWork: unit, Ctx: uow.Bind(ctx, unit), managed: true}, nil
}

func (m *ManagedUnit) Commit() error {
	if !m.managed {
		return nil
	}
	if err := m.UnitOfWork.Commit(m.Ctx); err != nil {
		return err
	}
	m.committed = true
	return nil
}

// Close rolls back a managed unit that was not committed.
func (m *ManagedUnit) Close() {
	if m.managed && !m.committed {
		_ = m.UnitOfWork.Rollback(m.Ctx)
	}
}
