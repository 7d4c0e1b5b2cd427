package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renameCommand struct{ Name string }

func (renameCommand) Key() string { return "test.rename" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestRegisterAndDispatch(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[renameCommand, string](bus, HandlerFunc[renameCommand, string](func(_ context.Context, cmd renameCommand) (string, error) {
		return "hello " + cmd.Name, nil
	}))

	got, err := Dispatch[renameCommand, string](context.Background(), bus, renameCommand{Name: "ann"})
	require.NoError(t, err)
	assert.Equal(t, "hello ann", got)
	assert.Equal(t, []string{"test.rename"}, bus.Keys())
}

func TestDispatchErrors(t *testing.T) {
	bus := NewInMemoryBus()
	_, err := bus.Dispatch(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	RegisterHandler[renameCommand, string](bus, HandlerFunc[renameCommand, string](func(context.Context, renameCommand) (string, error) {
		return "x", nil
	}))
	_, err = Dispatch[renameCommand, int](context.Background(), bus, renameCommand{})
	assert.ErrorIs(t, err, ErrResultType)

	_, err = Dispatch[renameCommand, string](context.Background(), nil, renameCommand{})
	assert.ErrorIs(t, err, ErrNilBus)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	bus := NewInMemoryBus()
	h := HandlerFunc[renameCommand, string](func(context.Context, renameCommand) (string, error) { return "", nil })
	RegisterHandler[renameCommand, string](bus, h)
	assert.Panics(t, func() { RegisterHandler[renameCommand, string](bus, h) })
}
