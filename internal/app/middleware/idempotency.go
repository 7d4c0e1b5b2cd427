package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"vacationrental/internal/app/commands"
	"vacationrental/internal/domain/shared/errs"
)

// IdempotentCommand must be implemented by commands that want idempotency guarantees.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	ResultPrototype() any // should match the handler result type
}

// IdempotencyRecord is the stored outcome of a keyed command. Fingerprint
// identifies the command content the key was first used with; Pending marks a
// reservation whose command has not settled yet.
type IdempotencyRecord struct {
	Key         string
	Fingerprint string
	Pending     bool
	Payload     []byte
	Error       string
	ErrorKind   string
	OccurredAt  time.Time
}

// IdempotencyStore must make Reserve atomic: of two concurrent calls for one
// key exactly one gets found == false.
type IdempotencyStore interface {
	// Reserve stores rec unless a record for rec.Key exists, in which case it
	// returns that record and true.
	Reserve(ctx context.Context, rec IdempotencyRecord) (IdempotencyRecord, bool, error)
	// Save replaces the reservation with the settled outcome.
	Save(ctx context.Context, rec IdempotencyRecord) error
	// Release drops a pending reservation so the key can be retried.
	Release(ctx context.Context, key string) error
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONResultCodec) Decode(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

var (
	errMissingPrototype = errors.New("middleware: idempotent command requires result prototype")

	ErrIdempotencyInProgress = fmt.Errorf("%w: idempotency key is in use by a request still in progress", errs.ErrConflict)
	ErrIdempotencyKeyReused  = fmt.Errorf("%w: idempotency key was used with a different request", errs.ErrInvalidInput)
)

// Idempotency replays the stored outcome of a command whose key was seen
// before. Keys are scoped by command so one key cannot replay another
// command's result, and a key reserved by an unsettled request is refused.
func Idempotency(store IdempotencyStore, codec ResultCodec) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	if codec == nil {
		codec = JSONResultCodec{}
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok || idCmd.IdempotencyKey() == "" {
				return next.Dispatch(ctx, cmd)
			}
			fingerprint, err := fingerprintOf(codec, cmd)
			if err != nil {
				return nil, err
			}
			key := cmd.Key() + ":" + idCmd.IdempotencyKey()
			rec, found, err := store.Reserve(ctx, IdempotencyRecord{
				Key:         key,
				Fingerprint: fingerprint,
				Pending:     true,
				OccurredAt:  time.Now().UTC(),
			})
			if err != nil {
				return nil, err
			}
			if found {
				return replay(rec, fingerprint, idCmd, codec)
			}

			result, err := next.Dispatch(ctx, cmd)
			record := IdempotencyRecord{
				Key:         key,
				Fingerprint: fingerprint,
				OccurredAt:  time.Now().UTC(),
			}
			if err != nil {
				// Only settled rejections are replayable; infrastructure failures may be retried.
				kind := errs.Kind(err)
				if kind == nil {
					if relErr := store.Release(ctx, key); relErr != nil {
						return nil, errors.Join(err, relErr)
					}
					return nil, err
				}
				record.Error = err.Error()
				record.ErrorKind = kind.Error()
				if saveErr := store.Save(ctx, record); saveErr != nil {
					return nil, errors.Join(err, saveErr)
				}
				return nil, err
			}
			if result != nil {
				payload, encErr := codec.Encode(result)
				if encErr != nil {
					_ = store.Release(ctx, key)
					return nil, encErr
				}
				record.Payload = payload
			}
			if saveErr := store.Save(ctx, record); saveErr != nil {
				return nil, saveErr
			}
			return result, nil
		})
	}
}

func replay(rec IdempotencyRecord, fingerprint string, cmd IdempotentCommand, codec ResultCodec) (any, error) {
	if rec.Fingerprint != "" && rec.Fingerprint != fingerprint {
		return nil, ErrIdempotencyKeyReused
	}
	if rec.Pending {
		return nil, ErrIdempotencyInProgress
	}
	if rec.Error != "" {
		return nil, replayedError(rec)
	}
	proto := cmd.ResultPrototype()
	if proto == nil {
		return nil, errMissingPrototype
	}
	if err := codec.Decode(rec.Payload, proto); err != nil {
		return nil, err
	}
	return normalizePrototype(proto), nil
}

// fingerprintOf hashes the encoded command, idempotency key included.
func fingerprintOf(codec ResultCodec, cmd commands.Command) (string, error) {
	raw, err := codec.Encode(cmd)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// replayedError keeps the recorded kind so boundary mapping is unchanged on replay.
func replayedError(rec IdempotencyRecord) error {
	msg := errors.New(rec.Error)
	for _, kind := range []error{errs.ErrInvalidInput, errs.ErrNotFound, errs.ErrConflict} {
		if kind.Error() == rec.ErrorKind {
			return &replayError{kind: kind, msg: msg}
		}
	}
	return msg
}

type replayError struct {
	kind error
	msg  error
}

func (e *replayError) Error() string { return e.msg.Error() }
func (e *replayError) Unwrap() error { return e.kind }

func normalizePrototype(proto any) any {
	rv := reflect.ValueOf(proto)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Interface()
	}
	return proto
}
