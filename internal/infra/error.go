package infra

import (
	"errors"
	"log/slog"

	"room-allocation-engine/internal/pkg/errs"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind   RepositoryErrorKind
	Entity string
	msg    string
	err    error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	s := string(e.Kind) + ": " + e.Entity
	if e.msg != "" {
		s += ": " + e.msg
	}
	if e.err != nil {
		s += ": " + e.err.Error()
	}
	return s
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// Is lets usecases classify storage outcomes against the errs sentinels without importing infra.
// Constraint violations only surface when the database backstop catches what the locks should have.
func (e RepositoryError) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == errs.ErrNotFound
	case KindOverlapViolated:
		return target == errs.ErrRoomConflict
	case KindForeignKeyViolated:
		return target == errs.ErrRoomInUse
	default:
		return false
	}
}

func NotFound(entity, id string) error {
	return RepositoryError{Kind: KindNotFound, Entity: entity, msg: id}
}

// WrapRepoErr logs and classifies a storage failure.
func WrapRepoErr(logger *slog.Logger, kind RepositoryErrorKind, entity, msg string, err error) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("repository error",
		slog.String("kind", string(kind)),
		slog.String("entity", entity),
		slog.String("op", msg),
		slog.Any("error", err),
	)

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, Entity: entity, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindOverlapViolated    RepositoryErrorKind = "OVERLAP_VIOLATED"
)
