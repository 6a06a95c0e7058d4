package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is a unique constraint violation.
	ErrDuplicate = errors.New("unique constraint violated")
	// ErrReference is a foreign key violation: a referenced row is missing,
	// or a row being deleted is still referenced.
	ErrReference = errors.New("foreign key constraint violated")
	// ErrCheck is a check constraint violation.
	ErrCheck = errors.New("check constraint violated")
)

// postgres SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// ConstraintError reports which constraint rejected a write.
type ConstraintError struct {
	Kind       error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Kind, e.Constraint)
}

func (e *ConstraintError) Is(target error) bool { return target == e.Kind }

func (e *ConstraintError) Unwrap() error { return e.Err }

// translate maps driver and gorm errors onto the repository sentinels.
// Errors it does not recognise are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ConstraintError{Kind: ErrDuplicate, Constraint: pgErr.ConstraintName, Err: err}
		case pgForeignKeyViolation:
			return &ConstraintError{Kind: ErrReference, Constraint: pgErr.ConstraintName, Err: err}
		case pgCheckViolation:
			return &ConstraintError{Kind: ErrCheck, Constraint: pgErr.ConstraintName, Err: err}
		}
	}

	// dialectors with TranslateError enabled
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConstraintError{Kind: ErrDuplicate, Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ConstraintError{Kind: ErrReference, Err: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &ConstraintError{Kind: ErrCheck, Err: err}
	}
	return err
}

// ConstraintName returns the violated constraint name, or "" if err is not a constraint error.
func ConstraintName(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}

// create inserts row inside its own transaction.
func create[T any](ctx context.Context, db *gorm.DB, row *T) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
	return translate(err)
}

// mutate locks the row with the given id, lets fn change it and saves it,
// all in one transaction. If fn fails nothing is written and fn's error is
// returned as is.
func mutate[T any](ctx context.Context, db *gorm.DB, id int64, fn func(row *T) error) (*T, error) {
	var row T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error; err != nil {
			return err
		}
		if err := fn(&row); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(&row).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// remove deletes the row with the given id in one transaction. check, when
// non-nil, sees the locked row first and can veto the delete.
func remove[T any](ctx context.Context, db *gorm.DB, id int64, check func(row *T) error) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row T
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, id).Error; err != nil {
			return err
		}
		if check != nil {
			if err := check(&row); err != nil {
				return err
			}
		}
		return tx.Delete(&row).Error
	})
	return translate(err)
}
