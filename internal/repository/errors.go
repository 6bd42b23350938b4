package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("repository: duplicate key")
	// ErrForeignKey is returned when a referenced row does not exist.
	ErrForeignKey = errors.New("repository: foreign key violation")
	// ErrSerialization is returned when the database aborts a transaction
	// because of a concurrent update or a deadlock.
	ErrSerialization = errors.New("repository: serialization failure")
	// ErrOutOfRange is returned when a numeric value overflows its column.
	ErrOutOfRange = errors.New("repository: value out of range")
)

// SQLSTATE codes inspected on PostgreSQL errors.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgNumericOutOfRange    = "22003"
)

// MySQL error numbers inspected on MySQL errors.
const (
	myDuplicateEntry  = 1062
	myNoReferencedRow = 1452
	myLockWaitTimeout = 1205
	myDeadlock        = 1213
	myOutOfRangeValue = 1264
)

// translateError maps driver errors onto the repository sentinels. Errors it
// does not recognize, including gorm.ErrRecordNotFound, pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %v", ErrForeignKey, err)
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		case pgNumericOutOfRange:
			return fmt.Errorf("%w: %v", ErrOutOfRange, err)
		}
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case myDuplicateEntry:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case myNoReferencedRow:
			return fmt.Errorf("%w: %v", ErrForeignKey, err)
		case myLockWaitTimeout, myDeadlock:
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		case myOutOfRangeValue:
			return fmt.Errorf("%w: %v", ErrOutOfRange, err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	case strings.Contains(msg, "database is locked"):
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	return err
}

// deleteResult turns a zero-row delete into gorm.ErrRecordNotFound.
func deleteResult(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
