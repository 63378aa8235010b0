package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"hotel-reservation/apperror"
)

// mapError converts driver and gorm errors into apperror kinds. Errors that
// already carry a kind pass through untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("record not found")
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, driver.ErrBadConn) {
		return apperror.StoreUnavailable(err)
	}
	if isForeignKeyError(err) {
		return apperror.InvalidInput("referenced record does not exist")
	}
	if isDuplicateError(err) {
		return apperror.Conflict("record already exists")
	}
	return apperror.StoreUnavailable(err)
}

// notFound names the missing entity instead of the generic gorm message.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("%s not found", entity)
	}
	return mapError(err)
}

func isForeignKeyError(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1452
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
