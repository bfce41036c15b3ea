package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
)

var SqBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var ErrBadQuery = errors.New("bad query")

// SQLSTATE codes the repositories map to domain errors.
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)

// Storage tags a driver failure with the storage code and the operation name.
func Storage(op string, err error) error {
	return apperrors.WrapWithCode(err, apperrors.CodeStorage, op)
}
