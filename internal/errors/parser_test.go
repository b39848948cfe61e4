package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{
			name:     "Nil error",
			err:      nil,
			context:  "anything",
			wantCode: InternalServerError,
		},
		{
			name:     "Record not found",
			err:      fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound),
			context:  "get restaurant",
			wantCode: ResourceNotFound,
		},
		{
			name:     "Translated duplicate key on email",
			err:      fmt.Errorf("UNIQUE constraint failed: users.email: %w", gorm.ErrDuplicatedKey),
			context:  "register user",
			wantCode: AuthEmailAlreadyExists,
		},
		{
			name:     "PostgreSQL unique violation",
			err:      &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
			context:  "register user",
			wantCode: AuthEmailAlreadyExists,
		},
		{
			name:     "PostgreSQL foreign key violation",
			err:      &pgconn.PgError{Code: "23503", ConstraintName: "fk_reservations_restaurant"},
			context:  "create reservation",
			wantCode: RestaurantNotFound,
		},
		{
			name:     "PostgreSQL not null violation",
			err:      &pgconn.PgError{Code: "23502", ColumnName: "name"},
			context:  "create restaurant",
			wantCode: ValidationRequired,
		},
		{
			name:     "Connection refused",
			err:      errors.New("dial tcp: connection refused"),
			context:  "list products",
			wantCode: InternalExternalAPI,
		},
		{
			name:     "Unknown error",
			err:      errors.New("boom"),
			context:  "create restaurant",
			wantCode: InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_NotFoundMessageUsesContext(t *testing.T) {
	info := ParseError(gorm.ErrRecordNotFound, "get restaurant")
	assert.Equal(t, "Restaurant not found", info.Message)

	info = ParseError(gorm.ErrRecordNotFound, "get product")
	assert.Equal(t, "Product not found", info.Message)
}
