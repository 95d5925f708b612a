package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestViolationHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	if !IsUniqueViolation(unique) || IsForeignKeyViolation(unique) {
		t.Errorf("wrapped unique violation misclassified")
	}
	if !IsForeignKeyViolation(fk) || IsUniqueViolation(fk) {
		t.Errorf("foreign key violation misclassified")
	}
	if IsUniqueViolation(nil) || IsUniqueViolation(errors.New("plain")) {
		t.Errorf("non-postgres errors must not match")
	}
}
