package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code         Code
		status       int
		publicMsg    string
		retryable    bool
		detailsOK    bool
		clientFacing bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true, clientFacing: true},
		{code: CodeInvalidIdentifier, status: http.StatusBadRequest, publicMsg: "invalid identifier", clientFacing: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required", clientFacing: true},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied", clientFacing: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found", clientFacing: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "too many requests, please try again later", clientFacing: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
		if meta.ClientFacing != tt.clientFacing {
			t.Fatalf("code %s expected client facing %v got %v", tt.code, tt.clientFacing, meta.ClientFacing)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestValidationCarriesFieldDetails(t *testing.T) {
	err := Validation("invalid product", map[string]string{"price": "must be greater than 0"})
	if err.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", err.Code())
	}
	fields, ok := err.Details().(map[string]string)
	if !ok || fields["price"] == "" {
		t.Fatalf("expected field details, got %#v", err.Details())
	}

	if Validation("empty", nil).Details() != nil {
		t.Fatalf("details should be nil when no fields are supplied")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "db: insert product")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
	if wrapped.Error() != "DEPENDENCY_ERROR: db: insert product: boom" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}

func TestAsAndIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "product not found"))
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("As failed to return typed error")
	}
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected IsCode to match NOT_FOUND")
	}
	if IsCode(err, CodeInvalidIdentifier) {
		t.Fatalf("IsCode matched the wrong code")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpCapturesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "products_pkey", TableName: "products", Message: "duplicate key"}
	dump := Dump(Wrap(CodeDependency, pgErr, "db: insert product"))

	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if dump.Postgres == nil || dump.Postgres.Code != "23505" || dump.Postgres.Table != "products" {
		t.Fatalf("expected postgres fields, got %+v", dump)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two links in chain, got %d", len(dump.Chain))
	}
	fields := dump.Fields()
	if fields["pg_constraint"] != "products_pkey" {
		t.Fatalf("expected constraint in fields, got %v", fields)
	}
}

func TestDumpCapturesMongoWriteCodes(t *testing.T) {
	err := fmt.Errorf("insert interest: %w", mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}},
	})
	dump := Dump(err)
	if dump.Postgres != nil {
		t.Fatalf("unexpected postgres detail %+v", dump.Postgres)
	}
	if len(dump.Mongo) != 1 || dump.Mongo[0] != 11000 {
		t.Fatalf("expected mongo code 11000, got %v", dump.Mongo)
	}
	if _, ok := dump.Fields()["pg_code"]; ok {
		t.Fatalf("pg fields should be omitted")
	}
}

func TestDumpOfPlainError(t *testing.T) {
	dump := Dump(stdErrors.New("plain"))
	if dump.Code != "" || dump.Message != "plain" || len(dump.Chain) != 1 {
		t.Fatalf("unexpected dump %+v", dump)
	}
	if Dump(nil).Message != "" {
		t.Fatalf("nil error should dump empty")
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(CodeNotFound, "product %s not found", "abc")
	if err.Message() != "product abc not found" {
		t.Fatalf("unexpected message %q", err.Message())
	}
	if err.Error() != "NOT_FOUND: product abc not found" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}
