package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostgresDetail is the server-side diagnostic carried by a driver error.
type PostgresDetail struct {
	Code       string
	Constraint string
	Table      string
	Detail     string
	Message    string
}

// ErrorDump is a flattened error chain for structured logs.
type ErrorDump struct {
	Message  string
	Code     Code
	Chain    []string
	Postgres *PostgresDetail
	Mongo    []int
}

// Fields renders the dump as logger fields, omitting empty sections.
func (d ErrorDump) Fields() map[string]any {
	out := map[string]any{"error": d.Message, "error_chain": d.Chain}
	if d.Code != "" {
		out["error_code"] = d.Code
	}
	if pg := d.Postgres; pg != nil {
		out["pg_code"] = pg.Code
		out["pg_constraint"] = pg.Constraint
		out["pg_table"] = pg.Table
		out["pg_detail"] = pg.Detail
		out["pg_message"] = pg.Message
	}
	if len(d.Mongo) != 0 {
		out["mongo_codes"] = d.Mongo
	}
	return out
}

// Dump walks err's chain and pulls out the code plus any postgres (pgx or
// lib/pq) or mongo server details.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{Message: err.Error(), Code: codeOf(err)}
	for link := err; link != nil; link = errors.Unwrap(link) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", link, link))
	}
	d.Postgres = postgresDetail(err)
	if d.Postgres == nil {
		d.Mongo = mongoCodes(err)
	}
	return d
}

func codeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.code
	}
	return ""
}

func postgresDetail(err error) *PostgresDetail {
	if pgx := (*pgconn.PgError)(nil); errors.As(err, &pgx) {
		return &PostgresDetail{Code: pgx.Code, Constraint: pgx.ConstraintName, Table: pgx.TableName, Detail: pgx.Detail, Message: pgx.Message}
	}
	if pqErr := (*pq.Error)(nil); errors.As(err, &pqErr) {
		return &PostgresDetail{Code: string(pqErr.Code), Constraint: pqErr.Constraint, Table: pqErr.Table, Detail: pqErr.Detail, Message: pqErr.Message}
	}
	return nil
}

func mongoCodes(err error) []int {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return []int{int(cmdErr.Code)}
	}
	var writeErr mongo.WriteException
	if !errors.As(err, &writeErr) {
		return nil
	}
	codes := make([]int, 0, len(writeErr.WriteErrors)+1)
	for _, we := range writeErr.WriteErrors {
		codes = append(codes, we.Code)
	}
	if wc := writeErr.WriteConcernError; wc != nil {
		codes = append(codes, wc.Code)
	}
	return codes
}
