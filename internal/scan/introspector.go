package scan

import (
	"context"
	"fmt"
)

// ColumnInfo is one column as a backend reports it: name, 1-based
// ordinal position in the table definition, and the raw type string.
type ColumnInfo struct {
	Name    string
	Ordinal int
	Type    string
}

// Introspector is the capability set every backend implements against an
// already-open handle. The three operations are all the Scanner needs;
// supporting a new backend means implementing them and nothing else.
//
// Backends without a schema concept report their single database name as
// the one schema. ListColumns returns columns in ordinal order.
type Introspector interface {
	ListSchemas(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context, schema string) ([]string, error)
	ListColumns(ctx context.Context, schema, table string) ([]ColumnInfo, error)
}

// Operation names used in IntrospectionError.
const (
	OpListSchemas = "list_schemas"
	OpListTables  = "list_tables"
	OpListColumns = "list_columns"
)

// IntrospectionError wraps the failure of a single backend call with the
// backend and operation it came from. The scanner decides whether it is
// fatal or skippable.
type IntrospectionError struct {
	Backend string
	Op      string
	Schema  string
	Table   string
	Err     error
}

func (e *IntrospectionError) Error() string {
	at := e.Schema
	if e.Table != "" {
		at = e.Schema + "." + e.Table
	}
	if at == "" {
		return fmt.Sprintf("%s: %s: %v", e.Backend, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Backend, e.Op, at, e.Err)
}

func (e *IntrospectionError) Unwrap() error { return e.Err }

// ScanError is the fatal failure of a whole scan: unreachable backend,
// timeout, or a failed schema listing. Callers holding a ScanError hold
// no catalog, partial results are discarded.
type ScanError struct {
	Connection string
	Err        error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %q: %v", e.Connection, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }
