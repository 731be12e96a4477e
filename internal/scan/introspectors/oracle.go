//go:build oracle
// +build oracle

package introspectors

import (
	"context"
	"database/sql"

	_ "github.com/godror/godror"

	"dbcatalog/internal/scan"
	"dbcatalog/pkg/config"
)

// oracleIntrospector lists schemas, tables and columns of an Oracle
// database. Non-maintained users act as schemas. godror needs cgo and an
// Oracle client install, hence the build tag.
type oracleIntrospector struct {
	db *sql.DB
}

func (o oracleIntrospector) ListSchemas(ctx context.Context) ([]string, error) {
	rows, err := o.db.QueryContext(ctx, `
        SELECT username
        FROM all_users
        WHERE oracle_maintained = 'N'`)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "oracle", Op: scan.OpListSchemas, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "oracle", scan.OpListSchemas, "", "")
}

func (o oracleIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	rows, err := o.db.QueryContext(ctx, `
        SELECT table_name
        FROM all_tables
        WHERE owner = :1`, schema)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "oracle", Op: scan.OpListTables, Schema: schema, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "oracle", scan.OpListTables, schema, "")
}

func (o oracleIntrospector) ListColumns(ctx context.Context, schema, table string) ([]scan.ColumnInfo, error) {
	rows, err := o.db.QueryContext(ctx, `
        SELECT column_name, column_id, data_type
        FROM all_tab_columns
        WHERE owner = :1 AND table_name = :2
        ORDER BY column_id`, schema, table)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "oracle", Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
	}
	defer rows.Close()
	return scanColumns(rows, "oracle", schema, table)
}

func init() {
	scan.Register("oracle", func(db *sql.DB, conn *config.Connection) scan.Introspector {
		return oracleIntrospector{db: db}
	})
}
