package introspectors

import (
	"context"
	"database/sql"

	_ "github.com/snowflakedb/gosnowflake"

	"dbcatalog/internal/scan"
	"dbcatalog/pkg/config"
)

// sfIntrospector lists schemas, tables and columns of one Snowflake
// database through its information_schema.
type sfIntrospector struct {
	db *sql.DB
}

func (s sfIntrospector) ListSchemas(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT schema_name
        FROM information_schema.schemata
        WHERE schema_name <> 'INFORMATION_SCHEMA'`)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "snowflake", Op: scan.OpListSchemas, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "snowflake", scan.OpListSchemas, "", "")
}

func (s sfIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT table_name
        FROM information_schema.tables
        WHERE table_schema = ? AND table_type = 'BASE TABLE'`, schema)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "snowflake", Op: scan.OpListTables, Schema: schema, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "snowflake", scan.OpListTables, schema, "")
}

func (s sfIntrospector) ListColumns(ctx context.Context, schema, table string) ([]scan.ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT column_name, ordinal_position, data_type
        FROM information_schema.columns
        WHERE table_schema = ? AND table_name = ?
        ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "snowflake", Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
	}
	defer rows.Close()
	return scanColumns(rows, "snowflake", schema, table)
}

func init() {
	scan.Register("snowflake", func(db *sql.DB, conn *config.Connection) scan.Introspector {
		return sfIntrospector{db: db}
	})
}
