package introspectors

import (
	"context"
	"database/sql"

	_ "github.com/denisenkom/go-mssqldb"

	"dbcatalog/internal/scan"
	"dbcatalog/pkg/config"
)

// mssqlIntrospector lists schemas, tables and columns of a SQL Server
// database through sys.schemas and information_schema.
type mssqlIntrospector struct {
	db *sql.DB
}

func (m mssqlIntrospector) ListSchemas(ctx context.Context) ([]string, error) {
	// schema_id >= 16384 are the built-in database role schemas.
	rows, err := m.db.QueryContext(ctx, `
        SELECT name
        FROM sys.schemas
        WHERE schema_id < 16384
          AND name NOT IN ('sys','guest','INFORMATION_SCHEMA')`)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "sqlserver", Op: scan.OpListSchemas, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "sqlserver", scan.OpListSchemas, "", "")
}

func (m mssqlIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT table_name
        FROM information_schema.tables
        WHERE table_schema = @p1 AND table_type = 'BASE TABLE'`, schema)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "sqlserver", Op: scan.OpListTables, Schema: schema, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "sqlserver", scan.OpListTables, schema, "")
}

func (m mssqlIntrospector) ListColumns(ctx context.Context, schema, table string) ([]scan.ColumnInfo, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT column_name, ordinal_position, data_type
        FROM information_schema.columns
        WHERE table_schema = @p1 AND table_name = @p2
        ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "sqlserver", Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
	}
	defer rows.Close()
	return scanColumns(rows, "sqlserver", schema, table)
}

func init() {
	scan.Register("sqlserver", func(db *sql.DB, conn *config.Connection) scan.Introspector {
		return mssqlIntrospector{db: db}
	})
}
