package introspectors

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"dbcatalog/internal/scan"
	"dbcatalog/pkg/config"
)

// pgIntrospector lists schemas, tables and columns through the Postgres
// information_schema.
type pgIntrospector struct {
	db *sql.DB
	// cluster, when set on the connection, pins the scan to one schema.
	cluster string
}

func (p pgIntrospector) ListSchemas(ctx context.Context) ([]string, error) {
	if p.cluster != "" {
		return []string{p.cluster}, nil
	}
	rows, err := p.db.QueryContext(ctx, `
        SELECT schema_name
        FROM information_schema.schemata
        WHERE schema_name NOT IN ('pg_catalog','information_schema','pg_toast')`)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "postgres", Op: scan.OpListSchemas, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "postgres", scan.OpListSchemas, "", "")
}

func (p pgIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT table_name
        FROM information_schema.tables
        WHERE table_schema = $1 AND table_type = 'BASE TABLE'`, schema)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "postgres", Op: scan.OpListTables, Schema: schema, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "postgres", scan.OpListTables, schema, "")
}

func (p pgIntrospector) ListColumns(ctx context.Context, schema, table string) ([]scan.ColumnInfo, error) {
	rows, err := p.db.QueryContext(ctx, `
        SELECT column_name, ordinal_position, data_type
        FROM information_schema.columns
        WHERE table_schema = $1 AND table_name = $2
        ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "postgres", Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
	}
	defer rows.Close()
	return scanColumns(rows, "postgres", schema, table)
}

func init() {
	scan.Register("postgres", func(db *sql.DB, conn *config.Connection) scan.Introspector {
		return pgIntrospector{db: db, cluster: conn.Cluster}
	})
}
