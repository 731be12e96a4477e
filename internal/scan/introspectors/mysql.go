package introspectors

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"

	"dbcatalog/internal/scan"
	"dbcatalog/pkg/config"
)

// myIntrospector lists tables and columns through the MySQL
// information_schema. MySQL has no schema concept below the database, so
// the connected database is the one schema.
type myIntrospector struct {
	db       *sql.DB
	database string
}

func (m myIntrospector) ListSchemas(ctx context.Context) ([]string, error) {
	return []string{m.database}, nil
}

func (m myIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT table_name
        FROM information_schema.tables
        WHERE table_schema = ? AND table_type = 'BASE TABLE'`, schema)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "mysql", Op: scan.OpListTables, Schema: schema, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "mysql", scan.OpListTables, schema, "")
}

func (m myIntrospector) ListColumns(ctx context.Context, schema, table string) ([]scan.ColumnInfo, error) {
	// column_type keeps the full raw spelling, e.g. varchar(20).
	rows, err := m.db.QueryContext(ctx, `
        SELECT column_name, ordinal_position, column_type
        FROM information_schema.columns
        WHERE table_schema = ? AND table_name = ?
        ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "mysql", Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
	}
	defer rows.Close()
	return scanColumns(rows, "mysql", schema, table)
}

func init() {
	scan.Register("mysql", func(db *sql.DB, conn *config.Connection) scan.Introspector {
		return myIntrospector{db: db, database: conn.Database}
	})
}
