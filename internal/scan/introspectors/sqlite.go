package introspectors

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"dbcatalog/internal/scan"
	"dbcatalog/pkg/config"
)

// sqliteIntrospector lists tables and columns of an SQLite database.
// The attached database names (normally just "main") act as schemas.
type sqliteIntrospector struct {
	db *sql.DB
}

func (s sqliteIntrospector) ListSchemas(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA database_list`)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "sqlite", Op: scan.OpListSchemas, Err: err}
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var seq int
		var name, file sql.NullString
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, &scan.IntrospectionError{Backend: "sqlite", Op: scan.OpListSchemas, Err: err}
		}
		if name.Valid {
			names = append(names, name.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &scan.IntrospectionError{Backend: "sqlite", Op: scan.OpListSchemas, Err: err}
	}
	return names, nil
}

func (s sqliteIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	// sqlite_master cannot be addressed with a placeholder for the
	// schema, so the name is spliced in; it comes from PRAGMA
	// database_list, not from user input.
	q := fmt.Sprintf(`SELECT name FROM %q.sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%%'`, schema)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "sqlite", Op: scan.OpListTables, Schema: schema, Err: err}
	}
	defer rows.Close()
	return scanNames(rows, "sqlite", scan.OpListTables, schema, "")
}

func (s sqliteIntrospector) ListColumns(ctx context.Context, schema, table string) ([]scan.ColumnInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, cid + 1, type
        FROM pragma_table_info(?, ?)
        ORDER BY cid`, table, schema)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "sqlite", Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
	}
	defer rows.Close()
	return scanColumns(rows, "sqlite", schema, table)
}

func init() {
	scan.Register("sqlite", func(db *sql.DB, conn *config.Connection) scan.Introspector {
		return sqliteIntrospector{db: db}
	})
}
