// Package introspectors holds one Introspector per backend. Each file
// registers itself with the scan package from init(), so importing this
// package (usually blank, from main) is what makes backends available.
package introspectors

import (
	"database/sql"

	"dbcatalog/internal/scan"
)

// scanNames drains a single-column result set of object names.
func scanNames(rows *sql.Rows, backend, op, schema, table string) ([]string, error) {
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &scan.IntrospectionError{Backend: backend, Op: op, Schema: schema, Table: table, Err: err}
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &scan.IntrospectionError{Backend: backend, Op: op, Schema: schema, Table: table, Err: err}
	}
	return names, nil
}

// scanColumns drains a (name, ordinal, type) result set.
func scanColumns(rows *sql.Rows, backend, schema, table string) ([]scan.ColumnInfo, error) {
	var cols []scan.ColumnInfo
	for rows.Next() {
		var ci scan.ColumnInfo
		if err := rows.Scan(&ci.Name, &ci.Ordinal, &ci.Type); err != nil {
			return nil, &scan.IntrospectionError{Backend: backend, Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
		}
		cols = append(cols, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, &scan.IntrospectionError{Backend: backend, Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
	}
	return cols, nil
}
