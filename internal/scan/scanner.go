package scan

import (
	"context"
	"sort"

	"dbcatalog/internal/catalog"
	"dbcatalog/internal/logger"
	"dbcatalog/pkg/config"
)

// Policy controls what happens when listing the tables of one schema or
// the columns of one table fails mid-scan.
type Policy int

const (
	// SkipAndContinue records the failure, keeps an empty schema or
	// table, and carries on. One unreachable object must not hide the
	// rest of the data source.
	SkipAndContinue Policy = iota
	// FailFast aborts the scan on the first failure.
	FailFast
)

// Report collects the objects skipped under SkipAndContinue. The catalog
// itself stays a pure tree; failure bookkeeping lives here.
type Report struct {
	SkippedSchemas []string // schemas whose table listing failed
	SkippedTables  []string // "schema.table" whose column listing failed
	Errors         []error
}

// Skipped reports how many objects the scan had to skip.
func (r *Report) Skipped() int {
	return len(r.SkippedSchemas) + len(r.SkippedTables)
}

// Scanner drives an Introspector through the fixed traversal
// schemas → tables → columns and assembles the catalog tree. It holds no
// state between runs; one Scanner can serve any number of scans.
type Scanner struct {
	Policy Policy
}

// Scan walks the backend behind intro and returns the catalog for conn.
// Schemas and tables come back sorted by name, columns in ordinal order,
// so scanning unchanged backend state twice yields equal catalogs.
//
// A failed schema listing, a context timeout, or any failure under
// FailFast returns a ScanError and no catalog.
func (s *Scanner) Scan(ctx context.Context, conn *config.Connection, intro Introspector) (*catalog.Catalog, *Report, error) {
	schemas, err := intro.ListSchemas(ctx)
	if err != nil {
		return nil, nil, &ScanError{Connection: conn.Name, Err: err}
	}
	sort.Strings(schemas)

	cat := &catalog.Catalog{Connection: conn.Name, Schemas: make([]catalog.Schema, 0, len(schemas))}
	rep := &Report{}

	for _, schemaName := range schemas {
		schema := catalog.Schema{Name: schemaName}

		tables, err := intro.ListTables(ctx, schemaName)
		if err != nil {
			if fatal := s.recover(ctx, err); fatal != nil {
				return nil, nil, &ScanError{Connection: conn.Name, Err: fatal}
			}
			logger.Warn("connection %q: skipping schema %q: %v", conn.Name, schemaName, err)
			rep.SkippedSchemas = append(rep.SkippedSchemas, schemaName)
			rep.Errors = append(rep.Errors, err)
			cat.Schemas = append(cat.Schemas, schema)
			continue
		}
		sort.Strings(tables)

		for _, tableName := range tables {
			table := catalog.Table{Name: tableName}

			cols, err := intro.ListColumns(ctx, schemaName, tableName)
			if err != nil {
				if fatal := s.recover(ctx, err); fatal != nil {
					return nil, nil, &ScanError{Connection: conn.Name, Err: fatal}
				}
				logger.Warn("connection %q: skipping columns of %q.%q: %v", conn.Name, schemaName, tableName, err)
				rep.SkippedTables = append(rep.SkippedTables, schemaName+"."+tableName)
				rep.Errors = append(rep.Errors, err)
				schema.Tables = append(schema.Tables, table)
				continue
			}
			sort.SliceStable(cols, func(i, j int) bool { return cols[i].Ordinal < cols[j].Ordinal })

			for _, ci := range cols {
				table.Columns = append(table.Columns, catalog.Column{Name: ci.Name, Type: ci.Type})
			}
			schema.Tables = append(schema.Tables, table)
		}
		cat.Schemas = append(cat.Schemas, schema)
	}
	return cat, rep, nil
}

// recover decides whether a sub-object failure can be skipped. A dead
// context means the whole scan is toast regardless of policy.
func (s *Scanner) recover(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if s.Policy == FailFast {
		return err
	}
	return nil
}
