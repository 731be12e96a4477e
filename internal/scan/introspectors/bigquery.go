package introspectors

import (
	"context"
	"errors"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"dbcatalog/internal/scan"
)

// bqIntrospector lists datasets, tables and columns of one BigQuery
// project. Datasets act as schemas; table fields keep their declaration
// order and their BigQuery type name ("STRING", "RECORD", ...).
type bqIntrospector struct {
	client *bigquery.Client
}

// NewBigQuery wraps an authenticated BigQuery client. The client is
// owned by the caller; scanning never closes it.
func NewBigQuery(client *bigquery.Client) scan.Introspector {
	return bqIntrospector{client: client}
}

func (b bqIntrospector) ListSchemas(ctx context.Context) ([]string, error) {
	var names []string
	it := b.client.Datasets(ctx)
	for {
		ds, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return names, nil
		}
		if err != nil {
			return nil, &scan.IntrospectionError{Backend: "bigquery", Op: scan.OpListSchemas, Err: err}
		}
		names = append(names, ds.DatasetID)
	}
}

func (b bqIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	var names []string
	it := b.client.Dataset(schema).Tables(ctx)
	for {
		tab, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return names, nil
		}
		if err != nil {
			return nil, &scan.IntrospectionError{Backend: "bigquery", Op: scan.OpListTables, Schema: schema, Err: err}
		}
		names = append(names, tab.TableID)
	}
}

func (b bqIntrospector) ListColumns(ctx context.Context, schema, table string) ([]scan.ColumnInfo, error) {
	md, err := b.client.Dataset(schema).Table(table).Metadata(ctx)
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "bigquery", Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
	}
	cols := make([]scan.ColumnInfo, 0, len(md.Schema))
	for i, field := range md.Schema {
		cols = append(cols, scan.ColumnInfo{Name: field.Name, Ordinal: i + 1, Type: string(field.Type)})
	}
	return cols, nil
}
