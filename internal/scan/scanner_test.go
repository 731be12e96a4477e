package scan

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"dbcatalog/internal/catalog"
	"dbcatalog/internal/logger"
	"dbcatalog/pkg/config"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeBackend is an in-memory Introspector with injectable failures.
type fakeBackend struct {
	schemas    []string
	schemasErr error
	tables     map[string][]string
	tablesErr  map[string]error
	columns    map[string][]ColumnInfo // keyed "schema.table"
	columnsErr map[string]error
}

func (f *fakeBackend) ListSchemas(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.schemasErr != nil {
		return nil, f.schemasErr
	}
	return f.schemas, nil
}

func (f *fakeBackend) ListTables(ctx context.Context, schema string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.tablesErr[schema]; err != nil {
		return nil, err
	}
	return f.tables[schema], nil
}

func (f *fakeBackend) ListColumns(ctx context.Context, schema, table string) ([]ColumnInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.columnsErr[schema+"."+table]; err != nil {
		return nil, err
	}
	return f.columns[schema+"."+table], nil
}

// fixtureBackend mirrors the pii test database: S1 holds the three pii
// tables, S2 is empty. Schemas and tables come back deliberately
// unsorted and full_pii's columns out of ordinal order, to prove the
// scanner establishes the ordering itself.
func fixtureBackend() *fakeBackend {
	return &fakeBackend{
		schemas: []string{"S2", "S1"},
		tables: map[string][]string{
			"S1": {"partial_pii", "no_pii", "full_pii"},
			"S2": {},
		},
		columns: map[string][]ColumnInfo{
			"S1.full_pii": {
				{Name: "location", Ordinal: 2, Type: "text"},
				{Name: "name", Ordinal: 1, Type: "text"},
			},
			"S1.no_pii": {
				{Name: "a", Ordinal: 1, Type: "text"},
				{Name: "b", Ordinal: 2, Type: "text"},
			},
			"S1.partial_pii": {
				{Name: "a", Ordinal: 1, Type: "text"},
				{Name: "b", Ordinal: 2, Type: "text"},
			},
		},
	}
}

func fixtureConn() *config.Connection {
	return &config.Connection{Name: "fixture", Type: "postgres"}
}

func fixtureCatalog() *catalog.Catalog {
	piiColumns := []catalog.Column{{Name: "a", Type: "text"}, {Name: "b", Type: "text"}}
	return &catalog.Catalog{
		Connection: "fixture",
		Schemas: []catalog.Schema{
			{Name: "S1", Tables: []catalog.Table{
				{Name: "full_pii", Columns: []catalog.Column{
					{Name: "name", Type: "text"},
					{Name: "location", Type: "text"},
				}},
				{Name: "no_pii", Columns: piiColumns},
				{Name: "partial_pii", Columns: piiColumns},
			}},
			{Name: "S2"},
		},
	}
}

func TestScan(t *testing.T) {
	s := &Scanner{}
	cat, rep, err := s.Scan(context.Background(), fixtureConn(), fixtureBackend())
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if rep.Skipped() != 0 {
		t.Errorf("\ngot %d skipped objects, wanted 0", rep.Skipped())
	}
	if diff := cmp.Diff(fixtureCatalog(), cat, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("\nunexpected catalog (-want +got):\n%s", diff)
	}
}

func TestScanIsDeterministic(t *testing.T) {
	s := &Scanner{}
	first, _, err := s.Scan(context.Background(), fixtureConn(), fixtureBackend())
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	second, _, err := s.Scan(context.Background(), fixtureConn(), fixtureBackend())
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("\nrepeated scans differ (-first +second):\n%s", diff)
	}
}

func TestScanSkipsFailedColumns(t *testing.T) {
	backend := fixtureBackend()
	backend.columnsErr = map[string]error{
		"S1.no_pii": &IntrospectionError{Backend: "postgres", Op: OpListColumns, Schema: "S1", Table: "no_pii", Err: errors.New("permission denied")},
	}

	s := &Scanner{}
	cat, rep, err := s.Scan(context.Background(), fixtureConn(), backend)
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}

	want := fixtureCatalog()
	want.Schema("S1").Table("no_pii").Columns = nil
	if diff := cmp.Diff(want, cat, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("\nunexpected catalog (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"S1.no_pii"}, rep.SkippedTables); diff != "" {
		t.Errorf("\nunexpected skipped tables (-want +got):\n%s", diff)
	}
}

func TestScanSkipsFailedTables(t *testing.T) {
	backend := fixtureBackend()
	backend.tablesErr = map[string]error{
		"S1": &IntrospectionError{Backend: "postgres", Op: OpListTables, Schema: "S1", Err: errors.New("schema dropped")},
	}

	s := &Scanner{}
	cat, rep, err := s.Scan(context.Background(), fixtureConn(), backend)
	if err != nil {
		t.Fatalf("\ngot unexpected error: \"%v\"", err)
	}

	// S1 survives as an empty schema, S2 is scanned normally.
	want := fixtureCatalog()
	want.Schema("S1").Tables = nil
	if diff := cmp.Diff(want, cat, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("\nunexpected catalog (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"S1"}, rep.SkippedSchemas); diff != "" {
		t.Errorf("\nunexpected skipped schemas (-want +got):\n%s", diff)
	}
}

func TestScanFailFast(t *testing.T) {
	backend := fixtureBackend()
	backend.columnsErr = map[string]error{
		"S1.no_pii": errors.New("permission denied"),
	}

	s := &Scanner{Policy: FailFast}
	cat, _, err := s.Scan(context.Background(), fixtureConn(), backend)
	if cat != nil {
		t.Errorf("\ngot partial catalog %v, wanted none", cat)
	}
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("\ngot error %T (%v), wanted *ScanError", err, err)
	}
}

func TestScanFatalSchemaListing(t *testing.T) {
	backend := fixtureBackend()
	backend.schemasErr = &IntrospectionError{Backend: "postgres", Op: OpListSchemas, Err: errors.New("connection refused")}

	s := &Scanner{}
	cat, _, err := s.Scan(context.Background(), fixtureConn(), backend)
	if cat != nil {
		t.Errorf("\ngot partial catalog %v, wanted none", cat)
	}
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("\ngot error %T (%v), wanted *ScanError", err, err)
	}
	var introErr *IntrospectionError
	if !errors.As(err, &introErr) || introErr.Op != OpListSchemas {
		t.Errorf("\nscan error does not wrap the schema-listing failure: %v", err)
	}
}

func TestScanCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &Scanner{}
	cat, _, err := s.Scan(ctx, fixtureConn(), fixtureBackend())
	if cat != nil {
		t.Errorf("\ngot catalog %v from dead context, wanted none", cat)
	}
	var scanErr *ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("\ngot error %T (%v), wanted *ScanError", err, err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("\nscan error does not wrap context.Canceled: %v", err)
	}
}
