package scan

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"dbcatalog/internal/catalog"
	"dbcatalog/pkg/config"
)

// Factory binds an Introspector to an open database handle. The
// connection descriptor is passed through for naming only (e.g. the
// database name a schema-less backend reports as its one schema).
type Factory func(db *sql.DB, conn *config.Connection) Introspector

var factories = map[string]Factory{}

// Register makes a database/sql-backed introspector available under the
// canonical connection type. Called from init() in the introspectors
// package; bigquery and glue construct their introspectors from SDK
// clients and do not register here.
func Register(typ string, f Factory) {
	factories[config.NormalizeType(typ)] = f
}

// Registered returns the registered connection types, sorted.
func Registered() []string {
	keys := make([]string, 0, len(factories))
	for k := range factories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// New builds an introspector for conn against an open handle, or errors
// if the type has no registered factory.
func New(db *sql.DB, conn *config.Connection) (Introspector, error) {
	f, ok := factories[config.NormalizeType(conn.Type)]
	if !ok {
		return nil, fmt.Errorf("no introspector registered for type %q (available: %v)", conn.Type, Registered())
	}
	return f(db, conn), nil
}

// ConnectAndScan opens the database behind conn, pings it, scans it, and
// closes it again. The whole run, ping included, lives under one
// deadline; running out of time surfaces as a ScanError. Only
// database/sql backends go through here.
func ConnectAndScan(conn *config.Connection, policy Policy, timeout time.Duration) (*catalog.Catalog, *Report, error) {
	driver, dsn, err := config.BuildDriverAndDSN(conn)
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, &ScanError{Connection: conn.Name, Err: err}
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, &ScanError{Connection: conn.Name, Err: err}
	}

	intro, err := New(db, conn)
	if err != nil {
		return nil, nil, err
	}
	s := &Scanner{Policy: policy}
	return s.Scan(ctx, conn, intro)
}
