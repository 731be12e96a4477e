package scan

import (
	"database/sql"
	"errors"
	"slices"
	"testing"
	"time"

	"dbcatalog/pkg/config"
)

func TestRegister(t *testing.T) {
	// tests both Register and Registered because they take the same setup

	Register("TestType", func(db *sql.DB, conn *config.Connection) Introspector {
		return &fakeBackend{}
	})

	if _, ok := factories["testtype"]; !ok {
		t.Errorf("\ntype testtype not registered correctly in %v", factories)
	}
	if !slices.Contains(Registered(), "testtype") {
		t.Errorf("\nRegistered() = %v, wanted it to contain testtype", Registered())
	}

	if _, err := New(nil, &config.Connection{Name: "c", Type: "testtype"}); err != nil {
		t.Errorf("\ngot unexpected error: \"%v\"", err)
	}
	if _, err := New(nil, &config.Connection{Name: "c", Type: "unregistered"}); err == nil {
		t.Errorf("\nexpected an error, did not receive one")
	}
}

func TestConnectAndScanErrors(t *testing.T) {
	var tests = []struct {
		name       string
		conn       *config.Connection
		wantConfig bool // error should be a *ConfigError
	}{
		// bigquery handles are not built from a DSN
		{"non-sql backend", &config.Connection{Name: "bq", Type: "bigquery"}, true},
		// no driver is linked into this test binary
		{"driver not loaded", &config.Connection{Name: "pg", Type: "postgres",
			Username: "u", Password: "p", Database: "d"}, false},
	}

	for _, tt := range tests {
		// Use t.Run to run each case as a subtest with a descriptive name
		t.Run(tt.name, func(t *testing.T) {
			cat, _, err := ConnectAndScan(tt.conn, SkipAndContinue, time.Second)
			if err == nil {
				t.Fatalf("\nexpected an error, did not receive one")
			}
			if cat != nil {
				t.Errorf("\ngot catalog %v, wanted none", cat)
			}
			var cfgErr *config.ConfigError
			if errors.As(err, &cfgErr) != tt.wantConfig {
				t.Errorf("\ngot error %T (%v), ConfigError expectation %v", err, err, tt.wantConfig)
			}
		})
	}
}
