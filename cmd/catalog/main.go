package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/bigquery"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"google.golang.org/api/option"

	"dbcatalog/internal/catalog"
	"dbcatalog/internal/logger"
	"dbcatalog/internal/scan"
	"dbcatalog/internal/scan/introspectors"
	"dbcatalog/pkg/config"
)

func main() {
	// flags
	cfgPath := flag.String("config", filepath.Join(".", "configs", "connections.yaml"), "path to connections YAML")
	only := flag.String("connection", "", "scan only the named connection")
	timeout := flag.Int("timeout", 60, "scan timeout seconds per connection")
	failFast := flag.Bool("fail-fast", false, "abort a scan on its first introspection failure")
	flag.Parse()

	conns, err := config.LoadFile(*cfgPath)
	if err != nil {
		logger.Fatal("reading config file: %v", err)
	}
	logger.Info("loaded %d connections from %s", len(conns), *cfgPath)
	logger.Debug("registered backends: %v", scan.Registered())

	policy := scan.SkipAndContinue
	if *failFast {
		policy = scan.FailFast
	}

	var catalogs []*catalog.Catalog
	matched, failed := 0, 0
	for _, conn := range conns {
		if *only != "" && conn.Name != *only {
			continue
		}
		matched++
		cat, rep, err := scanConnection(conn, policy, time.Duration(*timeout)*time.Second)
		if err != nil {
			logger.Error("%v", err)
			failed++
			continue
		}
		if rep.Skipped() > 0 {
			logger.Warn("connection %q: %d objects skipped", conn.Name, rep.Skipped())
		}
		catalogs = append(catalogs, cat)
	}
	if *only != "" && matched == 0 {
		logger.Fatal("no connection named %q in %s", *only, *cfgPath)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(catalogs); err != nil {
		logger.Fatal("%v", err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// scanConnection builds the backend handle for one connection and scans
// it. SQL-speaking backends go through the registry; bigquery and glue
// get their handles from their SDKs.
func scanConnection(conn *config.Connection, policy scan.Policy, timeout time.Duration) (*catalog.Catalog, *scan.Report, error) {
	switch conn.Type {
	case "bigquery":
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		client, err := bigquery.NewClient(ctx, conn.ProjectID, option.WithCredentialsFile(conn.KeyPath))
		if err != nil {
			return nil, nil, &scan.ScanError{Connection: conn.Name, Err: err}
		}
		defer client.Close()
		s := &scan.Scanner{Policy: policy}
		return s.Scan(ctx, conn, introspectors.NewBigQuery(client))
	case "glue":
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, &scan.ScanError{Connection: conn.Name, Err: err}
		}
		s := &scan.Scanner{Policy: policy}
		return s.Scan(ctx, conn, introspectors.NewGlue(glue.NewFromConfig(awsCfg)))
	default:
		return scan.ConnectAndScan(conn, policy, timeout)
	}
}
