package config

import (
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a malformed or incomplete connection definition.
// It is always raised before any network activity.
type ConfigError struct {
	Connection string
	Reason     string
}

func (e *ConfigError) Error() string {
	if e.Connection == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: connection %q: %s", e.Connection, e.Reason)
}

// Connection describes how to reach one data source. It is built once
// from configuration and never mutated afterwards; identity is by Name.
// Which fields are meaningful depends on Type, see NewConnection.
type Connection struct {
	Name string
	Type string

	// database backends
	URI      string
	Port     string
	Username string
	Password string
	Database string
	Cluster  string // postgres: limit the scan to this one schema
	Path     string // sqlite: database file

	// bigquery
	KeyPath            string
	ProjectCredentials string
	ProjectID          string

	// snowflake
	Account   string
	Role      string
	Warehouse string
}

// fieldSpec is the set of keys one connection type accepts.
type fieldSpec struct {
	required []string
	optional []string
}

func (f fieldSpec) allows(key string) bool {
	for _, k := range f.required {
		if k == key {
			return true
		}
	}
	for _, k := range f.optional {
		if k == key {
			return true
		}
	}
	return false
}

var fieldSpecs = map[string]fieldSpec{
	"postgres": {
		required: []string{"username", "password", "database"},
		optional: []string{"uri", "port", "cluster"},
	},
	"mysql": {
		required: []string{"username", "password", "database"},
		optional: []string{"uri", "port"},
	},
	"sqlserver": {
		required: []string{"username", "password", "database"},
		optional: []string{"uri", "port"},
	},
	"oracle": {
		required: []string{"username", "password", "database"},
		optional: []string{"uri", "port"},
	},
	"snowflake": {
		required: []string{"username", "password", "database", "account"},
		optional: []string{"role", "warehouse"},
	},
	"bigquery": {
		required: []string{"key_path", "project_credentials", "project_id"},
	},
	"glue": {},
	"sqlite": {
		required: []string{"path"},
	},
}

// NewConnection builds a Connection of the given type from named fields.
// Fields not recognized for the type, and missing mandatory fields, fail
// with ConfigError. No I/O happens here.
func NewConnection(name, typ string, fields map[string]string) (*Connection, error) {
	t := NormalizeType(typ)
	spec, ok := fieldSpecs[t]
	if !ok {
		return nil, &ConfigError{Connection: name, Reason: fmt.Sprintf("unrecognized type %q (known: %v)", typ, knownTypes())}
	}

	c := &Connection{Name: name, Type: t}
	for key, value := range fields {
		if !spec.allows(key) {
			return nil, &ConfigError{Connection: name, Reason: fmt.Sprintf("field %q is not recognized for type %q", key, t)}
		}
		switch key {
		case "uri":
			c.URI = value
		case "port":
			c.Port = value
		case "username":
			c.Username = value
		case "password":
			c.Password = value
		case "database":
			c.Database = value
		case "cluster":
			c.Cluster = value
		case "path":
			c.Path = value
		case "key_path":
			c.KeyPath = value
		case "project_credentials":
			c.ProjectCredentials = value
		case "project_id":
			c.ProjectID = value
		case "account":
			c.Account = value
		case "role":
			c.Role = value
		case "warehouse":
			c.Warehouse = value
		}
	}
	for _, key := range spec.required {
		if _, ok := fields[key]; !ok {
			return nil, &ConfigError{Connection: name, Reason: fmt.Sprintf("type %q requires field %q", t, key)}
		}
	}
	return c, nil
}

func knownTypes() []string {
	keys := make([]string, 0, len(fieldSpecs))
	for k := range fieldSpecs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadFile loads a YAML connections file:
//
//	connections:
//	  - name: pg
//	    type: postgres
//	    username: piiuser
//	    ...
//
// Every entry goes through NewConnection, so unknown or missing fields
// surface as ConfigError. Connection names must be unique. All values
// are carried as strings; bare scalars like port: 5432 are accepted and
// read as their string form.
func LoadFile(path string) ([]*Connection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Connections []map[string]yaml.Node `yaml:"connections"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	conns := make([]*Connection, 0, len(doc.Connections))
	seen := map[string]bool{}
	for i, entry := range doc.Connections {
		fields := make(map[string]string, len(entry))
		for key, node := range entry {
			if node.Kind != yaml.ScalarNode {
				return nil, &ConfigError{Reason: fmt.Sprintf("connection #%d: field %q must be a scalar", i+1, key)}
			}
			fields[key] = node.Value
		}

		name := fields["name"]
		typ := fields["type"]
		delete(fields, "name")
		delete(fields, "type")
		if name == "" {
			return nil, &ConfigError{Reason: fmt.Sprintf("connection #%d has no name", i+1)}
		}
		if typ == "" {
			return nil, &ConfigError{Connection: name, Reason: "missing type"}
		}
		if seen[name] {
			return nil, &ConfigError{Connection: name, Reason: "duplicate connection name"}
		}
		seen[name] = true

		c, err := NewConnection(name, typ, fields)
		if err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, nil
}

// NormalizeType maps common aliases to canonical type keys.
func NormalizeType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "postgresql", "pg", "postgres":
		return "postgres"
	case "mysql", "mariadb":
		return "mysql"
	case "sqlite", "sqlite3":
		return "sqlite"
	case "mssql", "sqlserver":
		return "sqlserver"
	case "godror", "oracle":
		return "oracle"
	case "bq", "bigquery":
		return "bigquery"
	default:
		return strings.ToLower(strings.TrimSpace(t))
	}
}

var defaultPorts = map[string]string{
	"postgres":  "5432",
	"mysql":     "3306",
	"sqlserver": "1433",
	"oracle":    "1521",
}

func hostPort(c *Connection) (string, string) {
	host := c.URI
	if host == "" {
		host = "127.0.0.1"
	}
	port := c.Port
	if port == "" {
		port = defaultPorts[c.Type]
	}
	return host, port
}

// BuildDriverAndDSN produces a database/sql driver name and DSN for the
// connection. Backends that do not speak database/sql (bigquery, glue)
// return a ConfigError; their handles come from their own SDKs instead.
func BuildDriverAndDSN(c *Connection) (driver string, dsn string, err error) {
	switch c.Type {
	case "postgres":
		host, port := hostPort(c)
		driver = "postgres"
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			url.QueryEscape(c.Username), url.QueryEscape(c.Password), host, port, c.Database)
	case "mysql":
		host, port := hostPort(c)
		driver = "mysql"
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", c.Username, c.Password, host, port, c.Database)
	case "sqlserver":
		host, port := hostPort(c)
		driver = "sqlserver"
		dsn = fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			url.QueryEscape(c.Username), url.QueryEscape(c.Password), host, port, c.Database)
	case "oracle":
		host, port := hostPort(c)
		driver = "godror"
		dsn = fmt.Sprintf("%s/%s@%s:%s/%s", c.Username, c.Password, host, port, c.Database)
	case "snowflake":
		driver = "snowflake"
		dsn = fmt.Sprintf("%s:%s@%s/%s", c.Username, c.Password, c.Account, c.Database)
		params := url.Values{}
		if c.Role != "" {
			params.Set("role", c.Role)
		}
		if c.Warehouse != "" {
			params.Set("warehouse", c.Warehouse)
		}
		if len(params) > 0 {
			dsn += "?" + params.Encode()
		}
	case "sqlite":
		driver = "sqlite"
		dsn = fmt.Sprintf("file:%s?mode=ro", c.Path)
	default:
		err = &ConfigError{Connection: c.Name, Reason: fmt.Sprintf("type %q is not a database/sql backend", c.Type)}
	}
	return
}
