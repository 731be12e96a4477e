package catalog

// Column represents one column of a table. Type is the raw type name as
// the backend reports it ("text", "varchar(20)", "STRING"); no
// cross-backend unification is applied.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table represents a table and its columns. Columns keep the ordinal
// position the backend declared them in, not alphabetical order.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Schema represents one schema and its tables, sorted by table name.
// Table names are kept exactly as the backend reports them; if a backend
// reports the same name twice under differing case, both entries are
// preserved in sorted order.
type Schema struct {
	Name   string  `json:"name"`
	Tables []Table `json:"tables"`
}

// Catalog is the full metadata tree for one scanned connection: schemas
// sorted by name, each owning its tables and columns. A scan always
// builds a fresh tree; nothing is shared or merged across scans.
type Catalog struct {
	Connection string   `json:"connection,omitempty"`
	Schemas    []Schema `json:"schemas"`
}

// Schema returns the named schema, or nil if the catalog has none.
func (c *Catalog) Schema(name string) *Schema {
	for i := range c.Schemas {
		if c.Schemas[i].Name == name {
			return &c.Schemas[i]
		}
	}
	return nil
}

// Table returns the named table, or nil if the schema has none.
func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}
