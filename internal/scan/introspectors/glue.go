package introspectors

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"

	"dbcatalog/internal/scan"
)

// glueIntrospector lists databases, tables and columns of an AWS Glue
// data catalog. Glue databases act as schemas; partition keys count as
// columns and follow the storage columns, which is how Glue itself
// positions them.
type glueIntrospector struct {
	client *glue.Client
}

// NewGlue wraps an authenticated Glue client. The client is owned by the
// caller; scanning never closes it.
func NewGlue(client *glue.Client) scan.Introspector {
	return glueIntrospector{client: client}
}

func (g glueIntrospector) ListSchemas(ctx context.Context) ([]string, error) {
	var names []string
	var token *string
	for {
		out, err := g.client.GetDatabases(ctx, &glue.GetDatabasesInput{NextToken: token})
		if err != nil {
			return nil, &scan.IntrospectionError{Backend: "glue", Op: scan.OpListSchemas, Err: err}
		}
		for _, db := range out.DatabaseList {
			names = append(names, aws.ToString(db.Name))
		}
		if out.NextToken == nil {
			return names, nil
		}
		token = out.NextToken
	}
}

func (g glueIntrospector) ListTables(ctx context.Context, schema string) ([]string, error) {
	var names []string
	var token *string
	for {
		out, err := g.client.GetTables(ctx, &glue.GetTablesInput{
			DatabaseName: aws.String(schema),
			NextToken:    token,
		})
		if err != nil {
			return nil, &scan.IntrospectionError{Backend: "glue", Op: scan.OpListTables, Schema: schema, Err: err}
		}
		for _, tab := range out.TableList {
			names = append(names, aws.ToString(tab.Name))
		}
		if out.NextToken == nil {
			return names, nil
		}
		token = out.NextToken
	}
}

func (g glueIntrospector) ListColumns(ctx context.Context, schema, table string) ([]scan.ColumnInfo, error) {
	out, err := g.client.GetTable(ctx, &glue.GetTableInput{
		DatabaseName: aws.String(schema),
		Name:         aws.String(table),
	})
	if err != nil {
		return nil, &scan.IntrospectionError{Backend: "glue", Op: scan.OpListColumns, Schema: schema, Table: table, Err: err}
	}

	var cols []scan.ColumnInfo
	ord := 0
	if out.Table != nil && out.Table.StorageDescriptor != nil {
		for _, c := range out.Table.StorageDescriptor.Columns {
			ord++
			cols = append(cols, scan.ColumnInfo{Name: aws.ToString(c.Name), Ordinal: ord, Type: aws.ToString(c.Type)})
		}
	}
	if out.Table != nil {
		for _, c := range out.Table.PartitionKeys {
			ord++
			cols = append(cols, scan.ColumnInfo{Name: aws.ToString(c.Name), Ordinal: ord, Type: aws.ToString(c.Type)})
		}
	}
	return cols, nil
}
