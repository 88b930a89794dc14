package connectors

import (
	"context"
)

// ColumnInfo is one physical column reported by a describe call.
type ColumnInfo struct {
	Name       string
	Type       string
	Label      string
	IsRequired bool
}

// SchemaInfo is the described shape of one object/table.
type SchemaInfo struct {
	Object  string
	Columns []ColumnInfo
}

// Describer answers the generic "describe columns of object X" lookup
// the field catalog uses for object types without a predefined shape.
type Describer interface {
	// Connect establishes connection to the data source
	Connect(ctx context.Context, config map[string]interface{}) error

	// Disconnect closes the connection
	Disconnect(ctx context.Context) error

	// DescribeObject returns the physical column list of an object/table
	DescribeObject(ctx context.Context, object string) (*SchemaInfo, error)

	// TestConnection tests if the connection is valid
	TestConnection(ctx context.Context) error
}
