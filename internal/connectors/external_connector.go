package connectors

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// ExternalDBConnector describes tables of external SQL databases that
// back object types not stored in the primary record collection.
type ExternalDBConnector struct {
	dbType string // "postgresql" or "mysql"
	db     *sql.DB
}

// NewExternalDBConnector creates a new external database connector
func NewExternalDBConnector(dbType string) Describer {
	return &ExternalDBConnector{
		dbType: dbType,
	}
}

// Connect establishes connection to external database
func (c *ExternalDBConnector) Connect(ctx context.Context, config map[string]interface{}) error {
	connStr, err := c.buildConnectionString(config)
	if err != nil {
		return fmt.Errorf("failed to build connection string: %w", err)
	}

	driver := c.dbType
	if c.dbType == "postgresql" {
		driver = "postgres"
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	c.db = db
	return nil
}

// Disconnect closes the database connection
func (c *ExternalDBConnector) Disconnect(ctx context.Context) error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// DescribeObject returns column metadata for a table via information_schema.
func (c *ExternalDBConnector) DescribeObject(ctx context.Context, object string) (*SchemaInfo, error) {
	if c.db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	var query string
	if c.dbType == "postgresql" {
		query = `
			SELECT column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_name = $1
			ORDER BY ordinal_position
		`
	} else { // mysql
		query = `
			SELECT column_name, data_type, is_nullable
			FROM information_schema.columns
			WHERE table_name = ?
			ORDER BY ordinal_position
		`
	}

	rows, err := c.db.QueryContext(ctx, query, object)
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}
	defer rows.Close()

	schema := &SchemaInfo{
		Object:  object,
		Columns: []ColumnInfo{},
	}

	for rows.Next() {
		var columnName, dataType, isNullable string

		if err := rows.Scan(&columnName, &dataType, &isNullable); err != nil {
			return nil, fmt.Errorf("failed to scan schema row: %w", err)
		}

		schema.Columns = append(schema.Columns, ColumnInfo{
			Name:       columnName,
			Type:       dataType,
			Label:      columnName,
			IsRequired: isNullable == "NO",
		})
	}

	return schema, rows.Err()
}

// TestConnection tests if the database connection is valid
func (c *ExternalDBConnector) TestConnection(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database connection not established")
	}
	return c.db.PingContext(ctx)
}

// buildConnectionString creates a connection string from config
func (c *ExternalDBConnector) buildConnectionString(config map[string]interface{}) (string, error) {
	host, _ := config["host"].(string)
	port, _ := config["port"].(float64)
	database, _ := config["database"].(string)
	username, _ := config["username"].(string)
	password, _ := config["password"].(string)

	if host == "" || database == "" || username == "" {
		return "", fmt.Errorf("missing required connection parameters")
	}

	if port == 0 {
		if c.dbType == "postgresql" {
			port = 5432
		} else {
			port = 3306
		}
	}

	if c.dbType == "postgresql" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			host, int(port), username, password, database,
		), nil
	}

	// MySQL
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true",
		username, password, host, int(port), database,
	), nil
}
