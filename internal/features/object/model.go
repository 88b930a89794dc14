package object

import (
	"time"

	"go-reporting/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SourceType string

const (
	SourceInternal   SourceType = "internal"
	SourcePostgresql SourceType = "postgresql"
	SourceMysql      SourceType = "mysql"
)

// ObjectDef describes one reportable object type: its physical columns
// and where the rows live. Internal objects are stored in the shared
// record collection; external ones sit in a SQL database reachable
// through a connector.
type ObjectDef struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	Name           string             `json:"name" bson:"name"` // Unique identifier (e.g. "leads", "orders")
	Label          string             `json:"label" bson:"label"`
	Source         SourceType         `json:"source" bson:"source"`
	SourceConfig   map[string]any     `json:"source_config,omitempty" bson:"source_config,omitempty"`
	Fields         []models.FieldDef  `json:"fields" bson:"fields"`
	IsSystem       bool               `json:"is_system" bson:"is_system"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
