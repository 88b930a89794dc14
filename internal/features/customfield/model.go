package customfield

import (
	"time"

	"go-reporting/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FieldStatus string

const (
	StatusActive   FieldStatus = "active"
	StatusInactive FieldStatus = "inactive"
)

// CustomField is an organization-defined field on an object type. The
// name always carries the "__c" suffix so it can never shadow a physical
// column. Formula fields hold a tengo expression evaluated per row at
// report run time.
type CustomField struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	ObjectType     string             `json:"object_type" bson:"object_type"`
	Name           string             `json:"name" bson:"name"`
	Label          string             `json:"label" bson:"label"`
	Type           models.FieldType   `json:"type" bson:"type"`
	Required       bool               `json:"required" bson:"required"`
	Status         FieldStatus        `json:"status" bson:"status"`
	DisplayOrder   int                `json:"display_order" bson:"display_order"`
	Options        []models.SelectOption `json:"options,omitempty" bson:"options,omitempty"`
	Expression     string             `json:"expression,omitempty" bson:"expression,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
