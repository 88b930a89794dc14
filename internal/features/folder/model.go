package folder

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder is a flat grouping for reports. There is no nesting; a report
// either sits in one folder or in none.
type Folder struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID `json:"organization_id" bson:"organization_id"`
	Name           string             `json:"name" bson:"name"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	CreatedBy      string             `json:"created_by" bson:"created_by"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}
