package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	UserIDKey ContextKey = "user_id"
)

// Custom field names carry this suffix so they never collide with
// physical columns of the underlying object.
const CustomFieldSuffix = "__c"

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionReport AuditAction = "REPORT"
	AuditActionFolder AuditAction = "FOLDER"
	AuditActionField  AuditAction = "FIELD"
	AuditActionObject AuditAction = "OBJECT"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrganizationID primitive.ObjectID `bson:"organization_id,omitempty" json:"organization_id,omitempty"`
	Action         AuditAction        `bson:"action" json:"action"`
	Collection     string             `bson:"collection" json:"collection"`
	RecordID       string             `bson:"record_id" json:"record_id"`
	ActorID        string             `bson:"actor_id" json:"actor_id"`
	Changes        map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp      time.Time          `bson:"timestamp" json:"timestamp"`
}

// Field Definitions
type FieldType string

const (
	FieldTypeText    FieldType = "text"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeSelect  FieldType = "select"
	FieldTypeFormula FieldType = "formula"
)

type SelectOption struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

// FieldDef is one physical column of an object type.
type FieldDef struct {
	Name     string         `json:"name" bson:"name"`
	Label    string         `json:"label" bson:"label"`
	Type     FieldType      `json:"type" bson:"type"`
	Required bool           `json:"required" bson:"required"`
	Options  []SelectOption `json:"options,omitempty" bson:"options,omitempty"`
	IsSystem bool           `json:"is_system" bson:"is_system"`
}

// FilterPredicate is one user-authored condition on a report query.
// Predicates combine with implicit AND. Operators: eq, ne, contains,
// gt, lt, between, in. A between value is a Range; everything else takes
// a single scalar.
type FilterPredicate struct {
	Field    string      `json:"field" bson:"field"`
	Operator string      `json:"operator" bson:"operator"`
	Value    interface{} `json:"value" bson:"value"`
}

// Range is the value shape for the between operator. Bounds are inclusive.
type Range struct {
	Start interface{} `json:"start" bson:"start"`
	End   interface{} `json:"end" bson:"end"`
}

// IsComplete reports whether the predicate can be translated into a query.
// Half-edited predicates are expected while a user is typing; they are
// skipped during translation, not rejected.
func (p FilterPredicate) IsComplete() bool {
	if p.Field == "" || p.Operator == "" {
		return false
	}
	if p.Operator == "between" {
		r, ok := AsRange(p.Value)
		return ok && r.Start != nil && r.End != nil
	}
	return p.Value != nil
}

// AsRange coerces a predicate value into a Range. JSON decoding delivers
// the value as map[string]interface{}, bson as primitive.M; both are handled.
func AsRange(v interface{}) (Range, bool) {
	switch r := v.(type) {
	case Range:
		return r, true
	case *Range:
		if r == nil {
			return Range{}, false
		}
		return *r, true
	case map[string]interface{}:
		return Range{Start: r["start"], End: r["end"]}, true
	case primitive.M:
		return Range{Start: r["start"], End: r["end"]}, true
	}
	return Range{}, false
}

// SortSpec is one key of a multi-key sort.
type SortSpec struct {
	Field     string `json:"field" bson:"field"`
	Direction string `json:"direction" bson:"direction"` // asc | desc
}
