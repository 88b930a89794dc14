package catalog

import (
	"go-reporting/internal/common/models"
)

type FieldKind string

const (
	KindStandard FieldKind = "standard"
	KindCustom   FieldKind = "custom"
)

// ReportField is one selectable column of an object type's catalog.
// Name is a physical column, a dotted relation path (customer.first_name)
// or a custom field key ending in "__c". Catalogs are resolved fresh per
// object-type selection and never persisted; a report stores only the
// names of the selected fields.
type ReportField struct {
	Kind        FieldKind        `json:"kind"`
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	DataType    models.FieldType `json:"data_type"`
	Selected    bool             `json:"selected"`
}

// SelectedNames returns the names of the selected fields in catalog order.
func SelectedNames(fields []ReportField) []string {
	var names []string
	for _, f := range fields {
		if f.Selected {
			names = append(names, f.Name)
		}
	}
	return names
}
