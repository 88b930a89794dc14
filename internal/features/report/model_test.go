package report

import (
	"reflect"
	"testing"

	common_models "go-reporting/internal/common/models"
	"go-reporting/internal/features/chart"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestReportRoundTrip(t *testing.T) {
	original := Report{
		ID:             primitive.NewObjectID(),
		OrganizationID: primitive.NewObjectID(),
		Name:           "Open Deals",
		ObjectType:     "deals",
		SelectedFields: []string{"name", "status"},
		Filters: []common_models.FilterPredicate{
			{Field: "status", Operator: "=", Value: "Open"},
		},
		Sorting: []common_models.SortSpec{{Field: "name", Direction: "asc"}},
		Charts: []chart.ChartSpec{
			{Type: chart.TypeBar, Title: "By Status", XField: "status", Aggregation: chart.AggCount},
		},
	}

	raw, err := bson.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var loaded Report
	if err := bson.Unmarshal(raw, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(loaded.SelectedFields, original.SelectedFields) {
		t.Errorf("selected fields = %v", loaded.SelectedFields)
	}
	if len(loaded.Filters) != 1 || loaded.Filters[0].Field != "status" ||
		loaded.Filters[0].Operator != "=" || loaded.Filters[0].Value != "Open" {
		t.Errorf("filters = %+v", loaded.Filters)
	}
	if !reflect.DeepEqual(loaded.Charts, original.Charts) {
		t.Errorf("charts = %+v", loaded.Charts)
	}
	if !reflect.DeepEqual(loaded.Sorting, original.Sorting) {
		t.Errorf("sorting = %+v", loaded.Sorting)
	}
}
