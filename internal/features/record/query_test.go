package record

import (
	"reflect"
	"testing"
	"time"

	"go-reporting/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testFieldTypes = map[string]models.FieldType{
	"amount":     models.FieldTypeNumber,
	"status":     models.FieldTypeText,
	"name":       models.FieldTypeText,
	"closed":     models.FieldTypeBoolean,
	"created_at": models.FieldTypeDate,
	"due_date":   models.FieldTypeDate,
}

func TestBuildFilterQueryOperators(t *testing.T) {
	tests := []struct {
		name   string
		filter models.FilterPredicate
		key    string
		want   interface{}
	}{
		{
			name:   "equals is exact match",
			filter: models.FilterPredicate{Field: "status", Operator: "eq", Value: "open"},
			key:    "data.status",
			want:   "open",
		},
		{
			name:   "not equals",
			filter: models.FilterPredicate{Field: "status", Operator: "ne", Value: "closed"},
			key:    "data.status",
			want:   bson.M{"$ne": "closed"},
		},
		{
			name:   "contains is case-insensitive regex",
			filter: models.FilterPredicate{Field: "name", Operator: "contains", Value: "acme"},
			key:    "data.name",
			want:   bson.M{"$regex": primitive.Regex{Pattern: "acme", Options: "i"}},
		},
		{
			name:   "greater than coerces numbers",
			filter: models.FilterPredicate{Field: "amount", Operator: "gt", Value: "100"},
			key:    "data.amount",
			want:   bson.M{"$gt": float64(100)},
		},
		{
			name:   "less than",
			filter: models.FilterPredicate{Field: "amount", Operator: "lt", Value: float64(50)},
			key:    "data.amount",
			want:   bson.M{"$lt": float64(50)},
		},
		{
			name:   "in accepts a list",
			filter: models.FilterPredicate{Field: "status", Operator: "in", Value: []interface{}{"open", "pending"}},
			key:    "data.status",
			want:   bson.M{"$in": []interface{}{"open", "pending"}},
		},
		{
			name:   "in coerces elements with the field type",
			filter: models.FilterPredicate{Field: "amount", Operator: "in", Value: []interface{}{"10", "20"}},
			key:    "data.amount",
			want:   bson.M{"$in": []interface{}{float64(10), float64(20)}},
		},
		{
			name:   "in splits a comma separated string",
			filter: models.FilterPredicate{Field: "status", Operator: "in", Value: "open, pending"},
			key:    "data.status",
			want:   bson.M{"$in": []interface{}{"open", "pending"}},
		},
		{
			name:   "system field is not prefixed",
			filter: models.FilterPredicate{Field: "created_at", Operator: "gt", Value: "2024-01-01"},
			key:    "created_at",
			want:   bson.M{"$gt": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := buildFilterQuery(testFieldTypes, []models.FilterPredicate{tt.filter})
			if err != nil {
				t.Fatalf("buildFilterQuery: %v", err)
			}
			got, ok := query[tt.key]
			if !ok {
				t.Fatalf("expected key %q in query, got %v", tt.key, query)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBuildFilterQueryBetweenInclusive(t *testing.T) {
	query, err := buildFilterQuery(testFieldTypes, []models.FilterPredicate{
		{Field: "amount", Operator: "between", Value: models.Range{Start: float64(10), End: float64(20)}},
	})
	if err != nil {
		t.Fatalf("buildFilterQuery: %v", err)
	}

	want := bson.M{"$gte": float64(10), "$lte": float64(20)}
	if !reflect.DeepEqual(query["data.amount"], want) {
		t.Errorf("between bounds = %#v, want inclusive %#v", query["data.amount"], want)
	}
}

func TestBuildFilterQueryBetweenDates(t *testing.T) {
	query, err := buildFilterQuery(testFieldTypes, []models.FilterPredicate{
		{Field: "due_date", Operator: "between", Value: map[string]interface{}{"start": "2024-01-01", "end": "2024-06-30"}},
	})
	if err != nil {
		t.Fatalf("buildFilterQuery: %v", err)
	}

	want := bson.M{
		"$gte": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		"$lte": time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}
	if !reflect.DeepEqual(query["data.due_date"], want) {
		t.Errorf("date range = %#v, want %#v", query["data.due_date"], want)
	}
}

func TestBuildFilterQuerySkipsIncomplete(t *testing.T) {
	query, err := buildFilterQuery(testFieldTypes, []models.FilterPredicate{
		{Field: "", Operator: "eq", Value: "x"},
		{Field: "status", Operator: "", Value: nil},
		{Field: "status", Operator: "eq", Value: nil},
		{Field: "amount", Operator: "between", Value: models.Range{Start: float64(1)}},
		{Field: "status", Operator: "eq", Value: "open"},
	})
	if err != nil {
		t.Fatalf("buildFilterQuery: %v", err)
	}

	if len(query) != 1 {
		t.Fatalf("expected only the complete predicate, got %v", query)
	}
	if query["data.status"] != "open" {
		t.Errorf("surviving predicate = %v", query)
	}
}

func TestBuildFilterQueryRejectsBadValues(t *testing.T) {
	_, err := buildFilterQuery(testFieldTypes, []models.FilterPredicate{
		{Field: "amount", Operator: "gt", Value: "not-a-number"},
	})
	if err == nil {
		t.Fatal("expected error for non-numeric value on number field")
	}

	_, err = buildFilterQuery(testFieldTypes, []models.FilterPredicate{
		{Field: "status", Operator: "weird", Value: "x"},
	})
	if err == nil {
		t.Fatal("expected error for unknown operator")
	}
}

func TestBuildSortAppendsStableTieBreak(t *testing.T) {
	sort := buildSort([]models.SortSpec{
		{Field: "amount", Direction: "desc"},
		{Field: "name", Direction: "asc"},
	})

	want := bson.D{
		{Key: "data.amount", Value: -1},
		{Key: "data.name", Value: 1},
		{Key: "_id", Value: 1},
	}
	if !reflect.DeepEqual(sort, want) {
		t.Errorf("sort = %v, want %v", sort, want)
	}
}

func TestBuildSortNoDuplicateTieBreak(t *testing.T) {
	sort := buildSort([]models.SortSpec{{Field: "_id", Direction: "desc"}})
	if len(sort) != 1 {
		t.Fatalf("expected single key, got %v", sort)
	}
	if sort[0].Key != "_id" || sort[0].Value != -1 {
		t.Errorf("sort = %v", sort)
	}
}

func TestBuildSortEmptyStillStable(t *testing.T) {
	sort := buildSort(nil)
	want := bson.D{{Key: "_id", Value: 1}}
	if !reflect.DeepEqual(sort, want) {
		t.Errorf("sort = %v, want %v", sort, want)
	}
}

func TestQueryInputNormalize(t *testing.T) {
	tests := []struct {
		name       string
		page, size int64
		wantPage   int64
		wantSize   int64
		wantOffset int64
	}{
		{"defaults", 0, 0, 1, 25, 0},
		{"negative page clamps", -3, 10, 1, 10, 0},
		{"third page", 3, 50, 3, 50, 100},
		{"oversized page size clamps", 1, 500000, 1, 100000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := QueryInput{Page: tt.page, PageSize: tt.size}
			q.normalize()
			if q.Page != tt.wantPage || q.PageSize != tt.wantSize {
				t.Errorf("normalize = page %d size %d, want %d/%d", q.Page, q.PageSize, tt.wantPage, tt.wantSize)
			}
			if q.offset() != tt.wantOffset {
				t.Errorf("offset = %d, want %d", q.offset(), tt.wantOffset)
			}
		})
	}
}

func TestScopedQueryAlwaysTenantScoped(t *testing.T) {
	orgID := primitive.NewObjectID()

	base := scopedQuery(orgID, "deals", nil)
	if base["organization_id"] != orgID || base["object_type"] != "deals" {
		t.Errorf("scope missing: %v", base)
	}

	withFilter := scopedQuery(orgID, "deals", bson.M{"data.status": "open"})
	and, ok := withFilter["$and"].([]bson.M)
	if !ok || len(and) != 2 {
		t.Fatalf("expected $and of scope and filter, got %v", withFilter)
	}
	if and[0]["organization_id"] != orgID {
		t.Errorf("first clause must carry tenant scope: %v", and[0])
	}
}

func TestDataKey(t *testing.T) {
	tests := map[string]string{
		"_id":                "_id",
		"created_at":         "created_at",
		"amount":             "data.amount",
		"discount__c":        "data.discount__c",
		"order.order_number": "data.order.order_number",
	}
	for in, want := range tests {
		if got := dataKey(in); got != want {
			t.Errorf("dataKey(%q) = %q, want %q", in, got, want)
		}
	}
}
