package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-reporting/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QueryInput is everything needed to translate one report query.
type QueryInput struct {
	ObjectType     string
	SelectedFields []string
	Filters        []models.FilterPredicate
	Sort           []models.SortSpec
	Page           int64
	PageSize       int64
	WithCount      bool
}

// maxPageSize bounds a single fetch. Chart and export runs request
// large windows through the same path, so the bound sits well above
// interactive page sizes.
const maxPageSize = 100000

func (q *QueryInput) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 25
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
}

func (q QueryInput) offset() int64 {
	return (q.Page - 1) * q.PageSize
}

// buildFilterQuery translates the complete predicates into a Mongo
// filter document. Incomplete predicates are in-progress user edits and
// are skipped without error. Values are coerced using the field types so
// that dates and numbers compare as their own kind rather than as text.
func buildFilterQuery(fieldTypes map[string]models.FieldType, filters []models.FilterPredicate) (bson.M, error) {
	query := bson.M{}

	for _, f := range filters {
		if !f.IsComplete() {
			continue
		}

		fieldName := f.Field
		kind := fieldTypes[fieldName]
		key := dataKey(fieldName)

		if f.Operator == "between" {
			r, _ := models.AsRange(f.Value)
			start, err := convertValue(kind, r.Start)
			if err != nil {
				return nil, fmt.Errorf("invalid range start for '%s': %v", fieldName, err)
			}
			end, err := convertValue(kind, r.End)
			if err != nil {
				return nil, fmt.Errorf("invalid range end for '%s': %v", fieldName, err)
			}
			// Bounds are inclusive on both sides.
			query[key] = bson.M{"$gte": start, "$lte": end}
			continue
		}

		if f.Operator == "in" {
			elems := toSlice(f.Value)
			converted := make([]interface{}, 0, len(elems))
			for _, e := range elems {
				tv, err := convertValue(kind, e)
				if err != nil {
					return nil, fmt.Errorf("invalid filter value for '%s': %v", fieldName, err)
				}
				converted = append(converted, tv)
			}
			query[key] = bson.M{"$in": converted}
			continue
		}

		typedVal, err := convertValue(kind, f.Value)
		if err != nil {
			return nil, fmt.Errorf("invalid filter value for '%s': %v", fieldName, err)
		}

		switch f.Operator {
		case "", "eq", "=":
			query[key] = typedVal
		case "ne", "!=":
			query[key] = bson.M{"$ne": typedVal}
		case "contains":
			if strVal, ok := typedVal.(string); ok {
				query[key] = bson.M{"$regex": primitive.Regex{Pattern: regexEscape(strVal), Options: "i"}}
			} else {
				query[key] = typedVal
			}
		case "gt":
			query[key] = bson.M{"$gt": typedVal}
		case "lt":
			query[key] = bson.M{"$lt": typedVal}
		default:
			return nil, fmt.Errorf("unsupported operator '%s'", f.Operator)
		}
	}

	return query, nil
}

// buildSort translates the sort keys in order and appends an _id
// ascending tie-break so pagination stays stable when sort keys collide.
func buildSort(sorts []models.SortSpec) bson.D {
	sort := bson.D{}
	hasID := false
	for _, s := range sorts {
		if s.Field == "" {
			continue
		}
		dir := 1
		if strings.EqualFold(s.Direction, "desc") {
			dir = -1
		}
		key := dataKey(s.Field)
		if key == "_id" {
			hasID = true
		}
		sort = append(sort, bson.E{Key: key, Value: dir})
	}
	if !hasID {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}

var systemFields = map[string]bool{
	"_id":        true,
	"created_at": true,
	"updated_at": true,
	"created_by": true,
	"updated_by": true,
}

// dataKey maps a report field name onto its storage path. System columns
// sit at the document root; everything else, dotted relation paths and
// custom fields included, lives under data.
func dataKey(field string) string {
	if systemFields[field] {
		return field
	}
	return "data." + field
}

func convertValue(kind models.FieldType, val interface{}) (interface{}, error) {
	if val == nil {
		return nil, nil
	}

	switch kind {
	case models.FieldTypeNumber:
		switch v := val.(type) {
		case float64, int, int64:
			return v, nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("not a number: %q", v)
			}
			return f, nil
		}
	case models.FieldTypeDate:
		if s, ok := val.(string); ok {
			return parseDate(s)
		}
		if t, ok := val.(time.Time); ok {
			return t, nil
		}
	case models.FieldTypeBoolean:
		switch v := val.(type) {
		case bool:
			return v, nil
		case string:
			return v == "true", nil
		}
	}
	return val, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func toSlice(val interface{}) []interface{} {
	switch v := val.(type) {
	case []interface{}:
		return v
	case primitive.A:
		return v
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case string:
		parts := strings.Split(v, ",")
		out := make([]interface{}, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out
	default:
		return []interface{}{val}
	}
}

var regexMeta = strings.NewReplacer(
	`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
	`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
	`^`, `\^`, `$`, `\$`, `|`, `\|`,
)

func regexEscape(s string) string {
	return regexMeta.Replace(s)
}
