package record

import (
	"context"
	"fmt"
	"strings"

	"go-reporting/internal/common/models"
	"go-reporting/internal/features/customfield"
	"go-reporting/internal/features/object"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// QueryResult carries one page of rows plus the unpaginated total when
// the caller asked for it. Total is -1 when counting was skipped.
type QueryResult struct {
	Rows  []map[string]interface{} `json:"rows"`
	Total int64                    `json:"total"`
}

type RecordService interface {
	// Query translates a report definition into a data-store query and
	// returns one page of rows. Tenancy scoping, operator mapping,
	// stable ordering and formula evaluation all happen here.
	Query(ctx context.Context, orgID primitive.ObjectID, input QueryInput) (*QueryResult, error)

	CreateRecord(ctx context.Context, orgID primitive.ObjectID, objectType string, data map[string]interface{}) (string, error)
	GetRecord(ctx context.Context, orgID primitive.ObjectID, objectType, id string) (map[string]interface{}, error)
	DeleteRecord(ctx context.Context, orgID primitive.ObjectID, objectType, id string) error
}

type RecordServiceImpl struct {
	Repo               RecordRepository
	ObjectService      object.ObjectService
	CustomFieldService customfield.CustomFieldService
	Logger             *zap.Logger
}

func NewRecordService(repo RecordRepository, objectService object.ObjectService, customFieldService customfield.CustomFieldService, logger *zap.Logger) RecordService {
	return &RecordServiceImpl{
		Repo:               repo,
		ObjectService:      objectService,
		CustomFieldService: customFieldService,
		Logger:             logger,
	}
}

func (s *RecordServiceImpl) Query(ctx context.Context, orgID primitive.ObjectID, input QueryInput) (*QueryResult, error) {
	if input.ObjectType == "" {
		return nil, fmt.Errorf("query failed: object type is required")
	}
	input.normalize()

	fieldTypes, formulas := s.loadFieldInfo(ctx, orgID, input.ObjectType)

	filter, err := buildFilterQuery(fieldTypes, input.Filters)
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}
	sort := buildSort(input.Sort)

	// Formula fields are computed, not stored, so they must not leak
	// into the projection.
	projection := make([]string, 0, len(input.SelectedFields))
	selectedFormulas := map[string]string{}
	for _, name := range input.SelectedFields {
		if expr, ok := formulas[name]; ok {
			selectedFormulas[name] = expr
			continue
		}
		projection = append(projection, name)
	}

	rows, err := s.Repo.List(ctx, orgID, input.ObjectType, filter, projection, sort, input.PageSize, input.offset())
	if err != nil {
		return nil, fmt.Errorf("query failed: %v", err)
	}

	for name, expr := range selectedFormulas {
		s.evaluateFormula(ctx, rows, name, expr)
	}

	result := &QueryResult{Rows: rows, Total: -1}
	if input.WithCount {
		total, err := s.Repo.Count(ctx, orgID, input.ObjectType, filter)
		if err != nil {
			return nil, fmt.Errorf("query failed: %v", err)
		}
		result.Total = total
	}
	return result, nil
}

// loadFieldInfo gathers the field type map used for value coercion and
// the expressions of formula custom fields. Lookup failures degrade to
// untyped filtering rather than failing the whole query.
func (s *RecordServiceImpl) loadFieldInfo(ctx context.Context, orgID primitive.ObjectID, objectType string) (map[string]models.FieldType, map[string]string) {
	fieldTypes := map[string]models.FieldType{
		"created_at": models.FieldTypeDate,
		"updated_at": models.FieldTypeDate,
	}
	formulas := map[string]string{}

	if defs, err := s.ObjectService.Describe(ctx, orgID, objectType); err == nil {
		for _, d := range defs {
			fieldTypes[d.Name] = d.Type
		}
	} else {
		s.Logger.Warn("describe failed, filtering untyped",
			zap.String("object_type", objectType), zap.Error(err))
	}

	if customs, err := s.CustomFieldService.ListActiveFields(ctx, orgID, objectType); err == nil {
		for _, cf := range customs {
			fieldTypes[cf.Name] = cf.Type
			if cf.Type == models.FieldTypeFormula && cf.Expression != "" {
				formulas[cf.Name] = cf.Expression
			}
		}
	} else {
		s.Logger.Warn("custom field lookup failed",
			zap.String("object_type", objectType), zap.Error(err))
	}

	return fieldTypes, formulas
}

// evaluateFormula runs a formula expression against every row. A broken
// expression or a row it cannot handle yields nil for that cell; the
// query itself never fails on formula errors.
func (s *RecordServiceImpl) evaluateFormula(ctx context.Context, rows []map[string]interface{}, name, expr string) {
	src := "value := (" + strings.TrimSpace(expr) + ")"

	for _, row := range rows {
		script := tengo.NewScript([]byte(src))
		script.SetImports(stdlib.GetModuleMap("math", "text", "times"))
		if err := script.Add("row", scriptRow(row)); err != nil {
			row[name] = nil
			continue
		}
		compiled, err := script.RunContext(ctx)
		if err != nil {
			s.Logger.Warn("formula evaluation failed",
				zap.String("field", name), zap.Error(err))
			row[name] = nil
			continue
		}
		row[name] = compiled.Get("value").Value()
	}
}

// scriptRow strips values tengo cannot represent down to plain types.
func scriptRow(row map[string]interface{}) map[string]interface{} {
	clean := make(map[string]interface{}, len(row))
	for k, v := range row {
		switch tv := v.(type) {
		case primitive.ObjectID:
			clean[k] = tv.Hex()
		case int32:
			clean[k] = int64(tv)
		default:
			clean[k] = v
		}
	}
	return clean
}

func (s *RecordServiceImpl) CreateRecord(ctx context.Context, orgID primitive.ObjectID, objectType string, data map[string]interface{}) (string, error) {
	if objectType == "" {
		return "", fmt.Errorf("object type is required")
	}
	if _, err := s.ObjectService.GetObjectByName(ctx, orgID, objectType); err != nil {
		return "", fmt.Errorf("unknown object type %q", objectType)
	}

	id, err := s.Repo.Create(ctx, orgID, objectType, data)
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func (s *RecordServiceImpl) GetRecord(ctx context.Context, orgID primitive.ObjectID, objectType, id string) (map[string]interface{}, error) {
	return s.Repo.Get(ctx, orgID, objectType, id)
}

func (s *RecordServiceImpl) DeleteRecord(ctx context.Context, orgID primitive.ObjectID, objectType, id string) error {
	return s.Repo.Delete(ctx, orgID, objectType, id)
}
