package catalog

import (
	"context"
	"errors"
	"fmt"

	"go-reporting/internal/common/models"
	"go-reporting/internal/features/customfield"
	"go-reporting/internal/features/object"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrCatalogUnavailable marks a failed field resolution. Callers keep an
// empty catalog and stay interactive; forward navigation is blocked by
// the "no fields selected" gate, not by this error.
var ErrCatalogUnavailable = errors.New("failed to load fields")

type CatalogService interface {
	// ResolveFields produces the selectable field list for an object
	// type, merging physical columns with the organization's active
	// custom fields. Fields whose names appear in existingSelection come
	// back with Selected set.
	ResolveFields(ctx context.Context, orgID primitive.ObjectID, objectType string, existingSelection []string) ([]ReportField, error)
}

type CatalogServiceImpl struct {
	ObjectService      object.ObjectService
	CustomFieldService customfield.CustomFieldService
	Logger             *zap.Logger
}

func NewCatalogService(objectService object.ObjectService, customFieldService customfield.CustomFieldService, logger *zap.Logger) CatalogService {
	return &CatalogServiceImpl{
		ObjectService:      objectService,
		CustomFieldService: customFieldService,
		Logger:             logger,
	}
}

// Object types with a well-known joined shape get a fixed catalog,
// dotted paths included, instead of a describe round-trip.
var predefinedCatalogs = map[string][]ReportField{
	"order_items": {
		{Kind: KindStandard, Name: "order.order_number", DisplayName: "Order Number", DataType: models.FieldTypeText},
		{Kind: KindStandard, Name: "product.name", DisplayName: "Product", DataType: models.FieldTypeText},
		{Kind: KindStandard, Name: "customer.first_name", DisplayName: "Customer First Name", DataType: models.FieldTypeText},
		{Kind: KindStandard, Name: "customer.last_name", DisplayName: "Customer Last Name", DataType: models.FieldTypeText},
		{Kind: KindStandard, Name: "quantity", DisplayName: "Quantity", DataType: models.FieldTypeNumber},
		{Kind: KindStandard, Name: "unit_price", DisplayName: "Unit Price", DataType: models.FieldTypeNumber},
		{Kind: KindStandard, Name: "total", DisplayName: "Line Total", DataType: models.FieldTypeNumber},
		{Kind: KindStandard, Name: "created_at", DisplayName: "Created At", DataType: models.FieldTypeDate},
	},
	"quote_items": {
		{Kind: KindStandard, Name: "quote.quote_number", DisplayName: "Quote Number", DataType: models.FieldTypeText},
		{Kind: KindStandard, Name: "product.name", DisplayName: "Product", DataType: models.FieldTypeText},
		{Kind: KindStandard, Name: "quantity", DisplayName: "Quantity", DataType: models.FieldTypeNumber},
		{Kind: KindStandard, Name: "unit_price", DisplayName: "Unit Price", DataType: models.FieldTypeNumber},
		{Kind: KindStandard, Name: "total", DisplayName: "Line Total", DataType: models.FieldTypeNumber},
		{Kind: KindStandard, Name: "created_at", DisplayName: "Created At", DataType: models.FieldTypeDate},
	},
}

func (s *CatalogServiceImpl) ResolveFields(ctx context.Context, orgID primitive.ObjectID, objectType string, existingSelection []string) ([]ReportField, error) {
	if objectType == "" {
		return nil, fmt.Errorf("%w: object type is empty", ErrCatalogUnavailable)
	}

	var fields []ReportField

	if fixed, ok := predefinedCatalogs[objectType]; ok {
		fields = make([]ReportField, len(fixed))
		copy(fields, fixed)
	} else {
		columns, err := s.ObjectService.Describe(ctx, orgID, objectType)
		if err != nil {
			s.Logger.Warn("field catalog describe failed",
				zap.String("object_type", objectType),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}

		custom, err := s.CustomFieldService.ListActiveFields(ctx, orgID, objectType)
		if err != nil {
			s.Logger.Warn("field catalog custom field lookup failed",
				zap.String("object_type", objectType),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}

		seen := make(map[string]bool)
		for _, col := range columns {
			if seen[col.Name] {
				continue
			}
			seen[col.Name] = true
			label := col.Label
			if label == "" {
				label = col.Name
			}
			fields = append(fields, ReportField{
				Kind:        KindStandard,
				Name:        col.Name,
				DisplayName: label,
				DataType:    col.Type,
			})
		}
		for _, cf := range custom {
			if seen[cf.Name] {
				continue
			}
			seen[cf.Name] = true
			fields = append(fields, ReportField{
				Kind:        KindCustom,
				Name:        cf.Name,
				DisplayName: cf.Label,
				DataType:    cf.Type,
			})
		}
	}

	if len(existingSelection) > 0 {
		selected := make(map[string]bool, len(existingSelection))
		for _, name := range existingSelection {
			selected[name] = true
		}
		for i := range fields {
			fields[i].Selected = selected[fields[i].Name]
		}
	}

	return fields, nil
}
