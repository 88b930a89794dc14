package customfield

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	common_models "go-reporting/internal/common/models"
	"go-reporting/internal/features/audit"

	"github.com/d5/tengo/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CustomFieldService interface {
	CreateField(ctx context.Context, orgID primitive.ObjectID, field *CustomField) error
	GetField(ctx context.Context, orgID primitive.ObjectID, id string) (*CustomField, error)
	ListFields(ctx context.Context, orgID primitive.ObjectID, objectType string) ([]CustomField, error)
	ListActiveFields(ctx context.Context, orgID primitive.ObjectID, objectType string) ([]CustomField, error)
	UpdateField(ctx context.Context, orgID primitive.ObjectID, id string, field *CustomField) error
	DeleteField(ctx context.Context, orgID primitive.ObjectID, id string) error
}

type CustomFieldServiceImpl struct {
	Repo         CustomFieldRepository
	AuditService audit.AuditService
}

func NewCustomFieldService(repo CustomFieldRepository, auditService audit.AuditService) CustomFieldService {
	return &CustomFieldServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *CustomFieldServiceImpl) CreateField(ctx context.Context, orgID primitive.ObjectID, field *CustomField) error {
	if err := validateField(field); err != nil {
		return err
	}

	existing, err := s.Repo.List(ctx, orgID, field.ObjectType)
	if err == nil {
		for _, f := range existing {
			if f.Name == field.Name {
				return fmt.Errorf("field '%s' already exists on %s", field.Name, field.ObjectType)
			}
		}
	}

	field.ID = primitive.NewObjectID()
	if field.Status == "" {
		field.Status = StatusActive
	}
	field.CreatedAt = time.Now()
	field.UpdatedAt = time.Now()

	err = s.Repo.Create(ctx, orgID, field)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionField, "custom_fields", field.ID.Hex(), map[string]common_models.Change{
			"field": {New: field},
		})
	}
	return err
}

func (s *CustomFieldServiceImpl) GetField(ctx context.Context, orgID primitive.ObjectID, id string) (*CustomField, error) {
	return s.Repo.Get(ctx, orgID, id)
}

func (s *CustomFieldServiceImpl) ListFields(ctx context.Context, orgID primitive.ObjectID, objectType string) ([]CustomField, error) {
	return s.Repo.List(ctx, orgID, objectType)
}

func (s *CustomFieldServiceImpl) ListActiveFields(ctx context.Context, orgID primitive.ObjectID, objectType string) ([]CustomField, error) {
	return s.Repo.ListActive(ctx, orgID, objectType)
}

func (s *CustomFieldServiceImpl) UpdateField(ctx context.Context, orgID primitive.ObjectID, id string, field *CustomField) error {
	old, err := s.Repo.Get(ctx, orgID, id)
	if err != nil {
		return err
	}

	// Name and object binding are fixed after creation.
	field.Name = old.Name
	field.ObjectType = old.ObjectType
	if err := validateField(field); err != nil {
		return err
	}

	field.UpdatedAt = time.Now()
	err = s.Repo.Update(ctx, orgID, id, field)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionField, "custom_fields", id, map[string]common_models.Change{
			"field": {Old: old, New: field},
		})
	}
	return err
}

func (s *CustomFieldServiceImpl) DeleteField(ctx context.Context, orgID primitive.ObjectID, id string) error {
	old, _ := s.Repo.Get(ctx, orgID, id)
	err := s.Repo.Delete(ctx, orgID, id)
	if err == nil {
		name := id
		if old != nil {
			name = old.Name
		}
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionField, "custom_fields", name, map[string]common_models.Change{
			"field": {Old: old, New: "DELETED"},
		})
	}
	return err
}

func validateField(field *CustomField) error {
	if field.ObjectType == "" {
		return errors.New("object type is required")
	}
	if field.Label == "" {
		return errors.New("field label is required")
	}
	if !strings.HasSuffix(field.Name, common_models.CustomFieldSuffix) {
		return fmt.Errorf("custom field name must end with %q", common_models.CustomFieldSuffix)
	}

	switch field.Type {
	case common_models.FieldTypeText, common_models.FieldTypeNumber,
		common_models.FieldTypeDate, common_models.FieldTypeBoolean,
		common_models.FieldTypeSelect:
	case common_models.FieldTypeFormula:
		if field.Expression == "" {
			return errors.New("formula fields require an expression")
		}
		// Compile once up front so broken scripts are rejected at save
		// time instead of failing on every report run.
		script := tengo.NewScript([]byte(field.Expression))
		_ = script.Add("row", map[string]interface{}{})
		if _, err := script.Compile(); err != nil {
			return fmt.Errorf("invalid formula expression: %w", err)
		}
	default:
		return fmt.Errorf("unsupported field type %q", field.Type)
	}
	return nil
}
