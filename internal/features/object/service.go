package object

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	common_models "go-reporting/internal/common/models"
	"go-reporting/internal/connectors"
	"go-reporting/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ObjectService interface {
	CreateObject(ctx context.Context, orgID primitive.ObjectID, def *ObjectDef) error
	GetObjectByName(ctx context.Context, orgID primitive.ObjectID, name string) (*ObjectDef, error)
	ListObjects(ctx context.Context, orgID primitive.ObjectID) ([]ObjectDef, error)
	UpdateObject(ctx context.Context, orgID primitive.ObjectID, def *ObjectDef) error
	DeleteObject(ctx context.Context, orgID primitive.ObjectID, name string) error

	// Describe returns the physical column list of an object type. For
	// internal objects this is the stored schema plus the virtual system
	// columns; for external objects it is fetched live over a connector.
	Describe(ctx context.Context, orgID primitive.ObjectID, name string) ([]common_models.FieldDef, error)
}

type ObjectServiceImpl struct {
	Repo         ObjectRepository
	AuditService audit.AuditService
}

func NewObjectService(repo ObjectRepository, auditService audit.AuditService) ObjectService {
	return &ObjectServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *ObjectServiceImpl) CreateObject(ctx context.Context, orgID primitive.ObjectID, def *ObjectDef) error {
	if def.Name == "" || def.Label == "" {
		return errors.New("object name and label are required")
	}

	if _, err := s.Repo.FindByName(ctx, orgID, def.Name); err == nil {
		return errors.New("object with this name already exists")
	}

	if def.Source == "" {
		def.Source = SourceInternal
	}

	def.ID = primitive.NewObjectID()
	def.CreatedAt = time.Now()
	def.UpdatedAt = time.Now()

	err := s.Repo.Create(ctx, orgID, def)
	if err == nil {
		changes := map[string]common_models.Change{
			"name":  {New: def.Name},
			"label": {New: def.Label},
		}
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionObject, "object_defs", def.ID.Hex(), changes)
	}
	return err
}

func (s *ObjectServiceImpl) GetObjectByName(ctx context.Context, orgID primitive.ObjectID, name string) (*ObjectDef, error) {
	def, err := s.Repo.FindByName(ctx, orgID, name)
	if err != nil {
		return nil, err
	}
	s.appendSystemFields(def)
	return def, nil
}

func (s *ObjectServiceImpl) ListObjects(ctx context.Context, orgID primitive.ObjectID) ([]ObjectDef, error) {
	defs, err := s.Repo.List(ctx, orgID)
	if err != nil {
		return nil, err
	}
	for i := range defs {
		s.appendSystemFields(&defs[i])
	}
	return defs, nil
}

func (s *ObjectServiceImpl) UpdateObject(ctx context.Context, orgID primitive.ObjectID, def *ObjectDef) error {
	existing, err := s.Repo.FindByName(ctx, orgID, def.Name)
	if err != nil {
		return err
	}

	def.UpdatedAt = time.Now()
	err = s.Repo.Update(ctx, orgID, def)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionObject, "object_defs", def.Name, map[string]common_models.Change{
			"object": {Old: existing, New: def},
		})
	}
	return err
}

func (s *ObjectServiceImpl) DeleteObject(ctx context.Context, orgID primitive.ObjectID, name string) error {
	existing, _ := s.Repo.FindByName(ctx, orgID, name)
	if existing != nil && existing.IsSystem {
		return errors.New("system objects cannot be deleted")
	}

	err := s.Repo.Delete(ctx, orgID, name)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionObject, "object_defs", name, map[string]common_models.Change{
			"object": {Old: existing, New: "DELETED"},
		})
	}
	return err
}

func (s *ObjectServiceImpl) Describe(ctx context.Context, orgID primitive.ObjectID, name string) ([]common_models.FieldDef, error) {
	def, err := s.Repo.FindByName(ctx, orgID, name)
	if err != nil {
		return nil, fmt.Errorf("object not found: %w", err)
	}

	if def.Source == SourceInternal || def.Source == "" {
		s.appendSystemFields(def)
		return def.Fields, nil
	}

	conn := connectors.NewExternalDBConnector(string(def.Source))
	if err := conn.Connect(ctx, def.SourceConfig); err != nil {
		return nil, fmt.Errorf("describe connection failed: %w", err)
	}
	defer conn.Disconnect(ctx)

	schema, err := conn.DescribeObject(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("describe failed: %w", err)
	}

	fields := make([]common_models.FieldDef, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		fields = append(fields, common_models.FieldDef{
			Name:     col.Name,
			Label:    col.Label,
			Type:     mapSQLType(col.Type),
			Required: col.IsRequired,
		})
	}
	return fields, nil
}

func (s *ObjectServiceImpl) appendSystemFields(def *ObjectDef) {
	systemFields := []common_models.FieldDef{
		{
			Name:     "created_at",
			Label:    "Created At",
			Type:     common_models.FieldTypeDate,
			IsSystem: true,
		},
		{
			Name:     "updated_at",
			Label:    "Updated At",
			Type:     common_models.FieldTypeDate,
			IsSystem: true,
		},
	}
	def.Fields = append(def.Fields, systemFields...)
}

func mapSQLType(sqlType string) common_models.FieldType {
	t := strings.ToLower(sqlType)
	switch {
	case strings.Contains(t, "int"), strings.Contains(t, "numeric"),
		strings.Contains(t, "decimal"), strings.Contains(t, "double"),
		strings.Contains(t, "real"), strings.Contains(t, "float"):
		return common_models.FieldTypeNumber
	case strings.Contains(t, "bool"):
		return common_models.FieldTypeBoolean
	case strings.Contains(t, "date"), strings.Contains(t, "time"):
		return common_models.FieldTypeDate
	default:
		return common_models.FieldTypeText
	}
}
