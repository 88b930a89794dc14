package folder

import (
	"context"
	"errors"
	"time"

	common_models "go-reporting/internal/common/models"
	"go-reporting/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FolderService interface {
	CreateFolder(ctx context.Context, orgID primitive.ObjectID, folder *Folder) error
	GetFolder(ctx context.Context, orgID primitive.ObjectID, id string) (*Folder, error)
	ListFolders(ctx context.Context, orgID primitive.ObjectID) ([]Folder, error)
	UpdateFolder(ctx context.Context, orgID primitive.ObjectID, id string, folder *Folder) error
	DeleteFolder(ctx context.Context, orgID primitive.ObjectID, id string) error
}

type FolderServiceImpl struct {
	Repo         FolderRepository
	AuditService audit.AuditService
}

func NewFolderService(repo FolderRepository, auditService audit.AuditService) FolderService {
	return &FolderServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *FolderServiceImpl) CreateFolder(ctx context.Context, orgID primitive.ObjectID, folder *Folder) error {
	if folder.Name == "" {
		return errors.New("folder name is required")
	}

	folder.ID = primitive.NewObjectID()
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = time.Now()
	if uid, ok := ctx.Value(common_models.UserIDKey).(string); ok {
		folder.CreatedBy = uid
	}

	err := s.Repo.Create(ctx, orgID, folder)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionFolder, "report_folders", folder.ID.Hex(), map[string]common_models.Change{
			"folder": {New: folder},
		})
	}
	return err
}

func (s *FolderServiceImpl) GetFolder(ctx context.Context, orgID primitive.ObjectID, id string) (*Folder, error) {
	return s.Repo.Get(ctx, orgID, id)
}

func (s *FolderServiceImpl) ListFolders(ctx context.Context, orgID primitive.ObjectID) ([]Folder, error) {
	return s.Repo.List(ctx, orgID)
}

func (s *FolderServiceImpl) UpdateFolder(ctx context.Context, orgID primitive.ObjectID, id string, folder *Folder) error {
	if folder.Name == "" {
		return errors.New("folder name is required")
	}

	old, err := s.Repo.Get(ctx, orgID, id)
	if err != nil {
		return err
	}

	folder.UpdatedAt = time.Now()
	err = s.Repo.Update(ctx, orgID, id, folder)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionFolder, "report_folders", id, map[string]common_models.Change{
			"folder": {Old: old, New: folder},
		})
	}
	return err
}

func (s *FolderServiceImpl) DeleteFolder(ctx context.Context, orgID primitive.ObjectID, id string) error {
	old, _ := s.Repo.Get(ctx, orgID, id)
	err := s.Repo.Delete(ctx, orgID, id)
	if err == nil {
		_ = s.AuditService.LogChange(ctx, orgID, common_models.AuditActionFolder, "report_folders", id, map[string]common_models.Change{
			"folder": {Old: old, New: "DELETED"},
		})
	}
	return err
}
