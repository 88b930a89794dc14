package audit

import (
	"context"
	"time"

	common_models "go-reporting/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditService interface {
	LogChange(ctx context.Context, orgID primitive.ObjectID, action common_models.AuditAction, collection string, recordID string, changes map[string]common_models.Change) error
	ListLogs(ctx context.Context, orgID primitive.ObjectID, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error)
}

type AuditServiceImpl struct {
	Repo AuditRepository
}

func NewAuditService(repo AuditRepository) AuditService {
	return &AuditServiceImpl{
		Repo: repo,
	}
}

func (s *AuditServiceImpl) LogChange(ctx context.Context, orgID primitive.ObjectID, action common_models.AuditAction, collection string, recordID string, changes map[string]common_models.Change) error {
	actorID := "system"
	if uid, ok := ctx.Value(common_models.UserIDKey).(string); ok && uid != "" {
		actorID = uid
	}

	log := common_models.AuditLog{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		Action:         action,
		Collection:     collection,
		RecordID:       recordID,
		ActorID:        actorID,
		Changes:        changes,
		Timestamp:      time.Now(),
	}

	return s.Repo.Create(ctx, log)
}

func (s *AuditServiceImpl) ListLogs(ctx context.Context, orgID primitive.ObjectID, filters map[string]interface{}, page, limit int64) ([]common_models.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	return s.Repo.List(ctx, orgID, filters, limit, offset)
}
