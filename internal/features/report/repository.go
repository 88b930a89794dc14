package report

import (
	"context"
	"time"

	"go-reporting/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReportRepository interface {
	Create(ctx context.Context, orgID primitive.ObjectID, report *Report) error
	Get(ctx context.Context, orgID primitive.ObjectID, id string) (*Report, error)
	List(ctx context.Context, orgID primitive.ObjectID, filter ListFilter) ([]Report, error)
	Update(ctx context.Context, orgID primitive.ObjectID, id string, report *Report) error
	SetFavorite(ctx context.Context, orgID primitive.ObjectID, id string, favorite bool) error
	SetShared(ctx context.Context, orgID primitive.ObjectID, id string, shared bool) error
	Delete(ctx context.Context, orgID primitive.ObjectID, id string) error
}

type ReportRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewReportRepository(mongodb *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{
		Collection: mongodb.DB.Collection("reports"),
	}
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, orgID primitive.ObjectID, report *Report) error {
	report.OrganizationID = orgID
	report.CreatedAt = time.Now()
	report.UpdatedAt = time.Now()
	_, err := r.Collection.InsertOne(ctx, report)
	return err
}

func (r *ReportRepositoryImpl) Get(ctx context.Context, orgID primitive.ObjectID, id string) (*Report, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var report Report
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid, "organization_id": orgID}).Decode(&report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) List(ctx context.Context, orgID primitive.ObjectID, filter ListFilter) ([]Report, error) {
	query := bson.M{"organization_id": orgID}
	if filter.FolderID != "" {
		if folderID, err := primitive.ObjectIDFromHex(filter.FolderID); err == nil {
			query["folder_id"] = folderID
		}
	}
	if filter.FavoritesOnly {
		query["is_favorite"] = true
	}
	if filter.SharedOnly {
		query["is_shared"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Update replaces the whole definition. Fields absent from the incoming
// report are cleared, not merged; favorite and shared flags are managed
// through their own setters and survive the replace.
func (r *ReportRepositoryImpl) Update(ctx context.Context, orgID primitive.ObjectID, id string, report *Report) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	report.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":            report.Name,
			"description":     report.Description,
			"object_type":     report.ObjectType,
			"selected_fields": report.SelectedFields,
			"filters":         report.Filters,
			"sorting":         report.Sorting,
			"charts":          report.Charts,
			"folder_id":       report.FolderID,
			"updated_at":      report.UpdatedAt,
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid, "organization_id": orgID}, update)
	return err
}

func (r *ReportRepositoryImpl) SetFavorite(ctx context.Context, orgID primitive.ObjectID, id string, favorite bool) error {
	return r.setFlag(ctx, orgID, id, "is_favorite", favorite)
}

func (r *ReportRepositoryImpl) SetShared(ctx context.Context, orgID primitive.ObjectID, id string, shared bool) error {
	return r.setFlag(ctx, orgID, id, "is_shared", shared)
}

// setFlag touches exactly one field so a toggle can never clobber a
// concurrent definition edit.
func (r *ReportRepositoryImpl) setFlag(ctx context.Context, orgID primitive.ObjectID, id string, field string, value bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "organization_id": orgID},
		bson.M{"$set": bson.M{field: value, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ReportRepositoryImpl) Delete(ctx context.Context, orgID primitive.ObjectID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid, "organization_id": orgID})
	return err
}
