package record

import (
	"context"
	"time"

	"go-reporting/internal/common/models"
	"go-reporting/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ObjectRecord is one row of an internal object type. Field values,
// custom fields included, live in Data.
type ObjectRecord struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty"`
	OrganizationID primitive.ObjectID     `bson:"organization_id"`
	ObjectType     string                 `bson:"object_type"`
	Data           map[string]interface{} `bson:"data"`
	CreatedBy      string                 `bson:"created_by"`
	UpdatedBy      string                 `bson:"updated_by"`
	CreatedAt      time.Time              `bson:"created_at"`
	UpdatedAt      time.Time              `bson:"updated_at"`
}

type RecordRepository interface {
	Create(ctx context.Context, orgID primitive.ObjectID, objectType string, data map[string]any) (primitive.ObjectID, error)
	Get(ctx context.Context, orgID primitive.ObjectID, objectType, id string) (map[string]any, error)
	List(ctx context.Context, orgID primitive.ObjectID, objectType string, filter bson.M, projection []string, sort bson.D, limit, offset int64) ([]map[string]any, error)
	Count(ctx context.Context, orgID primitive.ObjectID, objectType string, filter bson.M) (int64, error)
	Delete(ctx context.Context, orgID primitive.ObjectID, objectType, id string) error
}

type RecordRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRecordRepository(mongodb *database.MongodbDB) RecordRepository {
	return &RecordRepositoryImpl{
		Collection: mongodb.DB.Collection("object_records"),
	}
}

func (r *RecordRepositoryImpl) Create(ctx context.Context, orgID primitive.ObjectID, objectType string, data map[string]any) (primitive.ObjectID, error) {
	rec := ObjectRecord{
		ID:             primitive.NewObjectID(),
		OrganizationID: orgID,
		ObjectType:     objectType,
		Data:           data,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if userID, ok := ctx.Value(models.UserIDKey).(string); ok {
		rec.CreatedBy = userID
		rec.UpdatedBy = userID
	}

	_, err := r.Collection.InsertOne(ctx, rec)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return rec.ID, nil
}

func (r *RecordRepositoryImpl) Get(ctx context.Context, orgID primitive.ObjectID, objectType, id string) (map[string]any, error) {
	recordID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var rec ObjectRecord
	err = r.Collection.FindOne(ctx, bson.M{"_id": recordID, "organization_id": orgID, "object_type": objectType}).Decode(&rec)
	if err != nil {
		return nil, err
	}

	return flattenRecord(&rec), nil
}

func (r *RecordRepositoryImpl) List(ctx context.Context, orgID primitive.ObjectID, objectType string, filter bson.M, projection []string, sort bson.D, limit, offset int64) ([]map[string]any, error) {
	query := scopedQuery(orgID, objectType, filter)

	findOptions := options.Find().SetLimit(limit).SetSkip(offset)
	if len(sort) > 0 {
		findOptions.SetSort(sort)
	}
	if len(projection) > 0 {
		proj := bson.M{"created_at": 1, "updated_at": 1, "created_by": 1, "updated_by": 1}
		for _, name := range projection {
			proj[dataKey(name)] = 1
		}
		findOptions.SetProjection(proj)
	}

	cursor, err := r.Collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []ObjectRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	results := make([]map[string]any, len(records))
	for i := range records {
		results[i] = flattenRecord(&records[i])
	}
	return results, nil
}

func (r *RecordRepositoryImpl) Count(ctx context.Context, orgID primitive.ObjectID, objectType string, filter bson.M) (int64, error) {
	return r.Collection.CountDocuments(ctx, scopedQuery(orgID, objectType, filter))
}

func (r *RecordRepositoryImpl) Delete(ctx context.Context, orgID primitive.ObjectID, objectType, id string) error {
	recordID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": recordID, "organization_id": orgID, "object_type": objectType})
	return err
}

// scopedQuery ANDs the tenant scope with the caller's filter. The scope
// is applied here unconditionally so no caller can forget it.
func scopedQuery(orgID primitive.ObjectID, objectType string, filter bson.M) bson.M {
	base := bson.M{
		"organization_id": orgID,
		"object_type":     objectType,
	}
	if len(filter) == 0 {
		return base
	}
	return bson.M{"$and": []bson.M{base, filter}}
}

func flattenRecord(rec *ObjectRecord) map[string]any {
	flat := make(map[string]any, len(rec.Data)+5)
	for k, v := range rec.Data {
		flat[k] = v
	}
	flat["_id"] = rec.ID
	flat["id"] = rec.ID // convenience
	flat["created_at"] = rec.CreatedAt
	flat["updated_at"] = rec.UpdatedAt
	flat["created_by"] = rec.CreatedBy
	return flat
}
