package customfield

import (
	"context"

	"go-reporting/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CustomFieldRepository interface {
	Create(ctx context.Context, orgID primitive.ObjectID, field *CustomField) error
	Get(ctx context.Context, orgID primitive.ObjectID, id string) (*CustomField, error)
	List(ctx context.Context, orgID primitive.ObjectID, objectType string) ([]CustomField, error)
	ListActive(ctx context.Context, orgID primitive.ObjectID, objectType string) ([]CustomField, error)
	Update(ctx context.Context, orgID primitive.ObjectID, id string, field *CustomField) error
	Delete(ctx context.Context, orgID primitive.ObjectID, id string) error
}

type CustomFieldRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCustomFieldRepository(mongodb *database.MongodbDB) CustomFieldRepository {
	return &CustomFieldRepositoryImpl{
		Collection: mongodb.DB.Collection("custom_fields"),
	}
}

func (r *CustomFieldRepositoryImpl) Create(ctx context.Context, orgID primitive.ObjectID, field *CustomField) error {
	field.OrganizationID = orgID
	_, err := r.Collection.InsertOne(ctx, field)
	return err
}

func (r *CustomFieldRepositoryImpl) Get(ctx context.Context, orgID primitive.ObjectID, id string) (*CustomField, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var field CustomField
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid, "organization_id": orgID}).Decode(&field)
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *CustomFieldRepositoryImpl) List(ctx context.Context, orgID primitive.ObjectID, objectType string) ([]CustomField, error) {
	return r.find(ctx, bson.M{"organization_id": orgID, "object_type": objectType})
}

func (r *CustomFieldRepositoryImpl) ListActive(ctx context.Context, orgID primitive.ObjectID, objectType string) ([]CustomField, error) {
	return r.find(ctx, bson.M{"organization_id": orgID, "object_type": objectType, "status": StatusActive})
}

func (r *CustomFieldRepositoryImpl) find(ctx context.Context, query bson.M) ([]CustomField, error) {
	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var fields []CustomField
	if err := cursor.All(ctx, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *CustomFieldRepositoryImpl) Update(ctx context.Context, orgID primitive.ObjectID, id string, field *CustomField) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"label":         field.Label,
			"type":          field.Type,
			"required":      field.Required,
			"status":        field.Status,
			"display_order": field.DisplayOrder,
			"options":       field.Options,
			"expression":    field.Expression,
			"updated_at":    field.UpdatedAt,
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid, "organization_id": orgID}, update)
	return err
}

func (r *CustomFieldRepositoryImpl) Delete(ctx context.Context, orgID primitive.ObjectID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid, "organization_id": orgID})
	return err
}
