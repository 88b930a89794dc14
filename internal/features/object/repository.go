package object

import (
	"context"

	"go-reporting/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ObjectRepository interface {
	Create(ctx context.Context, orgID primitive.ObjectID, def *ObjectDef) error
	FindByName(ctx context.Context, orgID primitive.ObjectID, name string) (*ObjectDef, error)
	List(ctx context.Context, orgID primitive.ObjectID) ([]ObjectDef, error)
	Update(ctx context.Context, orgID primitive.ObjectID, def *ObjectDef) error
	Delete(ctx context.Context, orgID primitive.ObjectID, name string) error
}

type ObjectRepositoryImpl struct {
	Collection *mongo.Collection
	DB         *mongo.Database
}

func NewObjectRepository(mongodb *database.MongodbDB) ObjectRepository {
	return &ObjectRepositoryImpl{
		Collection: mongodb.DB.Collection("object_defs"),
		DB:         mongodb.DB,
	}
}

func (r *ObjectRepositoryImpl) Create(ctx context.Context, orgID primitive.ObjectID, def *ObjectDef) error {
	def.OrganizationID = orgID
	_, err := r.Collection.InsertOne(ctx, def)
	return err
}

func (r *ObjectRepositoryImpl) FindByName(ctx context.Context, orgID primitive.ObjectID, name string) (*ObjectDef, error) {
	var def ObjectDef
	err := r.Collection.FindOne(ctx, bson.M{"name": name, "organization_id": orgID}).Decode(&def)
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *ObjectRepositoryImpl) List(ctx context.Context, orgID primitive.ObjectID) ([]ObjectDef, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"organization_id": orgID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var defs []ObjectDef
	if err = cursor.All(ctx, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *ObjectRepositoryImpl) Update(ctx context.Context, orgID primitive.ObjectID, def *ObjectDef) error {
	filter := bson.M{"name": def.Name, "organization_id": orgID}
	update := bson.M{"$set": def}
	_, err := r.Collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *ObjectRepositoryImpl) Delete(ctx context.Context, orgID primitive.ObjectID, name string) error {
	// Records of the object go with it.
	_, err := r.DB.Collection("object_records").DeleteMany(ctx, bson.M{"object_type": name, "organization_id": orgID})
	if err != nil {
		return err
	}

	_, err = r.Collection.DeleteOne(ctx, bson.M{"name": name, "organization_id": orgID})
	return err
}
