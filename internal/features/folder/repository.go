package folder

import (
	"context"

	"go-reporting/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FolderRepository interface {
	Create(ctx context.Context, orgID primitive.ObjectID, folder *Folder) error
	Get(ctx context.Context, orgID primitive.ObjectID, id string) (*Folder, error)
	List(ctx context.Context, orgID primitive.ObjectID) ([]Folder, error)
	Update(ctx context.Context, orgID primitive.ObjectID, id string, folder *Folder) error
	Delete(ctx context.Context, orgID primitive.ObjectID, id string) error
}

type FolderRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFolderRepository(mongodb *database.MongodbDB) FolderRepository {
	return &FolderRepositoryImpl{
		Collection: mongodb.DB.Collection("report_folders"),
	}
}

func (r *FolderRepositoryImpl) Create(ctx context.Context, orgID primitive.ObjectID, folder *Folder) error {
	folder.OrganizationID = orgID
	_, err := r.Collection.InsertOne(ctx, folder)
	return err
}

func (r *FolderRepositoryImpl) Get(ctx context.Context, orgID primitive.ObjectID, id string) (*Folder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var folder Folder
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid, "organization_id": orgID}).Decode(&folder)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *FolderRepositoryImpl) List(ctx context.Context, orgID primitive.ObjectID) ([]Folder, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"organization_id": orgID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var folders []Folder
	if err := cursor.All(ctx, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

func (r *FolderRepositoryImpl) Update(ctx context.Context, orgID primitive.ObjectID, id string, folder *Folder) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update := bson.M{
		"$set": bson.M{
			"name":        folder.Name,
			"description": folder.Description,
			"updated_at":  folder.UpdatedAt,
		},
	}
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": oid, "organization_id": orgID}, update)
	return err
}

func (r *FolderRepositoryImpl) Delete(ctx context.Context, orgID primitive.ObjectID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.Collection.DeleteOne(ctx, bson.M{"_id": oid, "organization_id": orgID})
	return err
}
