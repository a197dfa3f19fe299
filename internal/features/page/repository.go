package page

import (
	"context"
	"time"

	"go-console/internal/common/models"
	"go-console/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PageRepository interface {
	Create(ctx context.Context, schema *models.PageSchema) error
	FindByPageID(ctx context.Context, pageID string) (*models.PageSchema, error)
	List(ctx context.Context) ([]models.PageSchema, error)
	Update(ctx context.Context, schema *models.PageSchema) error
	Delete(ctx context.Context, pageID string) error
}

type PageRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPageRepository(mongodb *database.MongodbDB) PageRepository {
	coll := mongodb.DB.Collection("pages")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "page_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &PageRepositoryImpl{
		Collection: coll,
	}
}

func (r *PageRepositoryImpl) Create(ctx context.Context, schema *models.PageSchema) error {
	_, err := r.Collection.InsertOne(ctx, schema)
	return err
}

func (r *PageRepositoryImpl) FindByPageID(ctx context.Context, pageID string) (*models.PageSchema, error) {
	var schema models.PageSchema
	err := r.Collection.FindOne(ctx, bson.M{"page_id": pageID}).Decode(&schema)
	if err != nil {
		return nil, err
	}
	return &schema, nil
}

func (r *PageRepositoryImpl) List(ctx context.Context) ([]models.PageSchema, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var schemas []models.PageSchema
	if err = cursor.All(ctx, &schemas); err != nil {
		return nil, err
	}
	return schemas, nil
}

func (r *PageRepositoryImpl) Update(ctx context.Context, schema *models.PageSchema) error {
	filter := bson.M{"page_id": schema.PageID}
	update := bson.M{"$set": schema}
	_, err := r.Collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *PageRepositoryImpl) Delete(ctx context.Context, pageID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"page_id": pageID})
	return err
}
