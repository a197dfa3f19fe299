package record

import (
	"context"

	"go-console/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecordRepository interface {
	Find(ctx context.Context, collection string, filter bson.M, sort bson.D, skip, limit int64) ([]map[string]interface{}, error)
	Count(ctx context.Context, collection string, filter bson.M) (int64, error)
	UpdateByID(ctx context.Context, collection string, id interface{}, set bson.M) error
}

type RecordRepositoryImpl struct {
	DB *mongo.Database
}

func NewRecordRepository(mongodb *database.MongodbDB) RecordRepository {
	return &RecordRepositoryImpl{
		DB: mongodb.DB,
	}
}

func (r *RecordRepositoryImpl) Find(ctx context.Context, collection string, filter bson.M, sort bson.D, skip, limit int64) ([]map[string]interface{}, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.DB.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []map[string]interface{}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *RecordRepositoryImpl) Count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	return r.DB.Collection(collection).CountDocuments(ctx, filter)
}

func (r *RecordRepositoryImpl) UpdateByID(ctx context.Context, collection string, id interface{}, set bson.M) error {
	// Records carry a numeric business id distinct from Mongo's _id.
	res, err := r.DB.Collection(collection).UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
