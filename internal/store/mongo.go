package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"citylink/internal/models"
)

// mongoDoc wraps the content item together with its version counter.
type mongoDoc struct {
	ID      string              `bson:"_id"`
	Version Version             `bson:"version"`
	Item    *models.ContentItem `bson:"item"`
}

// MongoStore 基于 MongoDB 的内容存储。
// 条件写用 ReplaceOne 的 {_id, version} 过滤器实现：版本不匹配时
// 不会命中任何文档，由此区分冲突和内容不存在。
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{collection: client.Database(database).Collection("contents")}
}

func (s *MongoStore) Get(ctx context.Context, id string) (*models.ContentItem, Version, error) {
	var doc mongoDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return doc.Item, doc.Version, nil
}

func (s *MongoStore) Put(ctx context.Context, id string, item *models.ContentItem, expected Version) error {
	res, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": id, "version": expected},
		mongoDoc{ID: id, Version: expected + 1, Item: item})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// 过滤器没命中：要么版本变了，要么文档根本不存在
	count, err := s.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

func (s *MongoStore) Insert(ctx context.Context, item *models.ContentItem) error {
	_, err := s.collection.InsertOne(ctx, mongoDoc{ID: item.ID, Version: 1, Item: item})
	if mongo.IsDuplicateKeyError(err) {
		return ErrExists
	}
	return err
}

func (s *MongoStore) List(ctx context.Context) ([]*models.ContentItem, error) {
	cur, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]*models.ContentItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.Item)
	}
	return items, nil
}
