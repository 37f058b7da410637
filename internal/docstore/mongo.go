package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient 把 MongoDB 收敛成 Client 接口：只用 Find/FindOne/
// InsertOne/UpdateOne，不用聚合管道，过滤只支持单字段等值与 $in。
type MongoClient struct {
	db *mongo.Database
}

func NewMongoClient(db *mongo.Database) *MongoClient {
	return &MongoClient{db: db}
}

func (c *MongoClient) List(ctx context.Context, collection string, q Query, out any) error {
	opts := options.Find()
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}
	if q.Order.Field != "" {
		dir := 1
		if q.Order.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.Order.Field, Value: dir}})
	}

	cur, err := c.db.Collection(collection).Find(ctx, bsonFilter(q.Filter), opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (c *MongoClient) Get(ctx context.Context, collection, id string, out any) error {
	err := c.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (c *MongoClient) Create(ctx context.Context, collection string, doc any) (string, error) {
	m, err := ToDocument(doc)
	if err != nil {
		return "", err
	}

	id, _ := m["_id"].(string)
	if id == "" {
		id = primitive.NewObjectID().Hex()
		m["_id"] = id
	}
	if _, err := c.db.Collection(collection).InsertOne(ctx, m); err != nil {
		return "", err
	}
	return id, nil
}

func (c *MongoClient) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := c.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func bsonFilter(f Filter) bson.M {
	if f.IsZero() {
		return bson.M{}
	}
	if len(f.Values) > 0 {
		return bson.M{f.Field: bson.M{"$in": f.Values}}
	}
	return bson.M{f.Field: f.Value}
}

// ToDocument 把任意带 bson 标签的结构体转成通用文档。
func ToDocument(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
