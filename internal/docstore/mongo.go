package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "documents"

// mongoDocument is the stored shape. The full path is the primary key and
// the parent collection path is indexed for List.
type mongoDocument struct {
	Path      string    `bson:"_id"`
	Parent    string    `bson:"parent"`
	Data      bson.M    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps all documents in one MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore uses the documents collection of db and ensures the
// parent index exists.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	coll := db.Collection(mongoCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "parent", Value: 1}},
		Options: options.Index().SetName("parent_idx"),
	})
	if err != nil {
		return nil, fmt.Errorf("create parent index: %w", err)
	}
	return &MongoStore{coll: coll}, nil
}

// ConnectMongo dials uri and returns the named database.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(database), nil
}

func (s *MongoStore) Write(ctx context.Context, path Path, rec Record, opts WriteOptions) error {
	if err := CheckDocumentPath(path); err != nil {
		return err
	}

	now := time.Now().UTC()
	key := path.String()
	parent := path.Parent().String()

	if !opts.Merge {
		doc := mongoDocument{
			Path:      key,
			Parent:    parent,
			Data:      bson.M(rec),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if doc.Data == nil {
			doc.Data = bson.M{}
		}
		// Keep the original creation time on replace.
		var existing mongoDocument
		err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&existing)
		switch {
		case err == nil:
			doc.CreatedAt = existing.CreatedAt
		case !errors.Is(err, mongo.ErrNoDocuments):
			return fmt.Errorf("read %s: %w", key, err)
		}
		_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("replace %s: %w", key, err)
		}
		return nil
	}

	set := bson.M{"parent": parent, "updated_at": now}
	for k, v := range rec {
		set["data."+k] = v
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	if len(rec) == 0 {
		update["$setOnInsert"] = bson.M{"created_at": now, "data": bson.M{}}
	}
	if _, err := s.coll.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("merge %s: %w", key, err)
	}
	return nil
}

func (s *MongoStore) Read(ctx context.Context, path Path) (Record, error) {
	if err := CheckDocumentPath(path); err != nil {
		return nil, err
	}

	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": path.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return normalizeBSON(doc.Data)
}

func (s *MongoStore) List(ctx context.Context, collection Path) ([]Document, error) {
	if err := CheckCollectionPath(collection); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{"parent": collection.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var out []Document
	for cursor.Next(ctx) {
		var doc mongoDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		data, err := normalizeBSON(doc.Data)
		if err != nil {
			return nil, err
		}
		p, err := ParsePath(doc.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{Path: p, Data: data, UpdatedAt: doc.UpdatedAt})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

// normalizeBSON turns driver types (primitive.A, primitive.DateTime,
// int32) into the plain JSON shapes every other backend returns.
func normalizeBSON(m bson.M) (Record, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}
