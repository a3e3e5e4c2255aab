package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/rag/corpus"
)

// Store maps each corpus collection to a MongoDB collection of the same name.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ corpus.ReadWriter = (*Store)(nil)

// Config holds MongoDB connection configuration
type Config struct {
	URI      string
	Database string
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig() *Config {
	return &Config{
		URI:      "mongodb://localhost:27017",
		Database: "socratiq",
	}
}

// mongoObject is the stored representation of one corpus object
type mongoObject struct {
	Key       string    `bson:"_id"`
	Body      []byte    `bson:"body"`
	Size      int64     `bson:"size"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// New connects and pings MongoDB.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// prefixFilter matches _id values starting with prefix.
func prefixFilter(prefix string) bson.M {
	if prefix == "" {
		return bson.M{}
	}
	return bson.M{"_id": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix)}}
}

// List implements corpus.Store.
func (s *Store) List(ctx context.Context, collection, prefix string) ([]corpus.ObjectInfo, error) {
	opts := options.Find().
		SetProjection(bson.M{"body": 0}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(collection).Find(ctx, prefixFilter(prefix), opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var out []corpus.ObjectInfo
	for cursor.Next(ctx) {
		var obj mongoObject
		if err := cursor.Decode(&obj); err != nil {
			return nil, fmt.Errorf("decode object: %w", err)
		}
		out = append(out, corpus.ObjectInfo{Key: obj.Key, Size: obj.Size, LastModified: obj.UpdatedAt.UTC()})
	}
	return out, cursor.Err()
}

// Get implements corpus.Store.
func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	var obj mongoObject
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": key}).Decode(&obj)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, errorskg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return obj.Body, nil
}

// Put upserts one object.
func (s *Store) Put(ctx context.Context, collection, key string, data []byte) error {
	obj := mongoObject{Key: key, Body: data, Size: int64(len(data)), UpdatedAt: time.Now().UTC()}
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": key}, obj, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, key, err)
	}
	return nil
}

// URL implements corpus.Store.
func (s *Store) URL(collection, key string) string {
	return "mongodb://" + collection + "/" + key
}

// Close disconnects from MongoDB
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
