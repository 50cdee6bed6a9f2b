package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type slotDocument struct {
	Slot      string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per slot in the "slots" collection.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		collection: db.Collection("slots"),
	}
}

func (m *MongoStore) Load(ctx context.Context, slot string) ([]byte, error) {
	var doc slotDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": slot}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("failed to load slot: %w", err)
	}
	return doc.Data, nil
}

func (m *MongoStore) Save(ctx context.Context, slot string, data []byte) error {
	filter := bson.M{"_id": slot}
	update := bson.M{"$set": bson.M{
		"data":       data,
		"updated_at": time.Now(),
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := m.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save slot: %w", err)
	}
	return nil
}

// CreateIndexes expires slots that have not been written for retention.
// A retention of zero or less keeps slots forever.
func (m *MongoStore) CreateIndexes(ctx context.Context, retention time.Duration) error {
	if retention <= 0 {
		return nil
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(retention.Seconds())),
		},
	}

	if _, err := m.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
