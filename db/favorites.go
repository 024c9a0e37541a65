package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type slotDoc struct {
	Name    string `bson:"_id"`
	Payload []byte `bson:"payload"`
}

// FavoritesSlot keeps the serialized favorites collection in one document
// of the given collection, keyed by slot name.
type FavoritesSlot struct {
	coll *mongo.Collection
	name string
}

func NewFavoritesSlot(coll *mongo.Collection, name string) *FavoritesSlot {
	return &FavoritesSlot{coll: coll, name: name}
}

func (s *FavoritesSlot) Read(ctx context.Context) ([]byte, error) {
	var doc slotDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find slot %s: %w", s.name, err)
	}
	return doc.Payload, nil
}

func (s *FavoritesSlot) Write(ctx context.Context, data []byte) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": s.name},
		slotDoc{Name: s.name, Payload: data},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo replace slot %s: %w", s.name, err)
	}
	return nil
}
