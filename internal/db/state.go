package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
)

func (db *Database) UpsertPoolState(ctx context.Context, doc *model.PoolStateDocument) error {
	doc.ID = model.PoolStateID
	filter := bson.M{"_id": model.PoolStateID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	_, err := db.collection(model.PoolStateCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetPoolState(ctx context.Context) (*model.PoolStateDocument, error) {
	var result model.PoolStateDocument
	err := db.collection(model.PoolStateCollection).
		FindOne(ctx, bson.M{"_id": model.PoolStateID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{
			Key:     model.PoolStateID,
			Message: "pool state not found",
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
