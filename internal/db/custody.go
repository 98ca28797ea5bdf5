package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
)

func (db *Database) GetCustodyBalance(ctx context.Context) (uint64, error) {
	var result model.CustodyDocument
	err := db.collection(model.CustodyCollection).
		FindOne(ctx, bson.M{"_id": model.CustodyID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return result.Balance, nil
}

func (db *Database) FundCustody(ctx context.Context, amount uint64) error {
	filter := bson.M{"_id": model.CustodyID}
	update := bson.M{"$inc": bson.M{"balance": amount}}
	opts := options.Update().SetUpsert(true)
	_, err := db.collection(model.CustodyCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

// ReleaseCustody conditionally decrements the custody balance. The filter
// guards the subtraction so a concurrent release can never drive the
// balance below zero.
func (db *Database) ReleaseCustody(ctx context.Context, amount uint64) error {
	filter := bson.M{
		"_id":     model.CustodyID,
		"balance": bson.M{"$gte": amount},
	}
	update := bson.M{"$inc": bson.M{"balance": -int64(amount)}}

	result, err := db.collection(model.CustodyCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &InsufficientCustodyError{
			Requested: amount,
			Message:   fmt.Sprintf("custody holds less than the requested %d", amount),
		}
	}
	return nil
}
