package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
)

func (db *Database) SaveWithdrawalRequest(ctx context.Context, doc *model.WithdrawalDocument) error {
	_, err := db.collection(model.WithdrawalCollection).InsertOne(ctx, doc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     doc.ID,
						Message: "withdrawal request already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) MarkWithdrawalProcessed(ctx context.Context, participant string, index int) error {
	filter := bson.M{"_id": model.WithdrawalID(participant, index)}
	update := bson.M{"$set": bson.M{"processed": true}}

	result, err := db.collection(model.WithdrawalCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     model.WithdrawalID(participant, index),
			Message: "withdrawal request not found",
		}
	}
	return nil
}

func (db *Database) GetWithdrawalsByParticipant(ctx context.Context, participant string) ([]model.WithdrawalDocument, error) {
	filter := bson.M{"participant": participant}
	opts := options.Find().SetSort(bson.M{"index": 1})

	cursor, err := db.collection(model.WithdrawalCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []model.WithdrawalDocument
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (db *Database) GetWithdrawals(ctx context.Context) ([]model.WithdrawalDocument, error) {
	cursor, err := db.collection(model.WithdrawalCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []model.WithdrawalDocument
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// FindUnlockingWithdrawals returns pending requests whose unlock time falls
// at or before the given deadline.
func (db *Database) FindUnlockingWithdrawals(ctx context.Context, deadline time.Time) ([]model.WithdrawalDocument, error) {
	filter := bson.M{
		"processed":   false,
		"unlock_time": bson.M{"$lte": deadline},
	}
	opts := options.Find().SetSort(bson.M{"unlock_time": 1})

	cursor, err := db.collection(model.WithdrawalCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []model.WithdrawalDocument
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
