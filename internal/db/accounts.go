package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
)

func (db *Database) UpsertAccount(ctx context.Context, account *model.AccountDocument) error {
	filter := bson.M{"_id": account.Participant}
	update := bson.M{"$set": bson.M{"balance": account.Balance}}
	opts := options.Update().SetUpsert(true)
	_, err := db.collection(model.AccountCollection).
		UpdateOne(ctx, filter, update, opts)
	return err
}

// UpsertAccounts writes a batch of balances in one round trip. Distribution
// touches every member, so per-document writes would be wasteful there.
func (db *Database) UpsertAccounts(ctx context.Context, accounts []model.AccountDocument) error {
	if len(accounts) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(accounts))
	for _, account := range accounts {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": account.Participant}).
			SetUpdate(bson.M{"$set": bson.M{"balance": account.Balance}}).
			SetUpsert(true))
	}

	_, err := db.collection(model.AccountCollection).BulkWrite(ctx, models)
	return err
}

func (db *Database) GetAccount(ctx context.Context, participant string) (*model.AccountDocument, error) {
	var result model.AccountDocument
	err := db.collection(model.AccountCollection).
		FindOne(ctx, bson.M{"_id": participant}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, &NotFoundError{
			Key:     participant,
			Message: "account not found",
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (db *Database) GetAccounts(ctx context.Context) ([]model.AccountDocument, error) {
	cursor, err := db.collection(model.AccountCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var accounts []model.AccountDocument
	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}
