package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fundpool-labs/fundpool-ledger/internal/db/model"
)

func (db *Database) SaveDepositSnapshot(ctx context.Context, doc *model.SnapshotDocument) error {
	// Distribution and manual snapshots at the same instant share a key;
	// upsert keeps the write idempotent on retry.
	filter := bson.M{"_id": doc.Timestamp}
	update := bson.M{"$set": bson.M{"total_deposits": doc.TotalDeposits}}
	opts := options.Update().SetUpsert(true)
	_, err := db.collection(model.SnapshotCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

// GetRecentSnapshots returns the newest snapshots in ascending timestamp
// order, at most limit of them.
func (db *Database) GetRecentSnapshots(ctx context.Context, limit int64) ([]model.SnapshotDocument, error) {
	opts := options.Find().SetSort(bson.M{"_id": -1}).SetLimit(limit)
	cursor, err := db.collection(model.SnapshotCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var snapshots []model.SnapshotDocument
	if err = cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}

	// reverse into chronological order
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}
	return snapshots, nil
}

func (db *Database) SaveProfitRecord(ctx context.Context, doc *model.ProfitDocument) error {
	filter := bson.M{"_id": doc.Timestamp}
	update := bson.M{"$set": bson.M{"profit": doc.Profit}}
	opts := options.Update().SetUpsert(true)
	_, err := db.collection(model.ProfitCollection).UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetProfitRecordsSince(ctx context.Context, since time.Time) ([]model.ProfitDocument, error) {
	filter := bson.M{"_id": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.M{"_id": 1})

	cursor, err := db.collection(model.ProfitCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []model.ProfitDocument
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
