package model

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fundpool-labs/fundpool-ledger/internal/config"
)

type index struct {
	Indexes map[string]int
	Unique  bool
}

var collections = map[string][]index{
	AccountCollection:   {{Indexes: map[string]int{}}},
	WithdrawalCollection: {
		{Indexes: map[string]int{"participant": 1, "index": 1}, Unique: true},
		{Indexes: map[string]int{"processed": 1, "unlock_time": 1}, Unique: false},
	},
	SnapshotCollection:  {{Indexes: map[string]int{}}},
	ProfitCollection:    {{Indexes: map[string]int{}}},
	PoolStateCollection: {{Indexes: map[string]int{}}},
	CustodyCollection:   {{Indexes: map[string]int{}}},
}

// Setup connects to mongo, creates the collections the ledger persists into
// and ensures their secondary indexes exist. It is safe to run repeatedly.
func Setup(ctx context.Context, cfg *config.DbConfig) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	database := client.Database(cfg.DbName)

	for collection := range collections {
		createCollection(ctx, database, collection)
	}

	for name, idxs := range collections {
		for _, idx := range idxs {
			if len(idx.Indexes) == 0 {
				continue
			}
			createIndex(ctx, database, name, idx)
		}
	}

	log.Ctx(ctx).Info().Msg("collections and indexes are ready")
	return nil
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) {
	// CreateCollection errors if the collection already exists; that is fine
	// on restart.
	if err := database.CreateCollection(ctx, collectionName); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("collection", collectionName).
			Msg("failed to create collection, may already exist")
		return
	}

	log.Ctx(ctx).Debug().Str("collection", collectionName).Msg("collection created")
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) {
	keys := make(bson.D, 0, len(idx.Indexes))
	for field, order := range idx.Indexes {
		keys = append(keys, bson.E{Key: field, Value: order})
	}

	indexModel := mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Ctx(ctx).Debug().Err(err).Str("collection", collectionName).
			Msg("failed to create index, may already exist")
		return
	}

	log.Ctx(ctx).Debug().Str("collection", collectionName).Msg("index created")
}
