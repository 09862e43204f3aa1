package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamour/pharmastock/internal/domain/models"
)

// Repository defines the interface for daily report snapshot storage.
type Repository interface {
	SaveDailyReport(ctx context.Context, report models.DailyStockReport) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "daily_stock_reports",
	}, nil
}

// SaveDailyReport stores a daily stock report snapshot, keyed on its date.
// Re-running the sweep for the same day replaces the earlier document instead
// of piling up duplicates.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyStockReport) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	filter := bson.M{"date": report.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := collection.ReplaceOne(ctx, filter, report, opts); err != nil {
		return fmt.Errorf("failed to upsert daily stock report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
