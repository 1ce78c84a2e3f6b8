package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/foodcost/internal/domain/models"
)

// Repository defines the archive operations for saved menu analyses.
type Repository interface {
	SaveAnalysis(ctx context.Context, analysis models.MenuAnalysis) error
	RecentAnalyses(ctx context.Context, dish string, limit int64) ([]models.AnalysisDocument, error)
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
		collName: "menu_analyses",
	}, nil
}

// SaveAnalysis archives a menu analysis with its per-line breakdown.
func (r *MongoDBRepository) SaveAnalysis(ctx context.Context, analysis models.MenuAnalysis) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err := collection.InsertOne(ctx, models.NewAnalysisDocument(analysis))
	if err != nil {
		return fmt.Errorf("failed to insert menu analysis: %w", err)
	}
	return nil
}

// RecentAnalyses returns the newest archived analyses, optionally for one dish.
func (r *MongoDBRepository) RecentAnalyses(ctx context.Context, dish string, limit int64) ([]models.AnalysisDocument, error) {
	filter := bson.M{}
	if dish != "" {
		filter["dish"] = dish
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.client.Database(r.dbName).Collection(r.collName).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu analyses: %w", err)
	}

	var docs []models.AnalysisDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode menu analyses: %w", err)
	}
	return docs, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
