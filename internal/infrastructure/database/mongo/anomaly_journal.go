// internal/infrastructure/database/mongo/anomaly_journal.go
package mongo

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/storefront-api/internal/config"
	"github.com/your-org/storefront-api/internal/domain/order"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnomalyJournal stores order anomalies in a MongoDB collection
type AnomalyJournal struct {
	client     *mongo.Client
	collection *mongo.Collection
	now        func() time.Time
}

// anomalyDocument is the stored shape of order.Anomaly
type anomalyDocument struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	OrderID   string    `bson:"order_id"`
	UserID    string    `bson:"user_id"`
	Detail    string    `bson:"detail"`
	CreatedAt time.Time `bson:"created_at"`
}

// NewAnomalyJournal connects to MongoDB and ensures the created_at index
func NewAnomalyJournal(cfg config.MongoConfig) (*AnomalyJournal, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create anomaly index: %w", err)
	}

	log.Println("✅ MongoDB anomaly journal connected")

	return &AnomalyJournal{
		client:     client,
		collection: collection,
		now:        time.Now,
	}, nil
}

// Record inserts a, filling in the id and timestamp when unset
func (j *AnomalyJournal) Record(ctx context.Context, a *order.Anomaly) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = j.now().UTC()
	}

	_, err := j.collection.InsertOne(ctx, anomalyDocument{
		ID:        a.ID,
		Kind:      a.Kind,
		OrderID:   a.OrderID,
		UserID:    a.UserID,
		Detail:    a.Detail,
		CreatedAt: a.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to record anomaly: %w", err)
	}
	return nil
}

// List returns up to limit anomalies, newest first
func (j *AnomalyJournal) List(ctx context.Context, limit int64) ([]order.Anomaly, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := j.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query anomalies: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []anomalyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode anomalies: %w", err)
	}

	anomalies := make([]order.Anomaly, 0, len(docs))
	for _, d := range docs {
		anomalies = append(anomalies, order.Anomaly{
			ID:        d.ID,
			Kind:      d.Kind,
			OrderID:   d.OrderID,
			UserID:    d.UserID,
			Detail:    d.Detail,
			CreatedAt: d.CreatedAt,
		})
	}
	return anomalies, nil
}

// Ping checks the server is reachable
func (j *AnomalyJournal) Ping(ctx context.Context) error {
	return j.client.Ping(ctx, nil)
}

// Close disconnects the client
func (j *AnomalyJournal) Close(ctx context.Context) error {
	return j.client.Disconnect(ctx)
}
