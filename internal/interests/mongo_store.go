package interests

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/docstore"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
)

// InterestsCollection is the MongoDB collection holding interests.
const InterestsCollection = "interests"

type interestDocument struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Email       string    `bson:"email"`
	Phone       string    `bson:"phone"`
	Message     string    `bson:"message"`
	ProductName string    `bson:"productName"`
	ProductID   string    `bson:"productId"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toDocument(in *models.Interest) interestDocument {
	return interestDocument{
		ID:          in.ID.String(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Message:     in.Message,
		ProductName: in.ProductName,
		ProductID:   in.ProductID.String(),
		Status:      string(in.Status),
		CreatedAt:   in.CreatedAt.UTC(),
		UpdatedAt:   in.UpdatedAt.UTC(),
	}
}

func (d interestDocument) toModel() (models.Interest, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Interest{}, err
	}
	productID, err := uuid.Parse(d.ProductID)
	if err != nil {
		return models.Interest{}, fmt.Errorf("product id: %w", err)
	}
	return models.Interest{
		ID:          id,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Message:     d.Message,
		ProductName: d.ProductName,
		ProductID:   productID,
		Status:      enums.InterestStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

// MongoStore is the document Store backed by a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(InterestsCollection)}
}

// EnsureIndexes creates the ordering and lookup indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	return docstore.EnsureIndexes(ctx, s.coll, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("interests_created_at"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("interests_status"),
		},
		{
			Keys:    bson.D{{Key: "productId", Value: 1}},
			Options: options.Index().SetName("interests_product_id"),
		},
	})
}

func listFilter(q ListQuery) bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = string(q.Status)
	}
	return filter
}

func (s *MongoStore) Create(ctx context.Context, interest *models.Interest) error {
	_, err := s.coll.InsertOne(ctx, toDocument(interest))
	return err
}

func (s *MongoStore) List(ctx context.Context, q ListQuery) ([]models.Interest, int64, error) {
	filter := listFilter(q)
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	rows := []models.Interest{}
	if total == 0 {
		return rows, 0, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(q.Page.Offset())).
		SetLimit(int64(q.Page.Limit))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []interestDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	for _, d := range docs {
		in, err := d.toModel()
		if err != nil {
			return nil, 0, fmt.Errorf("decode interest document %s: %w", d.ID, err)
		}
		rows = append(rows, in)
	}
	return rows, total, nil
}
