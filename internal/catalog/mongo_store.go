package catalog

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/docstore"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
)

// ProductsCollection is the MongoDB collection holding products.
const ProductsCollection = "products"

type productDocument struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	Price       primitive.Decimal128 `bson:"price"`
	Category    string               `bson:"category"`
	ImageURL    string               `bson:"imageUrl"`
	InStock     bool                 `bson:"inStock"`
	Featured    bool                 `bson:"featured"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func toDocument(p *models.Product) (productDocument, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return productDocument{}, err
	}
	return productDocument{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Category:    string(p.Category),
		ImageURL:    p.ImageURL,
		InStock:     p.InStock,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}, nil
}

func (d productDocument) toModel() (models.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return models.Product{}, err
	}
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return models.Product{}, err
	}
	return models.Product{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Category:    enums.ProductCategory(d.Category),
		ImageURL:    d.ImageURL,
		InStock:     d.InStock,
		Featured:    d.Featured,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}

// MongoStore is the document Store backed by a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore binds the store to the products collection of db.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(ProductsCollection)}
}

// EnsureIndexes creates the text and ordering indexes browse relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	return docstore.EnsureIndexes(ctx, s.coll, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}, {Key: "category", Value: "text"}},
			Options: options.Index().SetName("products_text"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("products_created_at"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("products_category"),
		},
	})
}

// listFilter renders q as a Mongo filter. Search terms are quoted so they match literally.
func listFilter(q ListQuery) bson.M {
	filter := bson.M{}
	if q.HasCategory() {
		filter["category"] = string(q.Category)
	}
	if q.HasSearch() {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		or := make(bson.A, 0, len(q.Fields))
		for _, f := range q.Fields {
			or = append(or, bson.M{documentField(f): pattern})
		}
		filter["$or"] = or
	}
	return filter
}

func documentField(f SearchField) string {
	switch f {
	case FieldDescription:
		return "description"
	case FieldCategory:
		return "category"
	default:
		return "name"
	}
}

func listSort() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
}

func (s *MongoStore) List(ctx context.Context, q ListQuery) ([]models.Product, int64, error) {
	filter := listFilter(q)
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	rows := []models.Product{}
	if total == 0 {
		return rows, 0, nil
	}

	opts := options.Find().
		SetSort(listSort()).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit()))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	rows, err = decodeAll(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var doc productDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if docstore.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	product, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *MongoStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	keys := make(bson.A, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	cur, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cur)
}

func (s *MongoStore) Create(ctx context.Context, product *models.Product) error {
	doc, err := toDocument(product)
	if err != nil {
		return err
	}
	_, err = s.coll.InsertOne(ctx, doc)
	return err
}

func (s *MongoStore) Update(ctx context.Context, product *models.Product) error {
	doc, err := toDocument(product)
	if err != nil {
		return err
	}
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]models.Product, error) {
	defer func() { _ = cur.Close(ctx) }()

	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	rows := make([]models.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toModel()
		if err != nil {
			return nil, fmt.Errorf("decode product document %s: %w", d.ID, err)
		}
		rows = append(rows, p)
	}
	return rows, nil
}
