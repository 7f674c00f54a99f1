package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetshop/inventory-api/internal/core/domain"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

const collectionSweets = "sweets"

type SweetRepository struct {
	col *mongo.Collection
}

func NewSweetRepository(db *mongo.Database) *SweetRepository {
	return &SweetRepository{col: db.Collection(collectionSweets)}
}

type mongoSweet struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	Quantity    int                `bson:"quantity"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

// Create inserts a new sweet document and returns it with the assigned id.
func (r *SweetRepository) Create(ctx context.Context, sweet *domain.Sweet) (*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoSweet(sweet)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, storeErr("insert sweet", err)
	}

	created := *sweet
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// FindByID retrieves a sweet by its hex id.
func (r *SweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoSweet
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, storeErr("find sweet", err)
	}
	return ms.toDomain(), nil
}

// FindAll returns the complete catalog.
func (r *SweetRepository) FindAll(ctx context.Context) ([]*domain.Sweet, error) {
	return r.Search(ctx, ports.SearchFilter{})
}

// Search applies the provided filter fields ANDed together. Name and category
// match as case-insensitive substrings, prices as an inclusive range.
func (r *SweetRepository) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Name), "$options": "i"}
	}
	if filter.Category != "" {
		query["category"] = bson.M{"$regex": regexp.QuoteMeta(filter.Category), "$options": "i"}
	}
	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	cur, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, storeErr("search sweets", err)
	}
	defer cur.Close(ctx)

	sweets := make([]*domain.Sweet, 0)
	for cur.Next(ctx) {
		var ms mongoSweet
		if err := cur.Decode(&ms); err != nil {
			return nil, storeErr("decode sweet", err)
		}
		sweets = append(sweets, ms.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("search sweets", err)
	}
	return sweets, nil
}

// Update replaces the mutable fields of an existing sweet.
func (r *SweetRepository) Update(ctx context.Context, sweet *domain.Sweet) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(sweet.ID)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        sweet.Name,
		"category":    sweet.Category,
		"price":       sweet.Price,
		"quantity":    sweet.Quantity,
		"description": sweet.Description,
		"updated_at":  sweet.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, storeErr("update sweet", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrSweetNotFound
	}
	return sweet, nil
}

// Delete removes a sweet permanently.
func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSweetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeErr("delete sweet", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

// DecrementQuantity is the purchase path: a single conditional update that
// only matches while quantity >= n, so the check and the decrement are one
// atomic document operation. When nothing matches, a follow-up lookup tells
// an unknown id apart from insufficient stock.
func (r *SweetRepository) DecrementQuantity(ctx context.Context, id string, n int) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "quantity": bson.M{"$gte": n}}
	update := bson.M{
		"$inc": bson.M{"quantity": -n},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ms mongoSweet
	err = r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ms)
	if err == nil {
		return ms.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storeErr("decrement quantity", err)
	}

	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, domain.ErrInsufficientStock
}

// IncrementQuantity is the restock path; unbounded above.
func (r *SweetRepository) IncrementQuantity(ctx context.Context, id string, n int) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"quantity": n},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ms mongoSweet
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, storeErr("increment quantity", err)
	}
	return ms.toDomain(), nil
}

// EnsureIndexes creates the search indexes on the sweets collection.
func (r *SweetRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func toMongoSweet(s *domain.Sweet) mongoSweet {
	return mongoSweet{
		Name:        s.Name,
		Category:    s.Category,
		Price:       s.Price,
		Quantity:    s.Quantity,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (ms *mongoSweet) toDomain() *domain.Sweet {
	return &domain.Sweet{
		ID:          ms.ID.Hex(),
		Name:        ms.Name,
		Category:    ms.Category,
		Price:       ms.Price,
		Quantity:    ms.Quantity,
		Description: ms.Description,
		CreatedAt:   ms.CreatedAt,
		UpdatedAt:   ms.UpdatedAt,
	}
}
