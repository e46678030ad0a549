package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetshop/inventory-api/internal/core/domain"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

const sweetsCollection = "sweets"

type SweetRepository struct {
	coll *mongo.Collection
}

func NewSweetRepository(db *mongo.Database) *SweetRepository {
	return &SweetRepository{coll: db.Collection(sweetsCollection)}
}

type mongoSweet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Category  string             `bson:"category"`
	Price     float64            `bson:"price"`
	Quantity  int                `bson:"quantity"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *SweetRepository) Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSweet{
		Name:      s.Name,
		Category:  s.Category,
		Price:     s.Price,
		Quantity:  s.Quantity,
		CreatedAt: s.CreatedAt.Unix(),
	}

	ir, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert sweet: %w", err)
	}

	doc.ID = ir.InsertedID.(primitive.ObjectID)
	return toDomainSweet(&doc), nil
}

func (r *SweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	var ms mongoSweet
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, fmt.Errorf("find sweet: %w", err)
	}
	return toDomainSweet(&ms), nil
}

// List returns every sweet sorted by _id ascending. ObjectIDs are
// time-prefixed, so this is insertion order.
func (r *SweetRepository) List(ctx context.Context) ([]*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	return decodeSweets(ctx, cur)
}

func (r *SweetRepository) Search(ctx context.Context, f ports.SearchSweetsFilter) ([]*domain.Sweet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Name), Options: "i"}
	}
	if f.Category != "" {
		filter["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Category), Options: "i"}
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	return decodeSweets(ctx, cur)
}

func (r *SweetRepository) Update(ctx context.Context, id string, patch ports.SweetPatch) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Quantity != nil {
		set["quantity"] = *patch.Quantity
	}

	var ms mongoSweet
	err = r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ms)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSweetNotFound
		}
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	return toDomainSweet(&ms), nil
}

func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSweetNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSweetNotFound
	}
	return nil
}

// AdjustQuantity applies delta as a single conditional update: for decrements
// the filter requires quantity >= -delta, so the document is only touched when
// the stock suffices. There is no separate read, hence no check-then-act race.
func (r *SweetRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Sweet, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSweetNotFound
	}

	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}

	var ms mongoSweet
	err = r.coll.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$inc": bson.M{"quantity": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ms)
	if err == nil {
		return toDomainSweet(&ms), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}

	// The guarded update missed: either the sweet does not exist, or it does
	// and the stock was short. One follow-up read disambiguates.
	if delta < 0 {
		if _, findErr := r.FindByID(ctx, id); findErr == nil {
			return nil, domain.ErrInsufficientStock
		}
	}
	return nil, domain.ErrSweetNotFound
}

func decodeSweets(ctx context.Context, cur *mongo.Cursor) ([]*domain.Sweet, error) {
	defer cur.Close(ctx)

	sweets := []*domain.Sweet{}
	for cur.Next(ctx) {
		var ms mongoSweet
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode sweet: %w", err)
		}
		sweets = append(sweets, toDomainSweet(&ms))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweets: %w", err)
	}
	return sweets, nil
}

func toDomainSweet(ms *mongoSweet) *domain.Sweet {
	return &domain.Sweet{
		ID:        ms.ID.Hex(),
		Name:      ms.Name,
		Category:  ms.Category,
		Price:     ms.Price,
		Quantity:  ms.Quantity,
		CreatedAt: unixToTime(ms.CreatedAt),
	}
}

func ensureSweetIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	return err
}
