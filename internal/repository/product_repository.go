package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmedmegahedd/modera-nado/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection("products"),
	}
}

func (m *mongoProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	var product domain.Product
	err = m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

func (m *mongoProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

func (m *mongoProductRepository) Insert(ctx context.Context, product *domain.Product) error {
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}

	_, err := m.collection.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// DecrementStock is a single conditional document update: the filter only
// matches while the targeted size entry still holds enough quantity, so a
// losing race surfaces as MatchedCount == 0 instead of a negative counter.
func (m *mongoProductRepository) DecrementStock(ctx context.Context, id string, size domain.Size, quantity int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrProductNotFound
	}

	filter := bson.M{
		"_id": oid,
		"stock": bson.M{
			"$elemMatch": bson.M{
				"size":     size,
				"quantity": bson.M{"$gte": quantity},
			},
		},
	}

	update := bson.M{
		"$inc": bson.M{"stock.$[elem].quantity": -quantity},
		"$set": bson.M{"updated_at": time.Now()},
	}

	arrayFilters := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"elem.size": size, "elem.quantity": bson.M{"$gte": quantity}},
		},
	})

	result, err := m.collection.UpdateOne(ctx, filter, update, arrayFilters)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if result.MatchedCount == 0 {
		// Distinguish a missing product from a lost race on the quantity guard.
		count, errCount := m.collection.CountDocuments(ctx, bson.M{"_id": oid})
		if errCount != nil {
			return fmt.Errorf("failed to check product after decrement miss: %w", errCount)
		}
		if count == 0 {
			return ErrProductNotFound
		}
		return ErrStockConflict
	}

	return nil
}
