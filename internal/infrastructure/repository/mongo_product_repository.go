package repository

import (
	"context"
	"time"

	"catalog-sync-shopify-layer/internal/domain"
	"catalog-sync-shopify-layer/internal/infrastructure/repository/entity"
	"catalog-sync-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductRepository implements ProductRepository using MongoDB
type MongoProductRepository struct {
	productsCollection *mongo.Collection
	shopsCollection    *mongo.Collection
}

// NewMongoProductRepository creates a new MongoDB product repository
func NewMongoProductRepository(db *mongo.Database) ports.ProductRepository {
	return &MongoProductRepository{
		productsCollection: db.Collection("products"),
		shopsCollection:    db.Collection("shops"),
	}
}

// Upsert creates or updates a product keyed by its external ID. The write is
// a single FindOneAndUpdate, so concurrent upserts to one product cannot
// tear: the later write fully wins. The shop document's last-activity
// timestamp is touched on every call, creating the shop if absent.
func (r *MongoProductRepository) Upsert(ctx context.Context, up domain.ProductUpsert) (*domain.Product, error) {
	if up.ExternalID == "" {
		return nil, &domain.ValidationError{Field: "externalId", Reason: "must not be empty"}
	}
	if up.Title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	now := time.Now()

	if err := r.touchShop(ctx, up.ShopDomain, now); err != nil {
		return nil, err
	}

	filter := bson.M{"_id": up.ExternalID}
	update := bson.M{
		"$set": bson.M{
			"title":           up.Title,
			"descriptionHtml": up.DescriptionHTML,
			"updatedAt":       now,
		},
		// shopDomain only on insert: shop reassignment is not supported.
		"$setOnInsert": bson.M{
			"shopDomain": up.ShopDomain,
			"createdAt":  now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc entity.MongoProductDoc
	if err := r.productsCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, &domain.StorageError{Op: "upsert product", Err: err}
	}

	return doc.ToDomain(), nil
}

func (r *MongoProductRepository) touchShop(ctx context.Context, shopDomain string, now time.Time) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": shopDomain}
	update := bson.M{
		"$set":         bson.M{"lastActivityAt": now},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	if _, err := r.shopsCollection.UpdateOne(ctx, filter, update, opts); err != nil {
		return &domain.StorageError{Op: "touch shop", Err: err}
	}
	return nil
}

// GetProduct retrieves a product by external ID
func (r *MongoProductRepository) GetProduct(ctx context.Context, externalID string) (*domain.Product, error) {
	var doc entity.MongoProductDoc
	filter := bson.M{"_id": externalID}

	err := r.productsCollection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get product", Err: err}
	}

	return doc.ToDomain(), nil
}

// ListProducts retrieves all products belonging to a shop
func (r *MongoProductRepository) ListProducts(ctx context.Context, shopDomain string) ([]*domain.Product, error) {
	cursor, err := r.productsCollection.Find(ctx, bson.M{"shopDomain": shopDomain})
	if err != nil {
		return nil, &domain.StorageError{Op: "list products", Err: err}
	}
	defer cursor.Close(ctx)

	var products []*domain.Product
	for cursor.Next(ctx) {
		var doc entity.MongoProductDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, &domain.StorageError{Op: "decode product", Err: err}
		}
		products = append(products, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, &domain.StorageError{Op: "iterate products", Err: err}
	}

	return products, nil
}

// GetShop retrieves a shop by domain
func (r *MongoProductRepository) GetShop(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	var doc entity.MongoShopDoc
	filter := bson.M{"_id": shopDomain}

	err := r.shopsCollection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "get shop", Err: err}
	}

	return doc.ToDomain(), nil
}
