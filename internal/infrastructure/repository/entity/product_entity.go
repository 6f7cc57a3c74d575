package entity

import (
	"time"

	"catalog-sync-shopify-layer/internal/domain"
)

// MongoProductDoc represents a synced product in MongoDB. The remote
// external ID doubles as the document id, which makes every upsert a
// single-document operation and so atomic per product.
type MongoProductDoc struct {
	ExternalID      string    `bson:"_id"`
	ShopDomain      string    `bson:"shopDomain"`
	Title           string    `bson:"title"`
	DescriptionHTML string    `bson:"descriptionHtml"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoProductDoc) ToDomain() *domain.Product {
	return &domain.Product{
		ExternalID:      d.ExternalID,
		ShopDomain:      d.ShopDomain,
		Title:           d.Title,
		DescriptionHTML: d.DescriptionHTML,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// MongoShopDoc represents an owning shop in MongoDB
type MongoShopDoc struct {
	Domain         string    `bson:"_id"`
	CreatedAt      time.Time `bson:"createdAt"`
	LastActivityAt time.Time `bson:"lastActivityAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoShopDoc) ToDomain() *domain.Shop {
	return &domain.Shop{
		Domain:         d.Domain,
		CreatedAt:      d.CreatedAt,
		LastActivityAt: d.LastActivityAt,
	}
}
