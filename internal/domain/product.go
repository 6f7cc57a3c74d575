package domain

import "time"

// Shop represents the owning tenant of a set of products, identified by its
// shop domain. A shop is created implicitly on the first product write.
type Shop struct {
	Domain         string    `json:"domain" bson:"_id"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at" bson:"last_activity_at"`
}

// Product is the locally stored copy of a remote product. ExternalID is the
// remote system's identifier and the merge key for every write.
type Product struct {
	ExternalID      string    `json:"external_id" bson:"_id"`
	ShopDomain      string    `json:"shop_domain" bson:"shop_domain"`
	Title           string    `json:"title" bson:"title"`
	DescriptionHTML string    `json:"description_html" bson:"description_html"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// ProductUpsert is the single write contract shared by the bulk and webhook
// paths. ShopDomain is only applied on create; it never reassigns an
// existing product to another shop.
type ProductUpsert struct {
	ShopDomain      string
	ExternalID      string
	Title           string
	DescriptionHTML string
}

// RemoteProduct is one record as returned by the remote listing API.
type RemoteProduct struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DescriptionHTML string `json:"descriptionHtml"`
}

// ProductPage is one page of the remote catalog. EndCursor is an opaque
// token understood only by the listing collaborator.
type ProductPage struct {
	Records     []RemoteProduct
	HasNextPage bool
	EndCursor   string
}

// SyncReport summarizes one full bulk synchronization run.
type SyncReport struct {
	ProductsSynced int `json:"products_synced"`
	Skipped        int `json:"skipped"`
}

// SyncStatus is the recorded outcome of the most recent successful bulk run
// for a shop.
type SyncStatus struct {
	ShopDomain     string    `json:"shop_domain"`
	ProductsSynced int       `json:"products_synced"`
	Skipped        int       `json:"skipped"`
	CompletedAt    time.Time `json:"completed_at"`
}
