package models

// User is one record of a role collection (sellers or buyers). Uniqueness
// of Username holds within a single collection only.
type User struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	PendingCode string `json:"sms_code,omitempty"`
}

// Product is the flat, denormalized view of a catalog item. Identity for
// matching purposes is the (Name, Category) pair. An empty SellerID means
// the attribution is absent.
type Product struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
	SellerID string  `json:"seller_id,omitempty"`
}

// DefaultCategory is assigned to products persisted without a category.
const DefaultCategory = "Uncategorized"

// CategoryGroup mirrors the persisted products document layout: items are
// grouped under their category, and the per-item records carry no category
// of their own.
type CategoryGroup struct {
	Category string      `json:"category"`
	Products []GroupItem `json:"products"`
}

type GroupItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	SellerID string  `json:"seller_id,omitempty"`
}
