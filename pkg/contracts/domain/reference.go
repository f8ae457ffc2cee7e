package domain

// Product represents a row of the product reference table.
type Product struct {
	ProductID   int64  `json:"product_id" csv:"product_id"`
	ProductName string `json:"product_name" csv:"product_name"`
	CategoryID  int64  `json:"category_id" csv:"category_id"`
}

// Store represents a row of the store reference table.
type Store struct {
	StoreID   int64  `json:"store_id" csv:"store_id"`
	StoreName string `json:"store_name" csv:"store_name"`
}

// Category represents a row of the product-category reference table.
type Category struct {
	CategoryID   int64  `json:"category_id" csv:"category_id"`
	CategoryName string `json:"category_name" csv:"category_name"`
}

// ReferenceData bundles the lookup tables joined into transactions during ETL.
type ReferenceData struct {
	Products   map[int64]Product
	Stores     map[int64]Store
	Categories map[int64]Category
}
