package domain

import "time"

// Product is the indexed product document. The SKU is the natural identity
// used for upserts. Titles are bilingual (English and Thai) and colors
// carry the composite facet key "code__labelEn__labelTh".
type Product struct {
	ID              string       `json:"id"`
	SKU             string       `json:"sku"`
	TitleEN         string       `json:"titleEn"`
	TitleTH         string       `json:"titleTh"`
	BrandID         string       `json:"brandId"`
	BrandName       string       `json:"brandName"`
	Categories      []string     `json:"categories"`
	Colors          []string     `json:"colors"`
	ActualMinPrice  float64      `json:"actualMinPrice"`
	DiscountPercent float64      `json:"discountPercent"`
	ImageURL        string       `json:"imageUrl"`
	Offers          []StoreOffer `json:"offers"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// StoreOffer is a nested child document describing one store's listing of
// the product inside a mall.
type StoreOffer struct {
	SKU      string `json:"sku"`
	StoreID  string `json:"storeId"`
	MallID   string `json:"mallId"`
	Stock    int64  `json:"stock"`
	Reserved int64  `json:"reserved"`
}

// Brand is the indexed brand document.
type Brand struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	NameEN    string    `json:"nameEn"`
	NameTH    string    `json:"nameTh"`
	LogoURL   string    `json:"logoUrl"`
	UpdatedAt time.Time `json:"updatedAt"`
}
