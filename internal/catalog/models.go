package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Artisan struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user"`
	BusinessName string    `json:"business_name"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Product struct {
	ID          string          `json:"id"`
	ArtisanID   string          `json:"artisan"`
	ArtisanName string          `json:"artisan_name"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	ImageURL    *string         `json:"image"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ArtisanInput struct {
	BusinessName string `json:"business_name"`
	Description  string `json:"description"`
	Location     string `json:"location"`
}

type ArtisanUpdate struct {
	BusinessName *string `json:"business_name"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
}

type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	ImageURL    *string         `json:"image"`
}

type ProductUpdate struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Inventory   *int             `json:"inventory"`
	ImageURL    *string          `json:"image"`
}
