package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Size is a garment size. Products keep one stock entry per size.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// AllSizes lists every valid size, in display order.
var AllSizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

// ParseSize validates a raw size string against the fixed enumeration.
func ParseSize(s string) (Size, bool) {
	for _, size := range AllSizes {
		if string(size) == s {
			return size, true
		}
	}
	return "", false
}

func (s Size) String() string {
	return string(s)
}

// StockEntry is a per-size quantity counter on a product.
type StockEntry struct {
	Size     Size `bson:"size" json:"size"`
	Quantity int  `bson:"quantity" json:"quantity"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Collection  string             `bson:"collection,omitempty" json:"collection,omitempty"`
	Color       string             `bson:"color,omitempty" json:"color,omitempty"`
	Featured    bool               `bson:"featured,omitempty" json:"featured,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Stock       []StockEntry       `bson:"stock" json:"stock"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// StockFor returns the stock entry for the given size, if the product has one.
func (p *Product) StockFor(size Size) (StockEntry, bool) {
	for _, entry := range p.Stock {
		if entry.Size == size {
			return entry, true
		}
	}
	return StockEntry{}, false
}
