package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/invoices_backend/config"
	"bitbucket.org/mmdatafocus/invoices_backend/utils"
)

// Product is a catalog entry. Invoice items snapshot the name and price at
// time of sale, so editing the catalog never rewrites history.
type Product struct {
	ID      int             `gorm:"primary_key" json:"id"`
	Name    string          `gorm:"size:100;not null" json:"name"`
	Price   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	Barcode string          `gorm:"size:64" json:"barcode"`
}

type NewProduct struct {
	Name    string          `json:"name" validate:"required"`
	Price   decimal.Decimal `json:"price"`
	Barcode string          `json:"barcode"`
}

func (input *NewProduct) validate() error {
	if err := validateInput(input); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return utils.NewValidationError("price", "price must not be negative")
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := Product{
		Name:    input.Name,
		Price:   input.Price,
		Barcode: input.Barcode,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func GetProducts(ctx context.Context) ([]*Product, error) {
	db := config.GetDB()
	var products []*Product
	if err := db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
