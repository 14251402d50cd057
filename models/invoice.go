package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bitbucket.org/mmdatafocus/invoices_backend/config"
	"bitbucket.org/mmdatafocus/invoices_backend/pdf"
	"bitbucket.org/mmdatafocus/invoices_backend/utils"
)

// GuestCustomerName is the fallback label for invoices whose customer row is
// missing or whose customer name was left blank at save time.
const GuestCustomerName = "Guest"

type Invoice struct {
	ID              int             `gorm:"primary_key" json:"id"`
	InvoiceNumber   string          `gorm:"size:30;index" json:"invoice_number"`
	CustomerId      int             `gorm:"index" json:"customer_id"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(20,4)" json:"subtotal"`
	Taxes           decimal.Decimal `gorm:"type:decimal(20,4)" json:"taxes"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(20,4)" json:"discount_percent"`
	FinalTotal      decimal.Decimal `gorm:"type:decimal(20,4)" json:"final_total"`
	Status          PaymentStatus   `gorm:"size:20;not null;default:'Unpaid'" json:"status"`
	PaymentMethod   PaymentMethod   `gorm:"size:20;not null;default:'Cash'" json:"payment_method"`
	Date            string          `gorm:"size:30;index" json:"date"`
	Notes           string          `gorm:"type:text" json:"notes"`
	FilePath        string          `gorm:"size:255" json:"file_path"`
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceId" json:"items"`
}

// InvoiceItem stores a snapshot of the product name and price at time of
// sale. ProductId is a soft reference back to the catalog and may be nil.
type InvoiceItem struct {
	ID              int             `gorm:"primary_key" json:"id"`
	InvoiceId       int             `gorm:"index;not null" json:"invoice_id"`
	ProductId       *int            `json:"product_id"`
	ProductName     string          `gorm:"size:100;not null" json:"product_name"`
	Qty             int             `gorm:"not null" json:"qty"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(20,4)" json:"unit_price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(20,4)" json:"discount_percent"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(20,4)" json:"tax_percent"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(20,4)" json:"subtotal"`
}

type NewInvoice struct {
	Customer        NewCustomer        `json:"customer"`
	Lines           []*utils.LineInput `json:"lines"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	Status          PaymentStatus      `json:"status"`
	PaymentMethod   PaymentMethod      `json:"payment_method"`
	Notes           string             `json:"notes"`
}

func (input *NewInvoice) validate() error {
	if len(input.Lines) == 0 {
		return utils.NewValidationError("lines", "invoice must contain at least one item")
	}
	if input.Status != "" {
		if _, err := ParsePaymentStatus(string(input.Status)); err != nil {
			return utils.NewValidationError("status", err.Error())
		}
	}
	if input.PaymentMethod != "" {
		if _, err := ParsePaymentMethod(string(input.PaymentMethod)); err != nil {
			return utils.NewValidationError("payment_method", err.Error())
		}
	}
	return nil
}

// normalized returns the effective customer, status and method after the
// form defaults the original surface applied.
func (input *NewInvoice) normalized() (NewCustomer, PaymentStatus, PaymentMethod) {
	customer := input.Customer
	if customer.Name == "" {
		customer.Name = GuestCustomerName
	}
	status := input.Status
	if status == "" {
		status = PaymentStatusUnpaid
	}
	method := input.PaymentMethod
	if method == "" {
		method = PaymentMethodCash
	}
	return customer, status, method
}

func buildDocument(number string, dateStr string, customer NewCustomer, status PaymentStatus, method PaymentMethod, input *NewInvoice) pdf.InvoiceDocument {
	return pdf.InvoiceDocument{
		InvoiceNumber:   number,
		Date:            dateStr,
		Status:          string(status),
		PaymentMethod:   string(method),
		CustomerName:    customer.Name,
		CustomerAddress: customer.Address,
		CustomerPhone:   customer.Phone,
		CustomerEmail:   customer.Email,
		Lines:           input.Lines,
		DiscountPercent: input.DiscountPercent,
		Notes:           input.Notes,
	}
}

// resolveItemProductId snapshots the catalog reference for one line. An
// explicit id must exist; a line typed in by name keeps a best-effort link.
func resolveItemProductId(ctx context.Context, line *utils.LineInput) (*int, error) {
	if line.ProductId > 0 {
		product, err := GetProduct(ctx, line.ProductId)
		if err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				return nil, fmt.Errorf("product %d: %w", line.ProductId, utils.ErrorRecordNotFound)
			}
			return nil, err
		}
		id := product.ID
		return &id, nil
	}

	db := config.GetDB()
	var product Product
	err := db.WithContext(ctx).Where("name = ?", line.ProductName).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	id := product.ID
	return &id, nil
}

// CreateInvoice runs the whole save pipeline: compute totals, reuse or
// create the customer, mint the daily invoice number, render the PDF
// artifact, then persist the header and items in one transaction. A failed
// insert removes the artifact again so a database row can never point at a
// file that was not written.
func CreateInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	logger := config.GetLogger()

	if err := input.validate(); err != nil {
		return nil, err
	}
	totals, err := utils.CalculateInvoiceTotals(input.Lines, input.DiscountPercent)
	if err != nil {
		return nil, err
	}

	// Resolve catalog references before any write so a stale product id
	// aborts with no side effects.
	items := make([]InvoiceItem, 0, len(input.Lines))
	for _, line := range input.Lines {
		productId, err := resolveItemProductId(ctx, line)
		if err != nil {
			return nil, err
		}
		amounts, err := utils.CalculateLineAmounts(line)
		if err != nil {
			return nil, err
		}
		items = append(items, InvoiceItem{
			ProductId:       productId,
			ProductName:     line.ProductName,
			Qty:             line.Qty,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			TaxPercent:      line.TaxPercent,
			Subtotal:        amounts.LineTotal,
		})
	}

	newCustomer, status, method := input.normalized()
	customer, err := FindOrCreateCustomer(ctx, &newCustomer)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	now := time.Now()
	number, err := NextInvoiceNumber(ctx, db, now)
	if err != nil {
		return nil, err
	}
	dateStr := now.Format(invoiceDateLayout)

	artifactDir, err := config.ArtifactDir()
	if err != nil {
		return nil, err
	}
	artifactPath := filepath.Join(artifactDir, number+".pdf")

	renderer := pdf.NewRenderer(config.LoadCompany())
	doc := buildDocument(number, dateStr, newCustomer, status, method, input)
	result, err := renderer.Render(doc, artifactPath)
	if err != nil {
		return nil, fmt.Errorf("render invoice artifact: %w", err)
	}
	if !result.FinalTotal.Equal(totals.FinalTotal) {
		_ = os.Remove(artifactPath)
		return nil, fmt.Errorf("rendered total %s does not match computed total %s",
			result.FinalTotal.String(), totals.FinalTotal.String())
	}

	invoice := Invoice{
		InvoiceNumber:   number,
		CustomerId:      customer.ID,
		Subtotal:        totals.Subtotal,
		Taxes:           totals.TaxTotal,
		DiscountPercent: input.DiscountPercent,
		FinalTotal:      totals.FinalTotal,
		Status:          status,
		PaymentMethod:   method,
		Date:            dateStr,
		Notes:           input.Notes,
		FilePath:        artifactPath,
		Items:           items,
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
		tx.Rollback()
		_ = os.Remove(artifactPath)
		config.LogError(logger, "models", "CreateInvoice", "insert", number, err)
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		_ = os.Remove(artifactPath)
		config.LogError(logger, "models", "CreateInvoice", "commit", number, err)
		return nil, err
	}

	return &invoice, nil
}

// PreviewInvoice renders a throwaway artifact with a _preview suffix and no
// database writes. The minted number is whatever the next save would get.
func PreviewInvoice(ctx context.Context, input *NewInvoice) (string, error) {
	if err := input.validate(); err != nil {
		return "", err
	}
	if _, err := utils.CalculateInvoiceTotals(input.Lines, input.DiscountPercent); err != nil {
		return "", err
	}

	newCustomer, status, method := input.normalized()

	db := config.GetDB()
	now := time.Now()
	number, err := NextInvoiceNumber(ctx, db, now)
	if err != nil {
		return "", err
	}

	artifactDir, err := config.ArtifactDir()
	if err != nil {
		return "", err
	}
	previewPath := filepath.Join(artifactDir, number+"_preview.pdf")

	renderer := pdf.NewRenderer(config.LoadCompany())
	doc := buildDocument(number, now.Format(invoiceDateLayout), newCustomer, status, method, input)
	if _, err := renderer.Render(doc, previewPath); err != nil {
		return "", fmt.Errorf("render invoice preview: %w", err)
	}
	return previewPath, nil
}

func GetInvoice(ctx context.Context, id int) (*Invoice, error) {
	db := config.GetDB()
	var invoice Invoice
	err := db.WithContext(ctx).Preload("Items").First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// GetInvoiceFilePath returns the stored artifact path for one invoice.
func GetInvoiceFilePath(ctx context.Context, id int) (string, error) {
	invoice, err := GetInvoice(ctx, id)
	if err != nil {
		return "", err
	}
	return invoice.FilePath, nil
}

// DeleteInvoice removes the item rows, the invoice row and, best-effort,
// the artifact file. Deleting an id that does not exist is a no-op, and an
// artifact already gone from disk is not a failure.
func DeleteInvoice(ctx context.Context, id int) error {
	db := config.GetDB()

	var invoice Invoice
	err := db.WithContext(ctx).First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	if err := tx.WithContext(ctx).Where("invoice_id = ?", id).Delete(&InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(&Invoice{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	if invoice.FilePath != "" {
		if err := os.Remove(invoice.FilePath); err != nil && !os.IsNotExist(err) {
			config.GetLogger().WithFields(logrus.Fields{
				"invoice_id": id,
				"file_path":  invoice.FilePath,
			}).Warn("invoice artifact could not be removed")
		}
	}
	return nil
}
