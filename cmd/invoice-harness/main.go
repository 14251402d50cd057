// invoice-harness exercises the full save/list/export/delete pipeline
// against a local data directory. Useful as an end-to-end smoke check when
// the form surface is not available.
//
// Usage:
//   INVOICES_DATA_DIR=/tmp/invoices go run ./cmd/invoice-harness
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/invoices_backend/config"
	"bitbucket.org/mmdatafocus/invoices_backend/models"
	"bitbucket.org/mmdatafocus/invoices_backend/utils"
)

func main() {
	ctx := context.Background()

	if err := config.ConnectDatabase(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect database: %v\n", err)
		os.Exit(1)
	}
	if err := models.MigrateSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate schema: %v\n", err)
		os.Exit(1)
	}

	product, err := models.CreateProduct(ctx, &models.NewProduct{
		Name:    "Standard Widget",
		Price:   decimal.NewFromFloat(100.00),
		Barcode: "WID-0001",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create product: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("product #%d %s @ %s\n", product.ID, product.Name, utils.FormatCurrency(product.Price))

	newInvoice := &models.NewInvoice{
		Customer: models.NewCustomer{
			Name:    "Harness Customer",
			Phone:   "0300-0000000",
			Address: "1 Test Lane",
			Email:   "harness@example.com",
		},
		Lines: []*utils.LineInput{
			{
				ProductId:       product.ID,
				ProductName:     product.Name,
				Qty:             2,
				UnitPrice:       product.Price,
				DiscountPercent: decimal.NewFromInt(10),
				TaxPercent:      decimal.NewFromInt(5),
			},
			{
				ProductName: "Handling",
				Qty:         1,
				UnitPrice:   decimal.NewFromFloat(50.00),
				TaxPercent:  decimal.NewFromInt(10),
			},
		},
		DiscountPercent: decimal.NewFromInt(5),
		Status:          models.PaymentStatusPaid,
		PaymentMethod:   models.PaymentMethodCash,
		Notes:           "Created by invoice-harness.",
	}

	first, err := models.CreateInvoice(ctx, newInvoice)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to save first invoice: %v\n", err)
		os.Exit(1)
	}
	second, err := models.CreateInvoice(ctx, newInvoice)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to save second invoice: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("saved %s and %s\n", first.InvoiceNumber, second.InvoiceNumber)

	rows, err := models.ListInvoiceHistory(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list history: %v\n", err)
		os.Exit(1)
	}
	for _, row := range rows {
		fmt.Printf("  #%d %s %s %s %s\n",
			row.ID, row.InvoiceNumber, row.CustomerName, row.Status, utils.FormatCurrency(row.FinalTotal))
	}

	exportPath := filepath.Join(config.DataDir(), "harness-export.xlsx")
	ids := []int{second.ID, first.ID}
	if err := models.ExportInvoicesExcel(ctx, ids, exportPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to export: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("exported %d invoices to %s\n", len(ids), exportPath)

	if err := models.DeleteInvoice(ctx, first.ID); err != nil {
		fmt.Fprintf(os.Stderr, "failed to delete invoice %d: %v\n", first.ID, err)
		os.Exit(1)
	}
	fmt.Printf("deleted invoice #%d with its artifact\n", first.ID)
}
