package models_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/invoices_backend/config"
	"bitbucket.org/mmdatafocus/invoices_backend/models"
	"bitbucket.org/mmdatafocus/invoices_backend/utils"
)

// setupTest points the data directory at a fresh temp dir, connects the
// database and migrates the schema. Every test gets its own database file
// and artifact directory.
func setupTest(t *testing.T) context.Context {
	t.Helper()
	t.Setenv("INVOICES_DATA_DIR", t.TempDir())
	if err := config.ConnectDatabase(); err != nil {
		t.Fatalf("connect database: %v", err)
	}
	ctx := context.Background()
	if err := models.MigrateSchema(ctx); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return ctx
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

// newTestInvoice builds the single-line reference invoice:
// qty 2 x 100.00, item discount 10%, item tax 5% => final total 189.00.
func newTestInvoice(t *testing.T, customerName string, phone string) *models.NewInvoice {
	t.Helper()
	return &models.NewInvoice{
		Customer: models.NewCustomer{
			Name:  customerName,
			Phone: phone,
		},
		Lines: []*utils.LineInput{
			{
				ProductName:     "Widget",
				Qty:             2,
				UnitPrice:       mustDecimal(t, "100.00"),
				DiscountPercent: mustDecimal(t, "10"),
				TaxPercent:      mustDecimal(t, "5"),
			},
		},
		Status:        models.PaymentStatusUnpaid,
		PaymentMethod: models.PaymentMethodCash,
	}
}
