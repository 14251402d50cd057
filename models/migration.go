package models

import (
	"context"

	"bitbucket.org/mmdatafocus/invoices_backend/config"
)

// MigrateSchema creates or updates the four tables. Column names must stay
// exactly as they are: existing invoices.db files are read by this schema.
func MigrateSchema(ctx context.Context) error {
	db := config.GetDB()
	return db.WithContext(ctx).AutoMigrate(
		&Customer{},
		&Product{},
		&Invoice{},
		&InvoiceItem{},
	)
}
