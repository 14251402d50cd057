package models

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	invoiceDateLayout = "2006-01-02 15:04:05"
	invoiceDayLayout  = "2006-01-02"
)

// NextInvoiceNumber mints INV-YYYYMMDD-#### where #### is a 1-based daily
// sequence derived from the count of invoices already stored for the local
// date of now.
//
// Known limitation: allocation is a plain count and is not atomic with the
// eventual insert, so two saves racing each other could mint the same
// number. The deployment is single-operator and the save path runs
// synchronously, so this is accepted rather than papered over with locking.
func NextInvoiceNumber(ctx context.Context, db *gorm.DB, now time.Time) (string, error) {
	var count int64
	err := db.WithContext(ctx).Model(&Invoice{}).
		Where("date LIKE ?", now.Format(invoiceDayLayout)+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%s-%04d", now.Format("20060102"), count+1), nil
}
