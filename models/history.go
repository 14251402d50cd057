package models

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/invoices_backend/config"
	"bitbucket.org/mmdatafocus/invoices_backend/utils"
)

// InvoiceHistoryRow is the read-only projection used for listing and export.
type InvoiceHistoryRow struct {
	ID            int             `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	Date          string          `json:"date"`
	Status        PaymentStatus   `json:"status"`
	FinalTotal    decimal.Decimal `json:"final_total"`
	FilePath      string          `json:"file_path"`
}

const invoiceHistorySelect = `
SELECT
    i.id,
    i.invoice_number,
    COALESCE(c.name, '` + GuestCustomerName + `') AS customer_name,
    i.date,
    i.status,
    i.final_total,
    i.file_path
FROM invoices i
LEFT JOIN customers c ON i.customer_id = c.id
`

// ListInvoiceHistory lists all invoices newest-first. The customer join is a
// left join: an invoice whose customer row is gone lists with the fallback
// label instead of failing.
func ListInvoiceHistory(ctx context.Context) ([]*InvoiceHistoryRow, error) {
	db := config.GetDB()
	var rows []*InvoiceHistoryRow
	if err := db.WithContext(ctx).Raw(invoiceHistorySelect + "ORDER BY i.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func getInvoiceHistoryRow(ctx context.Context, id int) (*InvoiceHistoryRow, error) {
	db := config.GetDB()
	var rows []*InvoiceHistoryRow
	if err := db.WithContext(ctx).Raw(invoiceHistorySelect+"WHERE i.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return rows[0], nil
}

var exportHeadings = []string{"Invoice ID", "Invoice No", "Customer", "Date", "Status", "Final Total", "File Path"}

// ExportInvoicesExcel writes the selected invoices to an .xlsx file, one
// data row per id, in exactly the order the ids were supplied.
func ExportInvoicesExcel(ctx context.Context, ids []int, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Invoices"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	col := 'A'
	for _, h := range exportHeadings {
		if err := f.SetCellValue(sheetName, string(col)+"1", h); err != nil {
			return err
		}
		col++
	}

	for i, id := range ids {
		row, err := getInvoiceHistoryRow(ctx, id)
		if err != nil {
			return fmt.Errorf("invoice %d: %w", id, err)
		}
		values := []interface{}{
			row.ID,
			row.InvoiceNumber,
			row.CustomerName,
			row.Date,
			string(row.Status),
			row.FinalTotal.InexactFloat64(),
			row.FilePath,
		}
		col := 'A'
		for _, value := range values {
			if err := f.SetCellValue(sheetName, string(col)+fmt.Sprint(i+2), value); err != nil {
				return err
			}
			col++
		}
	}

	return f.SaveAs(path)
}
