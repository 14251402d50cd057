package pdf

import (
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/invoices_backend/config"
	"bitbucket.org/mmdatafocus/invoices_backend/utils"
)

// InvoiceDocument is everything the renderer needs for one invoice. Line
// amounts are recomputed from the inputs with the same decimal pipeline the
// pricing side uses, so the returned final total is a true cross-check.
type InvoiceDocument struct {
	InvoiceNumber   string
	Date            string
	Status          string
	PaymentMethod   string
	CustomerName    string
	CustomerAddress string
	CustomerPhone   string
	CustomerEmail   string
	Lines           []*utils.LineInput
	DiscountPercent decimal.Decimal
	Notes           string
}

// RenderResult makes the fail-soft policy for decorative assets an explicit
// contract: a skipped logo or watermark is reported, a failed artifact write
// is an error.
type RenderResult struct {
	FinalTotal       decimal.Decimal
	Pages            int
	LogoSkipped      bool
	WatermarkSkipped bool
}

type Renderer struct {
	company config.Company
}

func NewRenderer(company config.Company) *Renderer {
	return &Renderer{company: company}
}

const (
	// bodyBreakY is the vertical cursor threshold (mm) past which the table
	// continues on a new page with a fresh header row.
	bodyBreakY   = 250.0
	nameMaxChars = 45
	logoMaxW     = 300
	logoMaxH     = 150
)

var (
	columnWidths = [6]float64{80, 18, 28, 22, 22, 30}
	columnTitles = [6]string{"Product", "Qty", "Price", "Disc%", "Tax%", "Total"}
)

// Render writes the invoice PDF to path and returns the totals it rendered.
// The stages run in a fixed order: page header and footer repeat on every
// page, the table header additionally re-emits whenever a row would start
// past the break threshold.
func (r *Renderer) Render(doc InvoiceDocument, path string) (*RenderResult, error) {
	totals, err := utils.CalculateInvoiceTotals(doc.Lines, doc.DiscountPercent)
	if err != nil {
		return nil, err
	}

	result := &RenderResult{FinalTotal: totals.FinalTotal}

	logoPath, logoCleanup := r.prepareLogo()
	if logoCleanup != nil {
		defer logoCleanup()
	}
	result.LogoSkipped = r.company.Logo != "" && logoPath == ""

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetHeaderFunc(func() { r.pageHeader(pdf, logoPath) })
	pdf.SetFooterFunc(func() { r.pageFooter(pdf) })
	pdf.AddPage()

	r.metadataBlock(pdf, doc)
	r.tableHeader(pdf)
	for _, line := range doc.Lines {
		amounts, err := utils.CalculateLineAmounts(line)
		if err != nil {
			return nil, err
		}
		if pdf.GetY() > bodyBreakY {
			pdf.AddPage()
			r.tableHeader(pdf)
		}
		r.lineRow(pdf, line, amounts)
	}
	r.totalsBlock(pdf, doc, totals)
	r.notesBlock(pdf, doc.Notes)
	r.signatureBlock(pdf)

	result.Pages = pdf.PageCount()
	if err := pdf.OutputFileAndClose(path); err != nil {
		return nil, fmt.Errorf("write artifact %s: %w", path, err)
	}
	return result, nil
}

// pageHeader draws the logo, the company identity block and the watermark.
func (r *Renderer) pageHeader(pdf *gofpdf.Fpdf, logoPath string) {
	if logoPath != "" {
		pdf.ImageOptions(logoPath, 10, 8, 30, 0, false,
			gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 6, r.company.Name, "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, r.company.Address, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, r.company.Contact, "", 1, "R", false, 0, "")
	pdf.Ln(6)

	if r.company.Watermark != "" {
		pdf.SetTextColor(230, 230, 230)
		pdf.SetFont("Arial", "B", 40)
		pdf.TransformBegin()
		pdf.TransformRotate(15, 105, 150)
		pdf.Text(40, 150, r.company.Watermark)
		pdf.TransformEnd()
		pdf.SetTextColor(0, 0, 0)
	}
}

func (r *Renderer) pageFooter(pdf *gofpdf.Fpdf) {
	pdf.SetY(-30)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, r.company.Footer, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
}

func (r *Renderer) metadataBlock(pdf *gofpdf.Fpdf, doc InvoiceDocument) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "INVOICE: "+doc.InvoiceNumber, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, "Date: "+doc.Date, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Payment Status: %s    Method: %s", doc.Status, doc.PaymentMethod), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, fmt.Sprintf("%s\n%s\nPhone: %s\nEmail: %s",
		doc.CustomerName, doc.CustomerAddress, doc.CustomerPhone, doc.CustomerEmail), "", "L", false)
	pdf.Ln(4)
}

func (r *Renderer) tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFillColor(70, 130, 180)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 10)
	for i, title := range columnTitles {
		pdf.CellFormat(columnWidths[i], 8, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
}

func (r *Renderer) lineRow(pdf *gofpdf.Fpdf, line *utils.LineInput, amounts *utils.LineAmounts) {
	pdf.CellFormat(columnWidths[0], 7, utils.TruncateString(line.ProductName, nameMaxChars), "1", 0, "L", false, 0, "")
	pdf.CellFormat(columnWidths[1], 7, fmt.Sprint(line.Qty), "1", 0, "C", false, 0, "")
	pdf.CellFormat(columnWidths[2], 7, utils.FormatCurrency(line.UnitPrice), "1", 0, "R", false, 0, "")
	pdf.CellFormat(columnWidths[3], 7, utils.FormatPercent(line.DiscountPercent), "1", 0, "R", false, 0, "")
	pdf.CellFormat(columnWidths[4], 7, utils.FormatPercent(line.TaxPercent), "1", 0, "R", false, 0, "")
	pdf.CellFormat(columnWidths[5], 7, utils.FormatCurrency(amounts.LineTotal), "1", 1, "R", false, 0, "")
}

// totalsBlock renders one tax line per distinct rate, ascending, then the
// invoice discount and the final total.
func (r *Renderer) totalsBlock(pdf *gofpdf.Fpdf, doc InvoiceDocument, totals *utils.InvoiceTotals) {
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	for _, bucket := range totals.TaxBuckets {
		pdf.CellFormat(0, 6, fmt.Sprintf("Tax (%s%%): %s",
			utils.FormatPercent(bucket.Rate), utils.FormatCurrency(bucket.Amount)), "", 1, "R", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice Discount (%s%%): %s",
		utils.FormatPercent(doc.DiscountPercent), utils.FormatCurrency(totals.DiscountAmount)), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "FINAL TOTAL: "+utils.FormatCurrency(totals.FinalTotal), "", 1, "R", false, 0, "")
	pdf.Ln(6)
}

func (r *Renderer) notesBlock(pdf *gofpdf.Fpdf, notes string) {
	if notes == "" {
		return
	}
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, "Notes: "+notes, "", "L", false)
}

func (r *Renderer) signatureBlock(pdf *gofpdf.Fpdf) {
	signature := r.company.Signature
	if signature == "" {
		signature = "Authorized Signature"
	}
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, signature, "", 1, "L", false, 0, "")
}

// prepareLogo decodes the configured logo and downscales it to a bounded
// thumbnail in a temp file for embedding. Any failure means no logo: the
// asset is decorative and must never abort a render.
func (r *Renderer) prepareLogo() (string, func()) {
	if r.company.Logo == "" {
		return "", nil
	}
	img, err := imaging.Open(r.company.Logo)
	if err != nil {
		return "", nil
	}
	thumb := imaging.Fit(img, logoMaxW, logoMaxH, imaging.Lanczos)

	tmp, err := os.CreateTemp("", "invoice-logo-*.png")
	if err != nil {
		return "", nil
	}
	tmp.Close()
	if err := imaging.Save(thumb, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", nil
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }
}
