package utils_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"bitbucket.org/mmdatafocus/invoices_backend/utils"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func line(t *testing.T, name string, qty int, price, disc, tax string) *utils.LineInput {
	t.Helper()
	return &utils.LineInput{
		ProductName:     name,
		Qty:             qty,
		UnitPrice:       dec(t, price),
		DiscountPercent: dec(t, disc),
		TaxPercent:      dec(t, tax),
	}
}

func TestCalculateLineAmounts(t *testing.T) {
	cases := []struct {
		name                           string
		qty                            int
		price, disc, tax               string
		base, discAmt, taxable, taxAmt string
		lineTotal                      string
	}{
		{"plain", 3, "10.00", "0", "0", "30", "0", "30", "0", "30"},
		{"discount and tax", 2, "100.00", "10", "5", "200", "20", "180", "9", "189"},
		{"full discount", 1, "50.00", "100", "5", "50", "50", "0", "0", "0"},
		{"zero price", 4, "0", "25", "10", "0", "0", "0", "0", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amounts, err := utils.CalculateLineAmounts(line(t, tc.name, tc.qty, tc.price, tc.disc, tc.tax))
			if err != nil {
				t.Fatalf("CalculateLineAmounts: %v", err)
			}
			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"base", amounts.Base, tc.base},
				{"discount amount", amounts.DiscountAmount, tc.discAmt},
				{"taxable", amounts.Taxable, tc.taxable},
				{"tax amount", amounts.TaxAmount, tc.taxAmt},
				{"line total", amounts.LineTotal, tc.lineTotal},
			}
			for _, c := range checks {
				if !c.got.Equal(dec(t, c.want)) {
					t.Errorf("%s = %s, want %s", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestCalculateLineAmountsValidation(t *testing.T) {
	cases := []struct {
		name string
		line *utils.LineInput
	}{
		{"nil line", nil},
		{"zero qty", line(t, "a", 0, "10", "0", "0")},
		{"negative qty", line(t, "a", -2, "10", "0", "0")},
		{"negative price", line(t, "a", 1, "-1", "0", "0")},
		{"negative discount", line(t, "a", 1, "10", "-5", "0")},
		{"discount over 100", line(t, "a", 1, "10", "101", "0")},
		{"negative tax", line(t, "a", 1, "10", "0", "-5")},
		{"missing name", line(t, "", 1, "10", "0", "0")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := utils.CalculateLineAmounts(tc.line); !utils.IsValidationError(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCalculateInvoiceTotalsSingleLine(t *testing.T) {
	totals, err := utils.CalculateInvoiceTotals(
		[]*utils.LineInput{line(t, "widget", 2, "100.00", "10", "5")},
		decimal.Zero,
	)
	if err != nil {
		t.Fatalf("CalculateInvoiceTotals: %v", err)
	}
	if !totals.Subtotal.Equal(dec(t, "180")) {
		t.Errorf("subtotal = %s, want 180", totals.Subtotal)
	}
	if !totals.TaxTotal.Equal(dec(t, "9")) {
		t.Errorf("tax total = %s, want 9", totals.TaxTotal)
	}
	if !totals.DiscountAmount.IsZero() {
		t.Errorf("discount amount = %s, want 0", totals.DiscountAmount)
	}
	if !totals.FinalTotal.Equal(dec(t, "189")) {
		t.Errorf("final total = %s, want 189", totals.FinalTotal)
	}
	if len(totals.TaxBuckets) != 1 || !totals.TaxBuckets[0].Amount.Equal(dec(t, "9")) {
		t.Errorf("tax buckets = %+v, want one bucket of 9", totals.TaxBuckets)
	}
}

// Invoice-level discount reduces the subtotal component only; the tax sum is
// carried into the final total untouched.
func TestCalculateInvoiceTotalsTwoRates(t *testing.T) {
	lines := []*utils.LineInput{
		line(t, "widget", 1, "200.00", "10", "5"), // taxable 180, tax 9
		line(t, "gadget", 1, "120.00", "0", "10"), // taxable 120, tax 12
	}
	totals, err := utils.CalculateInvoiceTotals(lines, dec(t, "10"))
	if err != nil {
		t.Fatalf("CalculateInvoiceTotals: %v", err)
	}
	if !totals.Subtotal.Equal(dec(t, "300")) {
		t.Errorf("subtotal = %s, want 300", totals.Subtotal)
	}
	if len(totals.TaxBuckets) != 2 {
		t.Fatalf("tax buckets = %d, want 2", len(totals.TaxBuckets))
	}
	if !totals.TaxBuckets[0].Rate.Equal(dec(t, "5")) || !totals.TaxBuckets[0].Amount.Equal(dec(t, "9")) {
		t.Errorf("bucket[0] = %+v, want rate 5 amount 9", totals.TaxBuckets[0])
	}
	if !totals.TaxBuckets[1].Rate.Equal(dec(t, "10")) || !totals.TaxBuckets[1].Amount.Equal(dec(t, "12")) {
		t.Errorf("bucket[1] = %+v, want rate 10 amount 12", totals.TaxBuckets[1])
	}
	if !totals.DiscountAmount.Equal(dec(t, "30")) {
		t.Errorf("discount amount = %s, want 30", totals.DiscountAmount)
	}
	// 300 + 21 - 30
	if !totals.FinalTotal.Equal(dec(t, "291")) {
		t.Errorf("final total = %s, want 291", totals.FinalTotal)
	}
}

func TestCalculateInvoiceTotalsBucketsGroupByRate(t *testing.T) {
	lines := []*utils.LineInput{
		line(t, "a", 1, "100.00", "0", "5"),
		line(t, "b", 1, "60.00", "0", "5"),
		line(t, "c", 1, "40.00", "0", "0"), // zero rate contributes no bucket
	}
	totals, err := utils.CalculateInvoiceTotals(lines, decimal.Zero)
	if err != nil {
		t.Fatalf("CalculateInvoiceTotals: %v", err)
	}
	if len(totals.TaxBuckets) != 1 {
		t.Fatalf("tax buckets = %d, want 1", len(totals.TaxBuckets))
	}
	if !totals.TaxBuckets[0].Amount.Equal(dec(t, "8")) {
		t.Errorf("bucket amount = %s, want 8", totals.TaxBuckets[0].Amount)
	}
}

func TestCalculateInvoiceTotalsValidation(t *testing.T) {
	if _, err := utils.CalculateInvoiceTotals(nil, decimal.Zero); !utils.IsValidationError(err) {
		t.Fatalf("empty lines: expected ValidationError, got %v", err)
	}
	lines := []*utils.LineInput{line(t, "a", 1, "10", "0", "0")}
	if _, err := utils.CalculateInvoiceTotals(lines, dec(t, "101")); !utils.IsValidationError(err) {
		t.Fatalf("discount over 100: expected ValidationError, got %v", err)
	}
	if _, err := utils.CalculateInvoiceTotals(lines, dec(t, "-1")); !utils.IsValidationError(err) {
		t.Fatalf("negative discount: expected ValidationError, got %v", err)
	}
	// a single bad line aborts the whole computation
	bad := []*utils.LineInput{lines[0], line(t, "b", 0, "10", "0", "0")}
	if _, err := utils.CalculateInvoiceTotals(bad, decimal.Zero); !utils.IsValidationError(err) {
		t.Fatalf("bad line: expected ValidationError, got %v", err)
	}
}

// The engine backs both the live on-screen totals and the persisted ones, so
// repeated runs over the same inputs must agree exactly.
func TestCalculateInvoiceTotalsDeterministic(t *testing.T) {
	lines := []*utils.LineInput{
		line(t, "widget", 3, "19.99", "7.5", "16"),
		line(t, "gadget", 2, "4.25", "0", "16"),
	}
	first, err := utils.CalculateInvoiceTotals(lines, dec(t, "2.5"))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := utils.CalculateInvoiceTotals(lines, dec(t, "2.5"))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !first.FinalTotal.Equal(second.FinalTotal) || !first.Subtotal.Equal(second.Subtotal) {
		t.Fatalf("runs disagree: %+v vs %+v", first, second)
	}
}
