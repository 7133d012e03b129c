package infra

// pdf.go — PDF generation using go-pdf/fpdf.
// Two documents are produced here:
//   - GenerateTicketPDF: A7-size thermal receipt for a completed sale
//   - GenerateRecipeSheetPDF: A4 fiche technique for a costed dish
//
// Output files land under storagePath, which is created on demand.

import (
	"fmt"
	"os"
	"path/filepath"

	"brigade/internal/costing"
	"brigade/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateTicketPDF generates a PDF receipt for a completed sale.
// Returns the absolute path to the generated file.
func GenerateTicketPDF(sale *model.Sale, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("ticket_%d.pdf", sale.TicketNumber)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Brigade", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Ticket de caisse"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Ticket n° %d", sale.TicketNumber)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Plat", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, tr("Qté"), "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Sous-total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := ""
		if item.Dish != nil {
			name = item.Dish.Name
		}
		if len(name) > 22 {
			name = name[:21] + "…"
		}
		pdf.CellFormat(col1, 5, tr(name), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, item.Subtotal.StringFixed(2)+" DZD", "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, sale.Total.StringFixed(2)+" DZD", "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("Merci de votre visite !"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// RecipeSheetLine is one composition row on a fiche technique.
type RecipeSheetLine struct {
	Name     string
	Quantity float64
	Unit     string
	Cost     float64
}

// GenerateRecipeSheetPDF generates the A4 fiche technique of a dish:
// composition table with per-line costs, then the margin summary.
func GenerateRecipeSheetPDF(dish *model.Dish, lines []RecipeSheetLine, cost costing.DishCost, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("fiche_%s.pdf", dish.ID))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(180, 10, tr(dish.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(180, 6, tr(fmt.Sprintf("Catégorie : %s — %d portion(s)", dish.Category, dish.Portions)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Composition table ────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 7, tr("Composant"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, tr("Quantité"), "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 7, tr("Unité"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, tr("Coût"), "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, l := range lines {
		pdf.CellFormat(90, 6, tr(l.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", l.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, tr(l.Unit), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f DZD", l.Cost), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	// ── Margin summary ───────────────────────────────────────────────────────
	summary := [][2]string{
		{"Coût matière total", fmt.Sprintf("%.2f DZD", cost.TotalCost)},
		{"Coût par portion", fmt.Sprintf("%.2f DZD", cost.CostPerPortion)},
		{"Prix de vente HT", fmt.Sprintf("%.2f DZD", cost.PriceHT)},
		{"Marge brute", fmt.Sprintf("%.2f DZD (%.1f %%)", cost.GrossMargin, cost.GrossMarginPct)},
		{"Food cost", fmt.Sprintf("%.1f %%", cost.FoodCostPct)},
		{"Coefficient", fmt.Sprintf("%.2f", cost.Multiplier)},
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(180, 7, tr("Synthèse économique"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range summary {
		pdf.CellFormat(90, 6, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, tr(row[1]), "1", 1, "R", false, 0, "")
	}

	// ── Procedure ────────────────────────────────────────────────────────────
	if dish.Procedure != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(180, 7, tr("Procédure"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(180, 5, tr(dish.Procedure), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
