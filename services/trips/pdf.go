package trips

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/voyago/travelplanner/internal/pkg/models"
)

const dateLayout = "Mon, 02 Jan 2006"

// renderItinerary builds a printable itinerary document for a trip
func renderItinerary(trip *models.Trip, budgets []models.Budget) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Trip to %s", trip.Destination), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, fmt.Sprintf("Trip to %s", trip.Destination), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s", trip.Status), "", 1, "L", false, 0, "")
	if trip.Source != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("From: %s", trip.Source), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, formatDates(trip.StartDate, trip.EndDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Travelers: %d", trip.Travelers), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	if trip.TripPlan != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 9, "Itinerary", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range strings.Split(trip.TripPlan, "\n") {
			pdf.MultiCell(0, 5.5, line, "", "L", false)
		}
		pdf.Ln(4)
	}

	if len(budgets) > 0 {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 9, "Budget", "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(235, 235, 235)
		pdf.CellFormat(60, 7, "Category", "1", 0, "L", true, 0, "")
		pdf.CellFormat(40, 7, "Planned", "1", 0, "R", true, 0, "")
		pdf.CellFormat(40, 7, "Spent", "1", 0, "R", true, 0, "")
		pdf.CellFormat(40, 7, "Remaining", "1", 1, "R", true, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		var totalPlanned, totalSpent float64
		for _, b := range budgets {
			totalPlanned += b.PlannedAmount
			totalSpent += b.SpentAmount
			pdf.CellFormat(60, 7, b.Category, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%.2f %s", b.PlannedAmount, b.Currency), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", b.SpentAmount), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", b.PlannedAmount-b.SpentAmount), "1", 1, "R", false, 0, "")
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 7, "Total", "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", totalPlanned), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", totalSpent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", totalPlanned-totalSpent), "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s", time.Now().Format(dateLayout)), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render itinerary: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDates(start, end *time.Time) string {
	switch {
	case start != nil && end != nil:
		return fmt.Sprintf("Dates: %s - %s", start.Format(dateLayout), end.Format(dateLayout))
	case start != nil:
		return fmt.Sprintf("Starts: %s", start.Format(dateLayout))
	case end != nil:
		return fmt.Sprintf("Ends: %s", end.Format(dateLayout))
	default:
		return "Dates: not set"
	}
}
