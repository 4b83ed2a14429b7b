package renderer

import (
	"bytes"
	"fmt"
	"time"

	"eventify/pkg/model"

	"github.com/go-pdf/fpdf"
)

const ContentTypePDF = "application/pdf"

// PDFRenderer lays out a single A5 admission ticket.
type PDFRenderer struct {
	compress bool
	now      func() time.Time
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{
		compress: true,
		now:      time.Now,
	}
}

func (r *PDFRenderer) ContentType() string {
	return ContentTypePDF
}

func (r *PDFRenderer) Render(data *model.TicketData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	created := r.now()
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetTitle("Ticket "+data.Reference, true)
	pdf.SetCreator("eventify", true)
	pdf.SetMargins(12, 14, 12)
	pdf.SetAutoPageBreak(true, 14)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageWidth - left - right

	pdf.SetFillColor(33, 37, 41)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(width, 14, "EVENT TICKET", "", 1, "C", true, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(33, 37, 41)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(width, 8, tr(data.EventTitle), "", "L", false)
	if data.Excerpt != "" {
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(width, 5, tr(data.Excerpt), "", "L", false)
		pdf.SetTextColor(33, 37, 41)
	}
	pdf.Ln(4)

	field := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(32, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(width-32, 7, tr(value), "", "L", false)
	}

	field("Date:", data.Date)
	field("Time:", data.Time)
	field("Location:", data.Location)
	pdf.Ln(2)
	field("Attendee:", data.AttendeeName)
	field("Email:", data.AttendeeEmail)
	pdf.Ln(2)
	field("Reservation ID:", data.ReservationID)

	pdf.Ln(6)
	x, y := pdf.GetXY()
	pdf.SetDrawColor(33, 37, 41)
	pdf.SetLineWidth(0.6)
	pdf.Rect(x, y, width, 20, "D")
	pdf.SetFont("Courier", "B", 22)
	pdf.CellFormat(width, 20, data.Reference, "", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(width, 6, "Scan this at the entrance.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}
	return buf.Bytes(), nil
}
