package events

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"mapmeet/share"
	"mapmeet/utils"
)

// PrintFlyer handles GET /api/events/event/:eventid/flyer. It renders
// a printable PDF with the event details and a QR code pointing at the
// share link.
func (h *Handler) PrintFlyer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.Events.Get(r.Context(), ps.ByName("eventid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "event not found")
		return
	}

	link := share.BuildLink(share.OriginFromRequest(r), event.EventID)
	qrPNG, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, event.Title)
	pdf.Ln(16)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("When: %s", event.StartDateTime.Format("Monday, Jan 2, 2006 at 3:04 PM")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Where: %s", event.LocationAddress))
	pdf.Ln(8)
	if event.Price > 0 {
		pdf.Cell(0, 10, fmt.Sprintf("Price: $%.2f", event.Price))
	} else {
		pdf.Cell(0, 10, "Free entry")
	}
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.MultiCell(0, 6, event.Description, "", "L", false)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=flyer-"+event.EventID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
