package invoice

import (
	"bytes"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	pageWidth  = 210.0
	marginLeft = 20.0
	rightEdge  = 190.0
	footerTop  = 270.0
	summaryX   = 130.0
)

type rgb struct{ r, g, b int }

var (
	saffron   = rgb{255, 153, 51}
	dark      = rgb{51, 51, 51}
	lightGray = rgb{240, 240, 240}
	muted     = rgb{100, 100, 100}
	white     = rgb{255, 255, 255}

	tableColumns = []struct {
		title string
		width float64
		align string
	}{
		{"Product Name", 60, "L"},
		{"Unique Code", 40, "C"},
		{"Quantity", 25, "C"},
		{"Unit Price", 30, "R"},
		{"Total", 35, "R"},
	}
)

// core fonts carry no rupee glyph
const currency = "Rs."

type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// Render lays the document out on a single A4 page.
func Render(d Document) ([]byte, error) {
	return render(d, true)
}

func render(d Document, compress bool) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Invoice "+d.Number, true)
	pdf.SetCreator("Nashik Connect", true)
	pdf.AddPage()

	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	p.header(d)
	y := p.billTo(d.Customer)
	y = p.table(d, y)
	p.summary(d, y)
	p.footer()

	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(err, "layout invoice")
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "write invoice pdf")
	}
	return buf.Bytes(), nil
}

func (p *page) fill(c rgb) { p.pdf.SetFillColor(c.r, c.g, c.b) }
func (p *page) text(c rgb) { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *page) draw(c rgb) { p.pdf.SetDrawColor(c.r, c.g, c.b) }
func (p *page) font(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
}

func (p *page) left(x, y float64, s string) {
	p.pdf.Text(x, y, p.tr(s))
}

func (p *page) right(x, y float64, s string) {
	s = p.tr(s)
	p.pdf.Text(x-p.pdf.GetStringWidth(s), y, s)
}

func (p *page) center(y float64, s string) {
	s = p.tr(s)
	p.pdf.Text((pageWidth-p.pdf.GetStringWidth(s))/2, y, s)
}

func (p *page) header(d Document) {
	p.fill(saffron)
	p.pdf.Rect(0, 0, pageWidth, 40, "F")

	p.text(white)
	p.font("B", 28)
	p.center(20, "NASHIK CONNECT")
	p.font("", 12)
	p.center(28, "Kumbh Vyapaar Marketplace")
	p.center(35, "Connecting Pilgrims & Merchants")

	p.text(dark)
	p.font("B", 24)
	p.left(marginLeft, 55, "INVOICE")

	p.font("", 10)
	p.right(rightEdge, 50, "Invoice #: "+d.Number)
	p.right(rightEdge, 56, "Date: "+d.Date)
	p.right(rightEdge, 62, "Code: "+d.UniqueCode)

	p.draw(saffron)
	p.pdf.SetLineWidth(0.5)
	p.pdf.Line(marginLeft, 68, rightEdge, 68)
}

// billTo writes the customer block and returns where the table starts.
func (p *page) billTo(c Customer) float64 {
	p.font("B", 12)
	p.text(dark)
	p.left(marginLeft, 80, "BILL TO:")

	p.font("", 10)
	p.left(marginLeft, 88, c.Name)
	p.left(marginLeft, 94, c.Email)
	p.left(marginLeft, 100, c.Phone)

	lines := p.pdf.SplitText(p.tr(c.Address), 80)
	for i, line := range lines {
		p.pdf.Text(marginLeft, 106+float64(i)*4, line)
	}
	return 120 + float64(len(lines))*4
}

func (p *page) table(d Document, y float64) float64 {
	const rowHeight = 9.0

	p.pdf.SetXY(marginLeft, y)
	p.fill(saffron)
	p.text(white)
	p.font("B", 11)
	for _, col := range tableColumns {
		p.pdf.CellFormat(col.width, rowHeight, col.title, "", 0, "C", true, 0, "")
	}
	p.pdf.Ln(-1)

	cells := []string{
		d.Item.Name,
		d.UniqueCode,
		strconv.Itoa(d.Quantity),
		currency + FormatAmount(d.Item.Price),
		currency + FormatAmount(d.Subtotal),
	}
	p.pdf.SetX(marginLeft)
	p.fill(lightGray)
	p.text(dark)
	p.font("", 10)
	for i, col := range tableColumns {
		p.pdf.CellFormat(col.width, rowHeight, p.tr(cells[i]), "", 0, col.align, true, 0, "")
	}
	return y + 2*rowHeight
}

func (p *page) summary(d Document, tableEnd float64) {
	y := tableEnd + 15
	p.font("", 10)
	p.left(summaryX, y, "Subtotal:")
	p.right(rightEdge, y, currency+FormatAmount(d.Subtotal))

	y += 7
	p.left(summaryX, y, "GST (18%):")
	p.right(rightEdge, y, currency+FormatMoney(d.Tax))

	y += 2
	p.draw(saffron)
	p.pdf.SetLineWidth(0.3)
	p.pdf.Line(summaryX, y, rightEdge, y)

	y += 7
	p.font("B", 12)
	p.text(saffron)
	p.left(summaryX, y, "TOTAL:")
	p.right(rightEdge, y, currency+FormatMoney(d.Total))

	y += 15
	p.font("I", 9)
	p.text(dark)
	p.left(marginLeft, y, "Payment Terms: Due upon receipt")
}

func (p *page) footer() {
	p.fill(lightGray)
	p.pdf.Rect(0, footerTop, pageWidth, 27, "F")

	p.font("", 8)
	p.text(muted)
	p.center(footerTop+8, "Thank you for your business!")
	p.center(footerTop+14, "For any queries, contact us at: support@nashikconnect.com | +91 XXXXX XXXXX")
	p.center(footerTop+20, "Nashik Connect - Empowering Local Businesses")
}
