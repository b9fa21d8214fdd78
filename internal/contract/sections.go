package contract

import (
	"fmt"
	"strings"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/utils"
)

// Block tags, used to find sections in a laid-out Document.
const (
	TagHeader         = "header"
	TagCustomer       = "customer"
	TagVehicle        = "vehicle"
	TagPricing        = "pricing"
	TagFranchise      = "franchise"
	TagServices       = "services"
	TagPickup         = "pickup"
	TagReturn         = "return"
	TagExpectedReturn = "expected-return"
	TagSignature      = "signature"
	TagTerms          = "terms"
	TagPickupGallery  = "gallery-pickup"
	TagReturnGallery  = "gallery-return"
	cellSuffix        = "-cell"
)

// CellTag is the tag of the photo frames of a gallery.
func CellTag(gallery string) string { return gallery + cellSuffix }

const (
	sectionGap      = 14
	columnGap       = 20
	customerLabelW  = 110
	pricingLabelW   = 100
	headerBoxWidth  = 320
	headerBoxHeight = 72
	headerPad       = 10
	diagramWidth    = 180
	diagramHeight   = 140
	photoWidth      = 240
	photoHeight     = 180
	photoGap        = 15
	photosPerRow    = 2
	consentWidth    = 120
)

const (
	photoUnavailable = "Immagine non disponibile"
	returnPolicy     = "Il veicolo dovrà essere riconsegnato nelle stesse condizioni in cui si trovava in sede di consegna. Pulizia e carburante dovranno essere ripristinati come all'inizio del noleggio, salvo diverse pattuizioni."
)

// ImageSource resolves an image reference. A nil result means the image is unavailable.
type ImageSource interface {
	Load(path string) *Image
}

type labelValue struct {
	label string
	value string
}

// builder runs the section builders over one input. Each method takes the cursor y and
// returns the y below the content it added.
type builder struct {
	l       *Layout
	f       Formatter
	in      *domain.ContractInput
	totals  utils.Totals
	company Company
	terms   *Terms
	images  ImageSource
	diagram string
}

func (b *builder) build() {
	y := b.l.Top()
	y = b.header(y)
	y = b.customer(y)
	y = b.vehicle(y)
	y = b.pricing(y)
	y = b.franchise(y)
	y = b.services(y)
	y = b.pickup(y)
	if b.in.IsClosed() {
		y = b.actualReturn(y)
	} else {
		y = b.expectedReturn(y)
	}
	b.signature(y)

	y = b.l.StartNewPage()
	y = b.termsPage(y)
	b.signature(y)

	b.gallery(TagPickupGallery, "Foto veicolo in uscita", b.in.PickupPhotos)
	b.gallery(TagReturnGallery, "Foto veicolo al rientro", b.in.ReturnPhotos)
}

func (b *builder) header(y float64) float64 {
	b.l.SetTag(TagHeader)
	c := b.company
	x := b.l.Left()

	b.l.DrawRect(x, y, headerBoxWidth, headerBoxHeight, &ColorPrimary, nil)
	ty := b.l.PlaceText(c.Name, x+headerPad, y+headerPad, headerBoxWidth-2*headerPad, StyleHeaderCompany)
	ty += 2
	for _, line := range c.Lines() {
		ty = b.l.PlaceText(line, x+headerPad, ty, headerBoxWidth-2*headerPad, StyleHeaderSmall)
	}

	bx := x + headerBoxWidth + headerPad
	bw := b.l.Right() - bx
	titleH := 18.0
	b.l.DrawRect(bx, y, bw, headerBoxHeight, nil, &ColorBorder)
	b.l.DrawRect(bx, y, bw, titleH, &ColorPrimary, nil)
	b.l.PlaceText("CONTRATTO DI NOLEGGIO", bx, y+(titleH-StyleBoxTitle.LineHeight())/2, bw, StyleBoxTitle)

	ry := y + titleH + 6
	rows := []labelValue{
		{"Data", b.f.Date(b.in.CreatedAt)},
		{"N°", b.in.RentalNumber},
		{"Codice", b.in.BookingCode},
	}
	for _, r := range rows {
		ry = b.l.PlaceLabelValue(r.label, r.value, bx+8, ry, 45, bw-16)
	}

	return MaxY(y+headerBoxHeight, ry) + sectionGap + 4
}

// sectionTitle prints a heading with a rule under it, keeping at least minBody points
// of the section on the same page.
func (b *builder) sectionTitle(title string, y, minBody float64) float64 {
	h := StyleSectionTitle.LineHeight() + 6
	y = b.l.Reserve(y, h+minBody)
	y = b.l.PlaceText(title, b.l.Left(), y, b.l.Width(), StyleSectionTitle)
	b.l.DrawLine(b.l.Left(), y+1, b.l.Right(), y+1, ColorPrimaryLight, 0.75)
	return y + 6
}

func (b *builder) rowsHeight(rows []labelValue, labelW, width float64) float64 {
	h := 0.0
	for _, r := range rows {
		h += b.l.LabelValueHeight(r.value, labelW, width)
	}
	return h
}

func (b *builder) placeRows(rows []labelValue, x, y, labelW, width float64) float64 {
	for _, r := range rows {
		y = b.l.PlaceLabelValue(r.label, r.value, x, y, labelW, width)
	}
	return y
}

// placeColumns lays rows out in side-by-side columns and merges them at the lowest
// ending y. The tallest column is reserved up front so all columns share a page.
func (b *builder) placeColumns(cols [][]labelValue, y, labelW float64) float64 {
	n := float64(len(cols))
	colW := (b.l.Width() - columnGap*(n-1)) / n

	h := 0.0
	for _, c := range cols {
		h = MaxY(h, b.rowsHeight(c, labelW, colW))
	}
	y = b.l.Reserve(y, h)

	ends := make([]float64, 0, len(cols))
	for i, c := range cols {
		x := b.l.Left() + float64(i)*(colW+columnGap)
		ends = append(ends, b.placeRows(c, x, y, labelW, colW))
	}
	return MaxY(ends...)
}

// placeStacked lays out label-over-value cells in a single row of equal columns.
func (b *builder) placeStacked(cells []labelValue, y float64) float64 {
	n := float64(len(cells))
	colW := (b.l.Width() - 10*(n-1)) / n

	h := 0.0
	for _, c := range cells {
		h = MaxY(h, StyleLabel.LineHeight()+b.l.TextHeight(orPlaceholder(c.value), colW, StyleValue))
	}
	y = b.l.Reserve(y, h)

	ends := make([]float64, 0, len(cells))
	for i, c := range cells {
		x := b.l.Left() + float64(i)*(colW+10)
		cy := b.l.PlaceText(c.label, x, y, colW, StyleLabel)
		ends = append(ends, b.l.PlaceText(orPlaceholder(c.value), x, cy, colW, StyleValue))
	}
	return MaxY(ends...)
}

func (b *builder) customer(y float64) float64 {
	b.l.SetTag(TagCustomer)
	c := b.in.Customer

	city := joinNonEmpty(", ", c.City, c.ZipCode, c.Province, c.Country)
	col1 := []labelValue{
		{"Cliente/Azienda", c.FullName},
		{"Indirizzo", c.Address},
		{"Città", city},
		{"C.F.", c.FiscalCode},
	}
	if strings.TrimSpace(c.VATNumber) != "" {
		col1 = append(col1, labelValue{"P. IVA", c.VATNumber})
	}
	if c.BirthDate != nil || strings.TrimSpace(c.BirthPlace) != "" {
		col1 = append(col1,
			labelValue{"Data di nascita", b.f.Date(c.BirthDate)},
			labelValue{"Luogo di nascita", c.BirthPlace},
		)
	}

	col2 := []labelValue{
		{"Telefono", c.Phone},
		{"Email", c.Email},
		{"Numero patente", c.LicenseNumber},
		{"Luogo emissione", c.LicenseIssuedBy},
		{"Data emissione", b.f.Date(c.LicenseIssueDate)},
		{"Data Scadenza", b.f.Date(c.LicenseExpiryDate)},
	}

	y = b.sectionTitle("Informazioni Cliente", y, StyleValue.LineHeight()*4)
	return b.placeColumns([][]labelValue{col1, col2}, y, customerLabelW) + sectionGap
}

func (b *builder) vehicle(y float64) float64 {
	b.l.SetTag(TagVehicle)
	v := b.in.Vehicle

	y = b.sectionTitle("Informazioni Veicolo", y, StyleLabel.LineHeight()+StyleValue.LineHeight())
	return b.placeStacked([]labelValue{
		{"Targa", v.LicensePlate},
		{"Categoria", v.CategoryName},
		{"Marca", v.Brand},
		{"Modello", v.Model},
	}, y) + sectionGap
}

func (b *builder) pricing(y float64) float64 {
	b.l.SetTag(TagPricing)
	fin := b.in.Financials
	t := b.totals

	col1 := []labelValue{
		{"Tariffa di noleggio", b.f.Currency(fin.DailyRate)},
		{"Giorni di noleggio", fmt.Sprintf("%d", fin.TotalDays)},
		{"Subtotale", b.f.Currency(t.Subtotal)},
		{"Costo consegna/ritiro", b.f.Currency(fin.DeliveryCost)},
		{"Addebito carburante", b.f.Currency(fin.FuelCharge)},
	}
	col2 := []labelValue{
		{"Addebito fuori orario", b.f.Currency(fin.AfterHoursCharge)},
		{"Servizi ed extra", b.f.Currency(fin.ExtrasCharge)},
		{"Addebito Km extra", b.f.Currency(fin.ExtraKmCharge)},
		{"Franchigia Addebitata", b.f.Currency(fin.FranchiseCharge)},
		{"Sconto Applicato", b.f.Currency(fin.Discount)},
	}
	col3 := []labelValue{
		{"Totale", b.f.Currency(t.TotalAmount)},
		{"Totale Versato", b.f.Currency(fin.AmountPaid)},
		{"Da versare", b.f.Currency(t.AmountDue)},
		{"Metodo di pagamento", orDefault(fin.PaymentMethod, domain.DefaultPaymentMethod)},
		{"Cauzione", b.f.Currency(fin.DepositAmount)},
		{"Metodo cauzione", fin.DepositMethod},
	}

	y = b.sectionTitle("Dettagli Tariffari", y, StyleValue.LineHeight()*6)
	return b.placeColumns([][]labelValue{col1, col2, col3}, y, pricingLabelW) + sectionGap
}

func (b *builder) franchise(y float64) float64 {
	b.l.SetTag(TagFranchise)
	fr := b.in.Franchise

	y = b.sectionTitle("Franchigie Assicurative", y, StyleLabel.LineHeight()+StyleValue.LineHeight())
	return b.placeStacked([]labelValue{
		{"Franchigia Furto/Incendio", b.f.Currency(fr.TheftFire)},
		{"Franchigia danni", b.f.Currency(fr.Damage)},
		{"Franchigia RCA", b.f.Currency(fr.RCA)},
	}, y) + sectionGap
}

func (b *builder) services(y float64) float64 {
	b.l.SetTag(TagServices)

	y = b.sectionTitle("Servizi & Extra", y, StyleValue.LineHeight())
	text := "Il veicolo noleggiato include Km " + kmIncluded(b.in.ExpectedReturn.KmIncluded)
	return b.l.PlaceText(text, b.l.Left(), y, b.l.Width(), StyleValue) + sectionGap
}

func (b *builder) pickup(y float64) float64 {
	b.l.SetTag(TagPickup)
	p := b.in.Pickup

	y = b.sectionTitle("Informazioni Uscita", y, StyleLabel.LineHeight()+StyleValue.LineHeight())
	y = b.placeStacked([]labelValue{
		{"Luogo", p.Location},
		{"Data", b.f.DateTime(p.Date)},
		{"Livello Carburante", b.f.Percent(p.FuelLevel)},
		{"Km in uscita", b.f.Km(p.Km)},
	}, y)

	y = b.damages(p.Damages, y)
	if strings.TrimSpace(p.Notes) != "" {
		y = b.l.PlaceLabelValue("Note", p.Notes, b.l.Left(), y+4, 40, b.l.Width())
	}
	return b.damageDiagram(y) + sectionGap
}

func (b *builder) actualReturn(y float64) float64 {
	b.l.SetTag(TagReturn)
	r := b.in.Return

	y = b.sectionTitle("Informazioni Rientro", y, StyleLabel.LineHeight()+StyleValue.LineHeight())
	y = b.placeStacked([]labelValue{
		{"Luogo", r.Location},
		{"Data", b.f.DateTime(r.Date)},
		{"Livello Carburante", b.f.Percent(r.FuelLevel)},
		{"Km al rientro", b.f.Km(r.Km)},
	}, y)

	y = b.damages(r.Damages, y)
	return b.damageDiagram(y) + sectionGap
}

func (b *builder) expectedReturn(y float64) float64 {
	b.l.SetTag(TagExpectedReturn)
	e := b.in.ExpectedReturn

	y = b.sectionTitle("Rientro Previsto", y, StyleLabel.LineHeight()+StyleValue.LineHeight())
	y = b.placeStacked([]labelValue{
		{"Luogo", e.Location},
		{"Data", b.f.DateTime(e.Date)},
		{"Km inclusi", kmIncluded(e.KmIncluded)},
	}, y)
	return b.l.PlaceText(returnPolicy, b.l.Left(), y+6, b.l.Width(), StyleSmall.WithAlign(AlignJustify)) + sectionGap
}

func (b *builder) damages(text string, y float64) float64 {
	if strings.TrimSpace(text) == "" {
		return y
	}
	y = b.l.Reserve(y+6, StyleLabel.LineHeight()*2)
	y = b.l.PlaceText("Descrizione Danni:", b.l.Left(), y, b.l.Width(), StyleLabel)
	return b.l.PlaceText(text, b.l.Left(), y, b.l.Width(), StyleValue)
}

func (b *builder) damageDiagram(y float64) float64 {
	if b.diagram == "" {
		return y
	}
	return b.l.PlaceImage(b.images.Load(b.diagram), b.l.Left(), y+6, diagramWidth, diagramHeight)
}

func (b *builder) signature(y float64) float64 {
	b.l.SetTag(TagSignature)
	return b.l.DrawSignatureLine("Firma Cliente", y+10)
}

func (b *builder) termsPage(y float64) float64 {
	b.l.SetTag(TagTerms)
	t := b.terms
	left, width := b.l.Left(), b.l.Width()
	body := StyleSmall.WithAlign(AlignJustify)

	y = b.l.PlaceText(t.Title, left, y, width, StyleTermsTitle) + 6
	y = b.l.PlaceText(t.Intro, left, y, width, body) + 8

	for _, a := range t.Articles {
		// keep a title with the first line of its body
		y = b.l.Reserve(y+6, StyleLabel.LineHeight()+body.LineHeight())
		y = b.l.PlaceText(a.Title, left, y, width, StyleLabel) + 2
		y = b.l.PlaceText(a.Body, left, y, width, body)
	}

	y = b.l.PlaceText(t.Consent, left, y+10, width, body) + 4

	textX := left + consentWidth + 8
	textW := width - consentWidth - 8
	h := MaxY(StyleLabel.LineHeight()*2+6, b.l.TextHeight(t.Marketing, textW, body))
	y = b.l.Reserve(y+4, h)
	oy := b.l.PlaceText(t.ConsentOptions.Accept, left, y, consentWidth, StyleLabel)
	oy = b.l.PlaceText(t.ConsentOptions.Decline, left, oy+6, consentWidth, StyleLabel)
	ty := b.l.PlaceText(t.Marketing, textX, y, textW, body)
	y = MaxY(oy, ty) + 8

	return b.l.PlaceText(t.Attestation, left, y+6, width, body) + 8
}

// gallery renders photos two per row on a fresh page, breaking to a new page whenever
// the next row does not fit. Nothing is emitted for an empty category.
func (b *builder) gallery(tag, title string, photos []domain.Photo) {
	if len(photos) == 0 {
		return
	}
	b.l.SetTag(tag)

	y := b.l.StartNewPage()
	y = b.l.PlaceText(title, b.l.Left(), y, b.l.Width(), StyleTermsTitle) + 10

	rowW := float64(photosPerRow*photoWidth + (photosPerRow-1)*photoGap)
	x0 := b.l.Left() + (b.l.Width()-rowW)/2
	captionH := StyleTiny.LineHeight()
	rowH := photoHeight + 4 + captionH + photoGap

	for start := 0; start < len(photos); start += photosPerRow {
		y = b.l.Reserve(y, rowH-photoGap)
		end := min(start+photosPerRow, len(photos))
		for i, p := range photos[start:end] {
			x := x0 + float64(i)*(photoWidth+photoGap)
			b.photoCell(tag, p, x, y)
			caption := "Creata il " + b.f.DateTime(p.CapturedAt)
			b.l.PlaceText(caption, x, y+photoHeight+4, photoWidth, StyleTiny.WithAlign(AlignCenter))
		}
		y += rowH
	}
}

func (b *builder) photoCell(tag string, p domain.Photo, x, y float64) {
	b.l.SetTag(CellTag(tag))
	b.l.DrawRect(x, y, photoWidth, photoHeight, nil, &ColorBorder)
	b.l.SetTag(tag)

	img := b.images.Load(p.Path)
	if img == nil {
		ty := y + (photoHeight-StyleSmall.LineHeight())/2
		b.l.PlaceText(photoUnavailable, x, ty, photoWidth, StyleSmall.WithAlign(AlignCenter))
		return
	}

	w, h := FitSize(float64(img.Width), float64(img.Height), photoWidth, photoHeight)
	b.l.PlaceImage(img, x+(photoWidth-w)/2, y+(photoHeight-h)/2, photoWidth, photoHeight)
}

func kmIncluded(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, domain.KmUnlimited) {
		return domain.DefaultKmIncluded
	}
	return v
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func orPlaceholder(v string) string {
	return orDefault(v, Placeholder)
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, sep)
}
