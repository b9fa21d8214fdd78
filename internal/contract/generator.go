package contract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"

	"rental-backoffice/internal/domain"
	"rental-backoffice/internal/logger"
	"rental-backoffice/internal/utils"
)

var (
	ErrNoInput = errors.New("contract input is required")
	ErrRender  = errors.New("failed to render contract")
)

// Company is the letterhead printed in the contract header.
type Company struct {
	Name       string `yaml:"name"`
	Address    string `yaml:"address"`
	City       string `yaml:"city"`
	ZipCode    string `yaml:"zip_code"`
	Province   string `yaml:"province"`
	FiscalCode string `yaml:"fiscal_code"`
	VATNumber  string `yaml:"vat_number"`
	Phone      string `yaml:"phone"`
	Email      string `yaml:"email"`
}

// DefaultCompany is used for every letterhead field left empty.
func DefaultCompany() Company {
	return Company{
		Name:       "BNC Energy Rent Car",
		Address:    "Via Decio Furnò 26",
		City:       "Siracusa",
		ZipCode:    "96100",
		Province:   "SR",
		FiscalCode: "02024200897",
		VATNumber:  "02024200897",
		Phone:      "+39 3881951562",
		Email:      "info@bncenergy.it",
	}
}

// WithDefaults fills empty fields from DefaultCompany.
func (c Company) WithDefaults() Company {
	d := DefaultCompany()
	c.Name = orDefault(c.Name, d.Name)
	c.Address = orDefault(c.Address, d.Address)
	c.City = orDefault(c.City, d.City)
	c.ZipCode = orDefault(c.ZipCode, d.ZipCode)
	c.Province = orDefault(c.Province, d.Province)
	c.FiscalCode = orDefault(c.FiscalCode, d.FiscalCode)
	c.VATNumber = orDefault(c.VATNumber, d.VATNumber)
	c.Phone = orDefault(c.Phone, d.Phone)
	c.Email = orDefault(c.Email, d.Email)
	return c
}

// Lines are the letterhead rows printed under the company name.
func (c Company) Lines() []string {
	city := strings.TrimSpace(c.ZipCode + " " + c.City)
	if c.Province != "" {
		city += " (" + c.Province + ")"
	}
	return []string{
		c.Address,
		city,
		"C.F. " + c.FiscalCode + " - P.IVA " + c.VATNumber,
		"Tel. " + c.Phone + " - " + c.Email,
	}
}

type Options struct {
	Company Company
	// Location is the time zone dates are printed in. Defaults to Europe/Rome.
	Location       *time.Location
	CurrencySymbol string
	// DamageDiagramPath is an optional vehicle outline drawn under the pickup and
	// return sections for marking damages by hand.
	DamageDiagramPath string
	Terms             *Terms
	Geometry          *Geometry
}

// Generator turns a ContractInput into a PDF file. It holds no per-document state, so
// one Generator serves concurrent calls for different output paths.
type Generator struct {
	fs       afero.Fs
	images   ImageSource
	company  Company
	format   Formatter
	diagram  string
	terms    *Terms
	geo      Geometry
	renderer *PDFRenderer
	measurer func() Measurer
}

func NewGenerator(fs afero.Fs, opts Options) *Generator {
	loc := opts.Location
	if loc == nil {
		loc = defaultLocation()
	}
	terms := opts.Terms
	if terms == nil {
		terms = DefaultTerms()
	}
	geo := A4()
	if opts.Geometry != nil {
		geo = *opts.Geometry
	}

	return &Generator{
		fs:       fs,
		images:   NewImageLoader(fs),
		company:  opts.Company.WithDefaults(),
		format:   NewFormatter(loc, opts.CurrencySymbol),
		diagram:  opts.DamageDiagramPath,
		terms:    terms,
		geo:      geo,
		renderer: NewPDFRenderer(geo),
		measurer: func() Measurer { return NewPDFMeasurer() },
	}
}

// Build lays the contract out without rendering it.
func (g *Generator) Build(in *domain.ContractInput) (*Document, error) {
	if in == nil {
		return nil, ErrNoInput
	}

	l := NewLayout(g.geo, g.measurer())
	b := &builder{
		l:       l,
		f:       g.format,
		in:      in,
		totals:  utils.ComputeTotals(in.Financials),
		company: g.company,
		terms:   g.terms,
		images:  g.images,
		diagram: g.diagram,
	}
	b.build()

	doc := l.Document()
	doc.Title = "Contratto di noleggio " + in.RentalNumber
	doc.Author = g.company.Name
	doc.CreatedAt = creationDate(in)
	return doc, nil
}

// Render builds the contract and returns the PDF bytes.
func (g *Generator) Render(in *domain.ContractInput) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRender, r)
		}
	}()

	doc, err := g.Build(in)
	if err != nil {
		return nil, err
	}
	return g.renderer.RenderBytes(doc)
}

// Generate renders the contract and writes it to outputPath, returning the path. The
// parent directory must already exist. A failed write may leave a partial file behind.
func (g *Generator) Generate(ctx context.Context, in *domain.ContractInput, outputPath string) (string, error) {
	logger.EnterMethod("contract.Generate", "outputPath", outputPath)

	if in == nil {
		logger.ExitMethodWithError("contract.Generate", ErrNoInput)
		return "", ErrNoInput
	}

	data, err := g.Render(in)
	if err != nil {
		logger.ExitMethodWithError("contract.Generate", err, "rentalNumber", in.RentalNumber)
		return "", err
	}

	if err := afero.WriteFile(g.fs, outputPath, data, 0o644); err != nil {
		err = fmt.Errorf("failed to write contract: %w", err)
		logger.ExitMethodWithError("contract.Generate", err, "rentalNumber", in.RentalNumber)
		return "", err
	}

	logger.InfoContext(ctx, "Contract generated", "rentalNumber", in.RentalNumber, "path", outputPath, "bytes", len(data))
	logger.ExitMethod("contract.Generate", "outputPath", outputPath)
	return outputPath, nil
}

// creationDate pins the PDF timestamp to the rental so re-rendering is byte-stable.
func creationDate(in *domain.ContractInput) time.Time {
	switch {
	case in.CreatedAt != nil && !in.CreatedAt.IsZero():
		return in.CreatedAt.UTC()
	case in.Pickup.Date != nil && !in.Pickup.Date.IsZero():
		return in.Pickup.Date.UTC()
	default:
		return time.Unix(0, 0).UTC()
	}
}
