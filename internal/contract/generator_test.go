package contract

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-backoffice/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func sampleInput() *domain.ContractInput {
	pickup := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	expected := time.Date(2024, 6, 4, 9, 0, 0, 0, time.UTC)

	return &domain.ContractInput{
		RentalNumber: "2024-0042",
		BookingCode:  "AB12C-9XZ7Q",
		CreatedAt:    ptr(pickup.Add(-time.Hour)),
		OperatorName: "Mario Rossi",
		Customer: domain.Customer{
			FullName:          "Giulia Bianchi",
			FiscalCode:        "BNCGLI85M41I754X",
			Address:           "Via Roma 1",
			City:              "Siracusa",
			Province:          "SR",
			ZipCode:           "96100",
			Country:           "Italia",
			Phone:             "+39 333 1234567",
			Email:             "giulia@example.com",
			LicenseNumber:     "SR1234567X",
			LicenseIssuedBy:   "MCTC Siracusa",
			LicenseIssueDate:  ptr(time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC)),
			LicenseExpiryDate: ptr(time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)),
		},
		Vehicle: domain.Vehicle{
			LicensePlate: "GH123AB",
			Brand:        "Fiat",
			Model:        "Panda",
			CategoryName: "Economy",
		},
		Financials: domain.Financials{
			DailyRate:     decimal.NewFromInt(50),
			TotalDays:     3,
			AmountPaid:    decimal.NewFromInt(100),
			DepositAmount: decimal.NewFromInt(300),
			DepositMethod: "Carta di credito",
		},
		Franchise: domain.Franchise{
			TheftFire: decimal.NewFromInt(1500),
			Damage:    decimal.NewFromInt(800),
			RCA:       decimal.NewFromInt(500),
		},
		Pickup: domain.PickupState{
			Location:  "Siracusa Centro",
			Date:      &pickup,
			FuelLevel: 75,
			Km:        48210,
			Damages:   "Graffio paraurti posteriore",
		},
		ExpectedReturn: domain.ExpectedReturn{
			Date:       &expected,
			Location:   "Aeroporto Catania",
			KmIncluded: domain.KmUnlimited,
		},
	}
}

type stubImages map[string]*Image

func (s stubImages) Load(path string) *Image { return s[path] }

func newTestGenerator(images ImageSource) *Generator {
	g := NewGenerator(afero.NewMemMapFs(), Options{Location: time.UTC})
	g.measurer = func() Measurer { return fixedMeasurer{} }
	if images != nil {
		g.images = images
	}
	return g
}

func photos(n int, prefix string) []domain.Photo {
	out := make([]domain.Photo, n)
	for i := range out {
		out[i] = domain.Photo{Path: prefix + string(rune('a'+i)) + ".jpg"}
	}
	return out
}

func TestGenerator_ReturnSection(t *testing.T) {
	t.Run("Open rental shows expected return", func(t *testing.T) {
		g := newTestGenerator(stubImages{})
		doc, err := g.Build(sampleInput())
		require.NoError(t, err)

		text := doc.Text()
		assert.Contains(t, text, "Rientro Previsto")
		assert.Contains(t, text, "04/06/2024, 09:00")
		assert.Contains(t, text, "Il veicolo noleggiato include Km Illimitati")
		assert.NotContains(t, text, "Informazioni Rientro")
		assert.NotEmpty(t, doc.Tagged(TagExpectedReturn))
		assert.Empty(t, doc.Tagged(TagReturn))
	})

	t.Run("Closed rental shows actual return", func(t *testing.T) {
		in := sampleInput()
		in.Return = &domain.ReturnState{
			Location:  "Siracusa Centro",
			Date:      time.Date(2024, 6, 4, 8, 30, 0, 0, time.UTC),
			FuelLevel: 50,
			Km:        48790,
			Damages:   "Nessun nuovo danno",
		}

		g := newTestGenerator(stubImages{})
		doc, err := g.Build(in)
		require.NoError(t, err)

		text := doc.Text()
		assert.Contains(t, text, "Informazioni Rientro")
		assert.Contains(t, text, "04/06/2024, 08:30")
		assert.Contains(t, text, "48790")
		assert.Contains(t, text, "Nessun nuovo danno")
		assert.NotContains(t, text, "Rientro Previsto")
		assert.NotEmpty(t, doc.Tagged(TagReturn))
		assert.Empty(t, doc.Tagged(TagExpectedReturn))
	})
}

func TestGenerator_Pricing(t *testing.T) {
	g := newTestGenerator(stubImages{})

	t.Run("Totals are derived from the charges", func(t *testing.T) {
		doc, err := g.Build(sampleInput())
		require.NoError(t, err)

		var pricing []string
		for _, b := range doc.Tagged(TagPricing) {
			for _, l := range b.Lines {
				pricing = append(pricing, l.Text)
			}
		}
		joined := strings.Join(pricing, "\n")

		assert.Contains(t, joined, "Subtotale:\n€ 150.00")
		assert.Contains(t, joined, "Totale:\n€ 150.00")
		assert.Contains(t, joined, "Totale Versato:\n€ 100.00")
		assert.Contains(t, joined, "Da versare:\n€ 50.00")
		assert.Contains(t, joined, "Metodo di pagamento:\n"+domain.DefaultPaymentMethod)
		assert.Contains(t, joined, "Sconto Applicato:\n€ 0.00")
	})

	t.Run("Overpaid rental renders a negative due", func(t *testing.T) {
		in := sampleInput()
		in.Financials.AmountPaid = decimal.NewFromInt(170)

		doc, err := g.Build(in)
		require.NoError(t, err)
		assert.Contains(t, doc.Text(), "€ -20.00")
	})
}

func TestGenerator_Sections(t *testing.T) {
	g := newTestGenerator(stubImages{})
	doc, err := g.Build(sampleInput())
	require.NoError(t, err)
	text := doc.Text()

	t.Run("Letterhead defaults", func(t *testing.T) {
		assert.Contains(t, text, "BNC Energy Rent Car")
		assert.Contains(t, text, "96100 Siracusa (SR)")
		assert.Contains(t, text, "CONTRATTO DI NOLEGGIO")
		assert.Contains(t, text, "2024-0042")
		assert.Contains(t, text, "AB12C-9XZ7Q")
	})

	t.Run("Optional customer fields", func(t *testing.T) {
		assert.NotContains(t, text, "P. IVA:")
		assert.NotContains(t, text, "Luogo di nascita:")
		assert.Contains(t, text, "Numero patente:\nSR1234567X")
	})

	t.Run("Fixed order", func(t *testing.T) {
		order := []string{TagHeader, TagCustomer, TagVehicle, TagPricing, TagFranchise, TagServices, TagPickup, TagExpectedReturn}
		prev := -1.0
		for _, tag := range order {
			blocks := doc.Tagged(tag)
			require.NotEmpty(t, blocks, tag)
			assert.Equal(t, 0, doc.PageOf(tag), tag)
			assert.Greater(t, blocks[0].Y, prev, tag)
			prev = blocks[0].Y
		}
	})

	t.Run("Terms start on a new page", func(t *testing.T) {
		assert.Equal(t, 1, doc.PageOf(TagTerms))
		assert.Contains(t, text, "CONDIZIONI GENERALI DI NOLEGGIO")
		assert.Contains(t, text, "11. SANZIONI AMMINISTRATIVE")
		assert.Contains(t, text, "[ X ] acconsente")
	})

	t.Run("Two signatures", func(t *testing.T) {
		lines := 0
		for _, b := range doc.Tagged(TagSignature) {
			if b.Kind == BlockLine {
				lines++
			}
		}
		assert.Equal(t, 2, lines)
	})

	t.Run("Company override", func(t *testing.T) {
		g := NewGenerator(afero.NewMemMapFs(), Options{Company: Company{Name: "Noleggi Etna"}})
		g.measurer = func() Measurer { return fixedMeasurer{} }
		doc, err := g.Build(sampleInput())
		require.NoError(t, err)
		assert.Contains(t, doc.Text(), "Noleggi Etna")
		assert.Contains(t, doc.Text(), "info@bncenergy.it")
	})
}

func TestGenerator_Galleries(t *testing.T) {
	img := &Image{Name: "photo", Width: 400, Height: 300}
	images := stubImages{}
	for _, p := range append(photos(5, "pickup-"), photos(5, "return-")...) {
		images[p.Path] = img
	}

	t.Run("No photos means no gallery", func(t *testing.T) {
		doc, err := newTestGenerator(images).Build(sampleInput())
		require.NoError(t, err)
		assert.Equal(t, -1, doc.PageOf(TagPickupGallery))
		assert.Equal(t, -1, doc.PageOf(TagReturnGallery))
		assert.NotContains(t, doc.Text(), "Foto veicolo")
	})

	t.Run("Rows are ceil of half the photos", func(t *testing.T) {
		for n, rows := range map[int]int{1: 1, 2: 1, 3: 2, 5: 3} {
			in := sampleInput()
			in.PickupPhotos = photos(n, "pickup-")

			doc, err := newTestGenerator(images).Build(in)
			require.NoError(t, err)
			assert.Len(t, doc.Tagged(CellTag(TagPickupGallery)), n)
			assert.Equal(t, rows, doc.Rows(CellTag(TagPickupGallery)), "photos=%d", n)
		}
	})

	t.Run("Each gallery starts on its own page", func(t *testing.T) {
		in := sampleInput()
		in.PickupPhotos = photos(2, "pickup-")
		in.ReturnPhotos = photos(1, "return-")

		doc, err := newTestGenerator(images).Build(in)
		require.NoError(t, err)

		terms := doc.PageOf(TagTerms)
		pickup := doc.PageOf(TagPickupGallery)
		ret := doc.PageOf(TagReturnGallery)
		assert.Greater(t, pickup, terms)
		assert.Greater(t, ret, pickup)
		assert.Contains(t, doc.Text(), "Foto veicolo in uscita")
		assert.Contains(t, doc.Text(), "Foto veicolo al rientro")
	})

	t.Run("Rows never cross the bottom margin", func(t *testing.T) {
		in := sampleInput()
		in.PickupPhotos = photos(5, "pickup-")

		doc, err := newTestGenerator(images).Build(in)
		require.NoError(t, err)

		geo := A4()
		for _, b := range doc.Tagged(CellTag(TagPickupGallery)) {
			assert.LessOrEqual(t, b.Y+b.H, geo.Bottom())
		}
	})

	t.Run("Missing photo renders a placeholder", func(t *testing.T) {
		in := sampleInput()
		in.PickupPhotos = []domain.Photo{
			{Path: "pickup-a.jpg", CapturedAt: ptr(time.Date(2024, 6, 1, 9, 5, 0, 0, time.UTC))},
			{Path: "gone.jpg"},
			{Path: "pickup-b.jpg"},
		}

		doc, err := newTestGenerator(images).Build(in)
		require.NoError(t, err)

		text := doc.Text()
		assert.Contains(t, text, photoUnavailable)
		assert.Contains(t, text, "Creata il 01/06/2024, 09:05")
		assert.Contains(t, text, "Creata il N/A")
		assert.Len(t, doc.Tagged(CellTag(TagPickupGallery)), 3)

		drawn := 0
		for _, b := range doc.Tagged(TagPickupGallery) {
			if b.Kind == BlockImage {
				drawn++
			}
		}
		assert.Equal(t, 2, drawn)
	})
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes a PDF and returns the path", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/contracts", 0o755))
		g := NewGenerator(fs, Options{})

		path, err := g.Generate(ctx, sampleInput(), "/contracts/CONTRATTO-2024-0042.pdf")
		require.NoError(t, err)
		assert.Equal(t, "/contracts/CONTRATTO-2024-0042.pdf", path)

		data, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	})

	t.Run("Identical input gives identical files", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/uploads", 0o755))
		require.NoError(t, afero.WriteFile(fs, "/uploads/front.png", pngBytes(t, 64, 48), 0o644))
		g := NewGenerator(fs, Options{})

		in := sampleInput()
		in.PickupPhotos = []domain.Photo{{Path: "/uploads/front.png"}, {Path: "/uploads/missing.jpg"}}

		a, err := g.Generate(ctx, in, "/a.pdf")
		require.NoError(t, err)
		b, err := g.Generate(ctx, in, "/b.pdf")
		require.NoError(t, err)

		first, err := afero.ReadFile(fs, a)
		require.NoError(t, err)
		second, err := afero.ReadFile(fs, b)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Nil input", func(t *testing.T) {
		g := NewGenerator(afero.NewMemMapFs(), Options{})
		_, err := g.Generate(ctx, nil, "/x.pdf")
		assert.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("Unwritable path fails", func(t *testing.T) {
		g := NewGenerator(afero.NewReadOnlyFs(afero.NewMemMapFs()), Options{})
		_, err := g.Generate(ctx, sampleInput(), "/contracts/x.pdf")
		assert.Error(t, err)
	})
}

func TestGenerator_LongValuesStayInsideMargins(t *testing.T) {
	g := NewGenerator(afero.NewMemMapFs(), Options{Location: time.UTC})
	m := NewPDFMeasurer()

	in := sampleInput()
	in.Customer.Email = "giulia.bianchi.amministrazione@studiolegale-example.com"
	in.Financials.DepositMethod = "Preautorizzazione"

	doc, err := g.Build(in)
	require.NoError(t, err)

	right := A4().Right()
	for pi, page := range doc.Pages {
		for _, b := range page.Blocks {
			if b.Kind != BlockText {
				continue
			}
			for _, line := range b.Lines {
				w := m.TextWidth(line.Text, b.Style)
				assert.LessOrEqual(t, w, b.W+0.01, "page %d: %q wider than its block", pi+1, line.Text)
				if b.Style.Align == AlignLeft || b.Style.Align == "" {
					assert.LessOrEqual(t, b.X+w, right+0.01, "page %d: %q crosses the right margin", pi+1, line.Text)
				}
			}
		}
	}
}
