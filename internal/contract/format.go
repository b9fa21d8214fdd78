package contract

import (
	"database/sql"
	"math"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Rome must resolve on hosts without a zoneinfo database

	"github.com/shopspring/decimal"
)

// Placeholder is rendered for absent or unparseable values.
const Placeholder = "N/A"

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006, 15:04"
)

// parseLayouts are tried in order for string inputs.
var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Formatter converts raw values into display strings. Every method is total: it never
// panics and falls back to Placeholder (dates) or a zero amount (money).
type Formatter struct {
	loc    *time.Location
	symbol string
}

func NewFormatter(loc *time.Location, currencySymbol string) Formatter {
	if loc == nil {
		loc = time.UTC
	}
	if currencySymbol == "" {
		currencySymbol = "€"
	}
	return Formatter{loc: loc, symbol: currencySymbol}
}

var defaultFormatter = NewFormatter(defaultLocation(), "€")

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatDate renders dd/mm/yyyy in Europe/Rome, or Placeholder.
func FormatDate(v any) string { return defaultFormatter.Date(v) }

// FormatDateTime renders "dd/mm/yyyy, hh:mm" (24h) in Europe/Rome, or Placeholder.
func FormatDateTime(v any) string { return defaultFormatter.DateTime(v) }

// FormatCurrency renders "€ 0.00"-style amounts. nil, NaN and garbage render as zero.
func FormatCurrency(v any) string { return defaultFormatter.Currency(v) }

// FormatPercent renders a fuel level like "75%".
func FormatPercent(v any) string { return defaultFormatter.Percent(v) }

func (f Formatter) Location() *time.Location { return f.loc }

func (f Formatter) Date(v any) string {
	t, ok := toTime(v, f.loc)
	if !ok {
		return Placeholder
	}
	return t.In(f.loc).Format(dateLayout)
}

func (f Formatter) DateTime(v any) string {
	t, ok := toTime(v, f.loc)
	if !ok {
		return Placeholder
	}
	return t.In(f.loc).Format(dateTimeLayout)
}

func (f Formatter) Currency(v any) string {
	return f.symbol + " " + toDecimal(v).StringFixed(2)
}

func (f Formatter) Percent(v any) string {
	return toDecimal(v).Round(1).String() + "%"
}

// Km renders an odometer reading; zero readings are kept since a new vehicle starts at 0.
func (f Formatter) Km(v int64) string {
	return decimal.NewFromInt(v).String()
}

// toTime accepts the supported date inputs. Strings without an offset are read as
// wall-clock time in loc.
func toTime(v any, loc *time.Location) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case sql.NullTime:
		return t.Time, t.Valid && !t.Time.IsZero()
	case string:
		return parseTime(t, loc)
	case *string:
		if t == nil {
			return time.Time{}, false
		}
		return parseTime(*t, loc)
	default:
		return time.Time{}, false
	}
}

func parseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toDecimal(v any) decimal.Decimal {
	switch d := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return d
	case *decimal.Decimal:
		if d == nil {
			return decimal.Zero
		}
		return *d
	case decimal.NullDecimal:
		if !d.Valid {
			return decimal.Zero
		}
		return d.Decimal
	case float64:
		return fromFloat(d)
	case *float64:
		if d == nil {
			return decimal.Zero
		}
		return fromFloat(*d)
	case float32:
		return fromFloat(float64(d))
	case int:
		return decimal.NewFromInt(int64(d))
	case int32:
		return decimal.NewFromInt32(d)
	case int64:
		return decimal.NewFromInt(d)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(d))
		if err != nil {
			return decimal.Zero
		}
		return parsed
	default:
		return decimal.Zero
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// FormatKm renders an odometer reading with no grouping.
func FormatKm(v int64) string { return defaultFormatter.Km(v) }
