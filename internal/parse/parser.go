// Package parse converts raw CSV cell text into typed field values.
//
// Each field type has one parser. A parser either returns a value or, on
// malformed input, reports exactly one notice and marks the value absent.
// Parsers never return errors and never panic past Parse.
package parse

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema"
)

// Location identifies the cell being parsed in notices.
type Location struct {
	Filename string
	Row      int
}

// Parser parses cells for one validation run. The zero value is usable.
type Parser struct {
	// CountryCode is the ISO 3166-1 region used for numbers without an
	// international prefix. Empty disables checking of such numbers.
	CountryCode string
}

// New returns a parser for the given country hint.
func New(countryCode string) *Parser {
	return &Parser{CountryCode: strings.ToUpper(strings.TrimSpace(countryCode))}
}

// Parse converts raw according to f. An empty cell is absent without a
// notice; presence is the loader's concern.
//
// Value types: string for text, id, email, url and phone; int for integer and
// enum; float64 for float, latitude and longitude; decimal.Decimal; Date;
// TimeOfDay; Color; currency.Unit; language.Tag; *time.Location.
func (p *Parser) Parse(raw string, f schema.FieldSpec, loc Location, sink notice.Sink) (v any, ok bool) {
	if raw == "" {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			if k := kindFor(f.Type); k != nil {
				sink.Add(k.New(loc.Filename, loc.Row, f.Name, raw))
			} else {
				sink.Add(notice.RuntimeExceptionInLoader.New(loc.Filename, "panic", fmt.Sprint(r)))
			}
			v, ok = nil, false
		}
	}()

	invalid := func(k *notice.Kind) (any, bool) {
		sink.Add(k.New(loc.Filename, loc.Row, f.Name, raw))
		return nil, false
	}
	outOfRange := func() (any, bool) {
		sink.Add(notice.NumberOutOfRange.New(loc.Filename, loc.Row, f.Name, f.Type.String(), raw))
		return nil, false
	}

	switch f.Type {
	case schema.FieldText, schema.FieldID:
		return raw, true

	case schema.FieldInteger:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return invalid(notice.InvalidInteger)
		}
		if !withinBounds(f.Bounds, sign(float64(n))) {
			return outOfRange()
		}
		return n, true

	case schema.FieldEnum:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return invalid(notice.InvalidInteger)
		}
		if !f.AllowsEnum(n) {
			sink.Add(notice.UnexpectedEnumValue.New(loc.Filename, loc.Row, f.Name, raw))
		}
		return n, true

	case schema.FieldFloat, schema.FieldLatitude, schema.FieldLongitude:
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return invalid(notice.InvalidFloat)
		}
		if f.Type == schema.FieldLatitude && (x < -90 || x > 90) {
			return outOfRange()
		}
		if f.Type == schema.FieldLongitude && (x < -180 || x > 180) {
			return outOfRange()
		}
		if !withinBounds(f.Bounds, sign(x)) {
			return outOfRange()
		}
		return x, true

	case schema.FieldDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return invalid(notice.InvalidDecimal)
		}
		if !withinBounds(f.Bounds, d.Sign()) {
			return outOfRange()
		}
		return d, true

	case schema.FieldDate:
		d, err := ParseDate(raw)
		if err != nil {
			return invalid(notice.InvalidDate)
		}
		return d, true

	case schema.FieldTime:
		t, err := ParseTime(raw)
		if err != nil {
			return invalid(notice.InvalidTime)
		}
		return t, true

	case schema.FieldColor:
		c, err := ParseColor(raw)
		if err != nil {
			return invalid(notice.InvalidColor)
		}
		return c, true

	case schema.FieldCurrency:
		u, err := currency.ParseISO(raw)
		if err != nil || len(raw) != 3 {
			return invalid(notice.InvalidCurrency)
		}
		return u, true

	case schema.FieldLanguage:
		tag, err := language.Parse(raw)
		if err != nil {
			return invalid(notice.InvalidLanguageCode)
		}
		return tag, true

	case schema.FieldTimezone:
		if raw == "Local" {
			return invalid(notice.InvalidTimezone)
		}
		tz, err := time.LoadLocation(raw)
		if err != nil {
			return invalid(notice.InvalidTimezone)
		}
		return tz, true

	case schema.FieldEmail:
		if !isEmail(raw) {
			return invalid(notice.InvalidEmail)
		}
		return raw, true

	case schema.FieldURL:
		if !isURL(raw) {
			return invalid(notice.InvalidURL)
		}
		return raw, true

	case schema.FieldPhone:
		if !p.isPhone(raw) {
			return invalid(notice.InvalidPhoneNumber)
		}
		return raw, true
	}

	return raw, true
}

// kindFor returns the notice reported for malformed values of t, or nil for
// types that accept any text.
func kindFor(t schema.FieldType) *notice.Kind {
	switch t {
	case schema.FieldInteger, schema.FieldEnum:
		return notice.InvalidInteger
	case schema.FieldFloat, schema.FieldLatitude, schema.FieldLongitude:
		return notice.InvalidFloat
	case schema.FieldDecimal:
		return notice.InvalidDecimal
	case schema.FieldDate:
		return notice.InvalidDate
	case schema.FieldTime:
		return notice.InvalidTime
	case schema.FieldColor:
		return notice.InvalidColor
	case schema.FieldCurrency:
		return notice.InvalidCurrency
	case schema.FieldLanguage:
		return notice.InvalidLanguageCode
	case schema.FieldTimezone:
		return notice.InvalidTimezone
	case schema.FieldEmail:
		return notice.InvalidEmail
	case schema.FieldURL:
		return notice.InvalidURL
	case schema.FieldPhone:
		return notice.InvalidPhoneNumber
	}
	return nil
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func withinBounds(b schema.NumberBounds, s int) bool {
	switch b {
	case schema.Positive:
		return s > 0
	case schema.NonNegative:
		return s >= 0
	case schema.NonZero:
		return s != 0
	}
	return true
}

func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Name == "" && addr.Address == s
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// isPhone accepts numbers that are possible for the run's region. Without a
// region only numbers in international format can be checked.
func (p *Parser) isPhone(s string) bool {
	region := p.CountryCode
	if region == "" {
		if !strings.HasPrefix(s, "+") {
			return true
		}
		region = "ZZ"
	}
	num, err := phonenumbers.Parse(s, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsPossibleNumber(num)
}
