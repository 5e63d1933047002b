package parse

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/schema"
)

var loc = Location{Filename: "stops.txt", Row: 7}

func TestParse_MalformedYieldsOneNotice(t *testing.T) {
	tests := []struct {
		name     string
		field    schema.FieldSpec
		raw      string
		wantCode string
	}{
		{"integer", schema.FieldSpec{Name: "n", Type: schema.FieldInteger}, "12a", "invalid_integer"},
		{"enum not a number", schema.FieldSpec{Name: "e", Type: schema.FieldEnum, EnumValues: []int{0}}, "x", "invalid_integer"},
		{"float", schema.FieldSpec{Name: "f", Type: schema.FieldFloat}, "1,5", "invalid_float"},
		{"float NaN", schema.FieldSpec{Name: "f", Type: schema.FieldFloat}, "NaN", "invalid_float"},
		{"decimal", schema.FieldSpec{Name: "d", Type: schema.FieldDecimal}, "1.2.3", "invalid_decimal"},
		{"date format", schema.FieldSpec{Name: "d", Type: schema.FieldDate}, "2024-01-01", "invalid_date"},
		{"date calendar", schema.FieldSpec{Name: "d", Type: schema.FieldDate}, "20240230", "invalid_date"},
		{"time minutes", schema.FieldSpec{Name: "t", Type: schema.FieldTime}, "08:61:00", "invalid_time"},
		{"time format", schema.FieldSpec{Name: "t", Type: schema.FieldTime}, "8am", "invalid_time"},
		{"color", schema.FieldSpec{Name: "c", Type: schema.FieldColor}, "FFF", "invalid_color"},
		{"color hex", schema.FieldSpec{Name: "c", Type: schema.FieldColor}, "GG0000", "invalid_color"},
		{"currency", schema.FieldSpec{Name: "c", Type: schema.FieldCurrency}, "DOLLARS", "invalid_currency"},
		{"language", schema.FieldSpec{Name: "l", Type: schema.FieldLanguage}, "not a tag", "invalid_language_code"},
		{"timezone", schema.FieldSpec{Name: "tz", Type: schema.FieldTimezone}, "Mars/Olympus", "invalid_timezone"},
		{"timezone local", schema.FieldSpec{Name: "tz", Type: schema.FieldTimezone}, "Local", "invalid_timezone"},
		{"email", schema.FieldSpec{Name: "e", Type: schema.FieldEmail}, "nobody", "invalid_email"},
		{"url scheme", schema.FieldSpec{Name: "u", Type: schema.FieldURL}, "ftp://example.com", "invalid_url"},
		{"url relative", schema.FieldSpec{Name: "u", Type: schema.FieldURL}, "/index.html", "invalid_url"},
		{"latitude", schema.FieldSpec{Name: "lat", Type: schema.FieldLatitude}, "91", "number_out_of_range"},
		{"longitude", schema.FieldSpec{Name: "lon", Type: schema.FieldLongitude}, "-180.5", "number_out_of_range"},
		{"positive", schema.FieldSpec{Name: "h", Type: schema.FieldInteger, Bounds: schema.Positive}, "0", "number_out_of_range"},
		{"non negative", schema.FieldSpec{Name: "d", Type: schema.FieldFloat, Bounds: schema.NonNegative}, "-0.1", "number_out_of_range"},
		{"non zero", schema.FieldSpec{Name: "s", Type: schema.FieldInteger, Bounds: schema.NonZero}, "0", "number_out_of_range"},
		{"decimal bounds", schema.FieldSpec{Name: "price", Type: schema.FieldDecimal, Bounds: schema.NonNegative}, "-1.50", "number_out_of_range"},
	}

	p := New("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := notice.NewContainer()
			v, ok := p.Parse(tt.raw, tt.field, loc, sink)
			if ok || v != nil {
				t.Errorf("Parse(%q) = %v, %v, want absent", tt.raw, v, ok)
			}
			got := sink.Notices()
			if len(got) != 1 {
				t.Fatalf("got %d notices, want 1: %v", len(got), got)
			}
			if got[0].Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got[0].Code, tt.wantCode)
			}
			if row, _ := got[0].Get("csvRowNumber"); row != 7 {
				t.Errorf("csvRowNumber = %v, want 7", row)
			}
		})
	}
}

func TestParse_ValidValues(t *testing.T) {
	p := New("US")
	tests := []struct {
		name  string
		field schema.FieldSpec
		raw   string
		want  any
	}{
		{"text", schema.FieldSpec{Type: schema.FieldText}, "Main St", "Main St"},
		{"integer", schema.FieldSpec{Type: schema.FieldInteger}, "-3", -3},
		{"enum", schema.FieldSpec{Type: schema.FieldEnum, EnumValues: []int{0, 1}}, "1", 1},
		{"float", schema.FieldSpec{Type: schema.FieldFloat}, "2.5", 2.5},
		{"latitude", schema.FieldSpec{Type: schema.FieldLatitude}, "-90", -90.0},
		{"date", schema.FieldSpec{Type: schema.FieldDate}, "20240229", Date{2024, time.February, 29}},
		{"time past midnight", schema.FieldSpec{Type: schema.FieldTime}, "25:10:05", TimeOfDay(25*3600 + 10*60 + 5)},
		{"time single digit hour", schema.FieldSpec{Type: schema.FieldTime}, "8:00:00", TimeOfDay(8 * 3600)},
		{"color", schema.FieldSpec{Type: schema.FieldColor}, "ff0000", Color(0xFF0000)},
		{"currency", schema.FieldSpec{Type: schema.FieldCurrency}, "EUR", currency.EUR},
		{"email", schema.FieldSpec{Type: schema.FieldEmail}, "info@example.com", "info@example.com"},
		{"url", schema.FieldSpec{Type: schema.FieldURL}, "https://example.com/a", "https://example.com/a"},
		{"phone", schema.FieldSpec{Type: schema.FieldPhone}, "(415) 555-0100", "(415) 555-0100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := notice.NewContainer()
			got, ok := p.Parse(tt.raw, tt.field, loc, sink)
			if !ok {
				t.Fatalf("Parse(%q) absent, notices %v", tt.raw, sink.Notices())
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v (%T), want %v (%T)", tt.raw, got, got, tt.want, tt.want)
			}
			if sink.Len() != 0 {
				t.Errorf("unexpected notices: %v", sink.Notices())
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	sink := notice.NewContainer()
	v, ok := New("").Parse("", schema.FieldSpec{Name: "stop_lat", Type: schema.FieldLatitude}, loc, sink)
	if ok || v != nil || sink.Len() != 0 {
		t.Errorf("Parse(\"\") = %v, %v with %d notices, want absent and silent", v, ok, sink.Len())
	}
}

func TestParse_UnexpectedEnumKeepsValue(t *testing.T) {
	sink := notice.NewContainer()
	f := schema.FieldSpec{Name: "location_type", Type: schema.FieldEnum, EnumValues: []int{0, 1}}
	v, ok := New("").Parse("9", f, loc, sink)
	if !ok || v != 9 {
		t.Errorf("Parse = %v, %v, want 9, true", v, ok)
	}
	if got := sink.Filter("unexpected_enum_value"); len(got) != 1 || got[0].Severity != notice.Warning {
		t.Errorf("unexpected_enum_value notices = %v, want one warning", got)
	}
}

func TestParse_Decimal(t *testing.T) {
	sink := notice.NewContainer()
	v, ok := New("").Parse("2.50", schema.FieldSpec{Name: "price", Type: schema.FieldDecimal}, loc, sink)
	if !ok {
		t.Fatal("Parse decimal absent")
	}
	if d := v.(decimal.Decimal); !d.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Parse decimal = %v, want 2.5", d)
	}
}

func TestParse_Timezone(t *testing.T) {
	sink := notice.NewContainer()
	v, ok := New("").Parse("America/New_York", schema.FieldSpec{Name: "tz", Type: schema.FieldTimezone}, loc, sink)
	if !ok {
		t.Fatalf("timezone absent: %v", sink.Notices())
	}
	if tz := v.(*time.Location); tz.String() != "America/New_York" {
		t.Errorf("timezone = %s, want America/New_York", tz)
	}
}

func TestParse_PhoneWithoutRegion(t *testing.T) {
	p := New("")
	f := schema.FieldSpec{Name: "agency_phone", Type: schema.FieldPhone}

	sink := notice.NewContainer()
	if _, ok := p.Parse("555-0100", f, loc, sink); !ok {
		t.Error("national number without region should not be checked")
	}
	if _, ok := p.Parse("+1", f, loc, sink); ok {
		t.Error("+1 should be rejected")
	}
	if got := len(sink.Filter("invalid_phone_number")); got != 1 {
		t.Errorf("invalid_phone_number count = %d, want 1", got)
	}
}

func TestColor_Luma(t *testing.T) {
	tests := []struct {
		c    Color
		want int
	}{
		{0x000000, 0},
		{0xFFFFFF, 255},
		{0xFF0000, 76},
	}
	for _, tt := range tests {
		if got := tt.c.Luma(); got != tt.want {
			t.Errorf("%s.Luma() = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	d, err := ParseDate("20241231")
	if err != nil {
		t.Fatalf("ParseDate error = %v", err)
	}
	if got := d.AddDays(1).String(); got != "20250101" {
		t.Errorf("AddDays(1) = %s, want 20250101", got)
	}
	if !d.Before(d.AddDays(1)) {
		t.Error("Before returned false for the next day")
	}
}

func TestTimeOfDay_String(t *testing.T) {
	if got := TimeOfDay(26*3600 + 5).String(); got != "26:00:05" {
		t.Errorf("String = %s, want 26:00:05", got)
	}
}
