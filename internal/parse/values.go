package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Date is a calendar date without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYYMMDD value.
func ParseDate(s string) (Date, error) {
	if len(s) != 8 || !allDigits(s) {
		return Date{}, fmt.Errorf("date %q is not YYYYMMDD", s)
	}
	t, err := time.Parse("20060102", s)
	if err != nil {
		return Date{}, fmt.Errorf("date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days later.
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1 as d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	return d.In(time.UTC).Compare(o.In(time.UTC))
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// String formats the date as YYYYMMDD.
func (d Date) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is the number of seconds since midnight of the service day.
// Values of 24:00:00 and later are valid for trips running past midnight.
type TimeOfDay int

var timeRegex = regexp.MustCompile(`^(\d{1,3}):([0-5]\d):([0-5]\d)$`)

// ParseTime parses an H:MM:SS or HH:MM:SS value.
func ParseTime(s string) (TimeOfDay, error) {
	m := timeRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("time %q is not HH:MM:SS", s)
	}
	h, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	return TimeOfDay(h*3600 + mins*60 + sec), nil
}

// String formats the time as HH:MM:SS.
func (t TimeOfDay) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}

// Color is a 24-bit RGB color.
type Color uint32

var errColor = errors.New("color is not six hexadecimal digits")

// ParseColor parses an RRGGBB value.
func ParseColor(s string) (Color, error) {
	if len(s) != 6 {
		return 0, errColor
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errColor
	}
	return Color(v), nil
}

// RGB returns the red, green and blue components.
func (c Color) RGB() (r, g, b int) {
	return int(c>>16) & 0xff, int(c>>8) & 0xff, int(c) & 0xff
}

// Luma returns the Rec. 601 luma in the range 0-255.
func (c Color) Luma() int {
	r, g, b := c.RGB()
	return (299*r + 587*g + 114*b) / 1000
}

// String formats the color as upper-case RRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("%06X", uint32(c))
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
