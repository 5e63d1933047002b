package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/parse"
	"github.com/JonMunkholm/transitcheck/internal/schema"
)

// DefaultProgressEvery is how many rows pass between progress log entries.
const DefaultProgressEvery = 200_000

// Loader reads one CSV file into a Container. Every problem in the file is
// reported as a notice and loading continues with best-effort data.
type Loader struct {
	Parser        *parse.Parser
	Logger        *slog.Logger
	ProgressEvery int
}

// NewLoader returns a loader using p for cell parsing.
func NewLoader(p *parse.Parser, logger *slog.Logger) *Loader {
	if p == nil {
		p = parse.New("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{Parser: p, Logger: logger, ProgressEvery: DefaultProgressEvery}
}

// LoadMissing returns the container for a file absent from the feed and
// reports it when the file is required or recommended.
func (l *Loader) LoadMissing(ts *schema.TableSchema, sink notice.Sink) *Container {
	switch {
	case ts.IsRequired():
		sink.Add(notice.MissingRequiredFile.New(ts.Filename))
	case ts.IsRecommended():
		sink.Add(notice.MissingRecommendedFile.New(ts.Filename))
	}
	return ForStatus(ts, MissingFile)
}

// Load parses r as the file described by ts.
func (l *Loader) Load(ts *schema.TableSchema, r io.Reader, sink notice.Sink) *Container {
	src := newSourceReader(r)
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		l.reportEmpty(ts, sink)
		return ForStatus(ts, EmptyFile)
	}
	if err != nil {
		l.reportReadError(ts, err, 1, sink)
		return ForStatus(ts, EmptyFile)
	}

	columns, names := l.mapHeader(ts, header, sink)

	var records []Record
	failed := false
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.reportReadError(ts, err, 0, sink)
			failed = true
			break
		}
		line, _ := cr.FieldPos(0)
		records = append(records, l.parseRow(ts, columns, len(header), row, line, sink))

		if l.ProgressEvery > 0 && len(records)%l.ProgressEvery == 0 {
			l.Logger.Debug("loading table",
				"filename", ts.Filename,
				"rows", len(records),
				"bytes", src.n,
			)
		}
	}

	if len(records) == 0 && !failed {
		l.reportEmpty(ts, sink)
		return ForStatus(ts, EmptyFile)
	}

	l.Logger.Debug("table loaded", "filename", ts.Filename, "rows", len(records), "bytes", src.n)
	return ForEntities(ts, names, records, sink)
}

// mapHeader resolves each header position to a schema field index, or -1 for
// columns that are unknown, unnamed or repeated. It returns the mapping and
// the recognized column names.
func (l *Loader) mapHeader(ts *schema.TableSchema, header []string, sink notice.Sink) ([]int, []string) {
	columns := make([]int, len(header))
	names := make([]string, 0, len(header))
	firstIndex := make(map[string]int, len(header))

	for i, raw := range header {
		name := strings.TrimSpace(raw)
		columns[i] = -1

		if name == "" {
			sink.Add(notice.EmptyColumnName.New(ts.Filename, i))
			continue
		}
		if first, dup := firstIndex[name]; dup {
			sink.Add(notice.DuplicatedColumn.New(ts.Filename, name, first, i))
			continue
		}
		firstIndex[name] = i

		idx := ts.FieldIndex(name)
		if idx < 0 {
			sink.Add(notice.UnknownColumn.New(ts.Filename, name, i))
			continue
		}
		columns[i] = idx
		names = append(names, name)
	}

	for _, f := range ts.Fields {
		if _, ok := firstIndex[f.Name]; ok {
			continue
		}
		switch f.Presence {
		case schema.Required:
			sink.Add(notice.MissingRequiredColumn.New(ts.Filename, f.Name))
		case schema.Recommended:
			sink.Add(notice.MissingRecommendedColumn.New(ts.Filename, f.Name))
		}
	}

	return columns, names
}

func (l *Loader) parseRow(ts *schema.TableSchema, columns []int, headerLen int, row []string, line int, sink notice.Sink) Record {
	if len(row) != headerLen {
		sink.Add(notice.InvalidRowLength.New(ts.Filename, line, len(row), headerLen))
	}

	rec := Record{table: ts, row: line, values: make([]any, len(ts.Fields))}
	loc := parse.Location{Filename: ts.Filename, Row: line}

	for i, col := range columns {
		if col < 0 {
			continue
		}
		f := ts.Fields[col]

		raw := ""
		if i < len(row) {
			raw = row[i]
		}

		if strings.ContainsAny(raw, "\n\r") {
			sink.Add(notice.NewLineInValue.New(ts.Filename, line, f.Name, raw))
		}
		if trimmed := strings.TrimSpace(raw); trimmed != raw {
			sink.Add(notice.LeadingOrTrailingWhitespaces.New(ts.Filename, line, f.Name, raw))
			raw = trimmed
		}
		if f.Type == schema.FieldID {
			if hasNonASCIIOrNonPrintable(raw) {
				sink.Add(notice.NonASCIIOrNonPrintableChar.New(ts.Filename, line, f.Name, raw))
			}
		} else if hasNonPrintable(raw) {
			sink.Add(notice.NonPrintableChar.New(ts.Filename, line, f.Name, raw))
		}

		if raw == "" {
			switch f.Presence {
			case schema.Required:
				sink.Add(notice.MissingRequiredField.New(ts.Filename, line, f.Name))
			case schema.Recommended:
				sink.Add(notice.MissingRecommendedField.New(ts.Filename, line, f.Name))
			}
			continue
		}

		if v, ok := l.Parser.Parse(raw, f, loc, sink); ok {
			rec.values[col] = v
		}
	}

	return rec
}

func (l *Loader) reportEmpty(ts *schema.TableSchema, sink notice.Sink) {
	severity := notice.Warning
	if ts.IsRequired() {
		severity = notice.Error
	}
	sink.Add(notice.EmptyFile.NewWithSeverity(severity, ts.Filename))
}

func (l *Loader) reportReadError(ts *schema.TableSchema, err error, line int, sink notice.Sink) {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		if pe.StartLine > 0 {
			line = pe.StartLine
		}
		sink.Add(notice.CsvParsingFailed.New(ts.Filename, line, pe.Err.Error()))
		return
	}
	sink.Add(notice.IOError.New(ts.Filename, fmt.Sprintf("%T", err), err.Error()))
}

// hasNonPrintable ignores line breaks, which are reported separately, and
// tabs, which are ordinary whitespace in free text.
func hasNonPrintable(s string) bool {
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}

// hasNonASCIIOrNonPrintable applies to identifiers, where a tab is flagged.
func hasNonASCIIOrNonPrintable(s string) bool {
	for _, r := range s {
		if r == '\n' || r == '\r' {
			continue
		}
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return true
		}
	}
	return false
}
