package core

import (
	"sort"
	"time"

	"github.com/JonMunkholm/transitcheck/internal/notice"
	"github.com/JonMunkholm/transitcheck/internal/table"
	"github.com/JonMunkholm/transitcheck/internal/validator"
)

// Report is the outcome of one validation run.
type Report struct {
	RunID         string               `json:"run_id"`
	FeedID        string               `json:"feed_id,omitempty"`
	Source        string               `json:"source"`
	CountryCode   string               `json:"country_code,omitempty"`
	ReferenceTime time.Time            `json:"reference_time"`
	StartedAt     time.Time            `json:"started_at"`
	Duration      time.Duration        `json:"duration"`
	Summary       Summary              `json:"summary"`
	Tables        []table.TableSummary `json:"tables"`
	Validators    []validator.UnitStat `json:"validators"`
	Notices       []notice.Notice      `json:"notices"`
}

// Summary counts a report's notices.
type Summary struct {
	Errors   int         `json:"errors"`
	Warnings int         `json:"warnings"`
	Infos    int         `json:"infos"`
	Codes    []CodeCount `json:"codes"`
	// Valid is true when the feed produced no Error notice.
	Valid bool `json:"valid"`
}

// CodeCount is how often one notice code occurred. Severity is the highest
// severity seen for the code.
type CodeCount struct {
	Code     string          `json:"code"`
	Severity notice.Severity `json:"severity"`
	Count    int             `json:"count"`
}

// summarize counts notices. Codes are ordered by severity, highest first,
// then by code.
func summarize(notices []notice.Notice) Summary {
	var s Summary
	byCode := make(map[string]*CodeCount)
	for _, n := range notices {
		switch n.Severity {
		case notice.Error:
			s.Errors++
		case notice.Warning:
			s.Warnings++
		default:
			s.Infos++
		}
		cc, ok := byCode[n.Code]
		if !ok {
			cc = &CodeCount{Code: n.Code, Severity: n.Severity}
			byCode[n.Code] = cc
		}
		cc.Count++
		cc.Severity = max(cc.Severity, n.Severity)
	}

	s.Codes = make([]CodeCount, 0, len(byCode))
	for _, cc := range byCode {
		s.Codes = append(s.Codes, *cc)
	}
	sort.Slice(s.Codes, func(i, j int) bool {
		if s.Codes[i].Severity != s.Codes[j].Severity {
			return s.Codes[i].Severity > s.Codes[j].Severity
		}
		return s.Codes[i].Code < s.Codes[j].Code
	})
	s.Valid = s.Errors == 0
	return s
}
