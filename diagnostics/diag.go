// Package diagnostics describes faults in a form fit for operators.
package diagnostics

import "github.com/rs/zerolog"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (d Diagnostic) MarshalZerologObject(e *zerolog.Event) {
	e.Str("severity", string(d.Severity)).
		Str("code", d.Code).
		Str("summary", d.Summary)
	if d.Detail != "" {
		e.Str("detail", d.Detail)
	}
	if len(d.LikelyCauses) > 0 {
		e.Strs("likely_causes", d.LikelyCauses)
	}
	if len(d.SuggestedFixes) > 0 {
		e.Strs("suggested_fixes", d.SuggestedFixes)
	}
	if len(d.Evidence) > 0 {
		e.Fields(d.Evidence)
	}
}

// Level maps the severity to a log level.
func (d Diagnostic) Level() zerolog.Level {
	switch d.Severity {
	case Info:
		return zerolog.InfoLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
