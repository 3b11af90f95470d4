package model

import (
	"fmt"
	"regexp"
	"strings"
)

type ReportKind int

const (
	ReportText ReportKind = iota
	ReportPhoto
	ReportVideo
)

// Report is a user submission on its way to the moderation group. For
// media reports FileID references the platform-side file; Text may be
// empty on the media path.
type Report struct {
	Kind            ReportKind
	FromID          int64
	FromName        string
	Text            string
	FileID          string
	SourceChatID    int64
	SourceMessageID int
}

// Caption returns the attributed text relayed to the group.
func (r *Report) Caption() string {
	if r.Text == "" {
		return fmt.Sprintf("Reporte de @%s:", r.FromName)
	}
	return fmt.Sprintf("Reporte de @%s:\n%s", r.FromName, r.Text)
}

// Matches "/reporte", "reporte", "REPORTE algo…" — case-insensitive,
// optional leading slash, optional trailing body.
var reportCaptionRe = regexp.MustCompile(`(?i)^/?reporte\b(.*)$`)

// ParseReportCaption extracts the report body from a media caption.
// The second return is false when the caption is not a report at all.
func ParseReportCaption(caption string) (string, bool) {
	m := reportCaptionRe.FindStringSubmatch(strings.TrimSpace(caption))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
