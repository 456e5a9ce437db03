package http

import (
	"embed"
	"html/template"
	"math"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/couchcryptid/population-dashboard/internal/dashboard"
	"github.com/couchcryptid/population-dashboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"comma":     humanize.Comma,
	"timestamp": timestamp,
}).ParseFS(templateFS, "templates/index.html"))

// page is the template data: the view plus links derived from its selection.
type page struct {
	dashboard.View
	TargetChart  string
	CompareChart string
	ExportURL    string

	// CompareOpen selects the Compare tab after its form was submitted.
	CompareOpen bool
}

func newPage(v dashboard.View, compareOpen bool) page {
	p := page{View: v, CompareOpen: compareOpen}
	if v.Summary == nil {
		return p
	}
	q := v.Selection.Query().Encode()
	p.TargetChart = link("/charts/target.svg", q)
	p.CompareChart = link("/charts/compare.svg", q)
	p.ExportURL = link("/export.parquet", q)
	return p
}

func link(path, rawQuery string) string {
	u := url.URL{Path: path, RawQuery: rawQuery}
	return u.String()
}

type rowResponse struct {
	Quarter    string `json:"quarter"`
	Population int64  `json:"population"`
}

type summaryResponse struct {
	Region  string `json:"region"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Initial int64  `json:"initial"`
	Final   int64  `json:"final"`

	// PercentChange is null when the final value is zero.
	PercentChange *float64      `json:"percent_change"`
	Delta         string        `json:"delta"`
	Rows          []rowResponse `json:"rows"`

	Source sourceResponse `json:"source"`
}

type sourceResponse struct {
	SHA256   string    `json:"sha256"`
	LoadedAt time.Time `json:"loaded_at"`
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func newSummaryResponse(s domain.Summary) summaryResponse {
	resp := summaryResponse{
		Region:  s.Region,
		Start:   s.Start,
		End:     s.End,
		Initial: s.Initial,
		Final:   s.Final,
		Delta:   dashboard.FormatDelta(s.PercentChange),
		Source: sourceResponse{
			SHA256:   s.Rows.Hash,
			LoadedAt: s.Rows.LoadedAt.UTC(),
		},
	}
	if !math.IsInf(s.PercentChange, 0) && !math.IsNaN(s.PercentChange) {
		pct := s.PercentChange
		resp.PercentChange = &pct
	}
	if col, err := s.Rows.Column(s.Region); err == nil {
		resp.Rows = make([]rowResponse, len(col))
		for i, v := range col {
			resp.Rows[i] = rowResponse{Quarter: s.Rows.Rows[i].Quarter, Population: v}
		}
	}
	return resp
}
