package reports

import (
	"time"

	"jobmatch-backend/internal/analysis"
)

// Report is a persisted analysis.
type Report struct {
	ID             string                  `json:"id"`
	AnalyzedAt     time.Time               `json:"analyzedAt"`
	OverallScore   int                     `json:"overallScore"`
	Recommendation string                  `json:"recommendation"`
	Source         string                  `json:"source"`
	Result         analysis.AnalysisResult `json:"result"`
	StorageKey     string                  `json:"-"`
}

// Document is the downloadable JSON report body.
type Document struct {
	AnalysisTimestamp time.Time               `json:"analysisTimestamp"`
	OverallScore      int                     `json:"overallScore"`
	Recommendation    string                  `json:"recommendation"`
	Source            string                  `json:"source"`
	Result            analysis.AnalysisResult `json:"result"`
}

// Document returns the downloadable body of the report.
func (r Report) Document() Document {
	return Document{
		AnalysisTimestamp: r.AnalyzedAt,
		OverallScore:      r.OverallScore,
		Recommendation:    r.Recommendation,
		Source:            r.Source,
		Result:            r.Result,
	}
}

// FileName is the attachment name offered for download.
func (r Report) FileName() string {
	return "analysis_report_" + r.AnalyzedAt.UTC().Format("20060102_150405") + ".json"
}
