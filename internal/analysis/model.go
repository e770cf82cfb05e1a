package analysis

import "jobmatch-backend/internal/heuristic"

const (
	SourceAI        = "ai"
	SourceHeuristic = "heuristic"
)

// AnalysisResult is the outcome of one analysis request.
type AnalysisResult struct {
	OverallScore     int      `json:"overallScore"`
	KeywordScore     int      `json:"keywordScore"`
	SkillsScore      int      `json:"skillsScore"`
	ExperienceScore  int      `json:"experienceScore"`
	EducationScore   int      `json:"educationScore"`
	MatchedKeywords  []string `json:"matchedKeywords"`
	MissingKeywords  []string `json:"missingKeywords"`
	MatchedSkills    []string `json:"matchedSkills"`
	MissingSkills    []string `json:"missingSkills"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	DetailedFeedback string   `json:"detailedFeedback"`
	Recommendation   string   `json:"recommendation"`
	Source           string   `json:"source"`
	ModelText        string   `json:"modelText,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
	ReportID         string   `json:"reportId,omitempty"`
}

// Request carries the inputs of one analysis. Document takes precedence over
// ResumeText when both are set.
type Request struct {
	JobDescription string
	CoverLetter    string
	ResumeText     string
	Document       []byte
	MimeType       string
	FileName       string
	APIKey         string
	Provider       string
	SaveReport     bool
}

func fromHeuristic(r heuristic.Result) AnalysisResult {
	return AnalysisResult{
		OverallScore:     r.OverallScore,
		KeywordScore:     r.KeywordScore,
		SkillsScore:      r.SkillsScore,
		ExperienceScore:  r.ExperienceScore,
		EducationScore:   r.EducationScore,
		MatchedKeywords:  ensureStrings(r.MatchedKeywords),
		MissingKeywords:  ensureStrings(r.MissingKeywords),
		MatchedSkills:    ensureStrings(r.MatchedSkills),
		MissingSkills:    ensureStrings(r.MissingSkills),
		Strengths:        ensureStrings(r.Strengths),
		Improvements:     ensureStrings(r.Improvements),
		DetailedFeedback: r.DetailedFeedback,
		Recommendation:   r.Recommendation,
		Source:           SourceHeuristic,
	}
}

func ensureStrings(value []string) []string {
	if value == nil {
		return []string{}
	}
	return value
}
