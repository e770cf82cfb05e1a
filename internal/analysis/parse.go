package analysis

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"jobmatch-backend/internal/heuristic"
)

// score accepts JSON numbers and numeric strings such as "85" or "85%".
type score float64

func (s *score) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.TrimSuffix(strings.Trim(raw, `"`), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return err
	}
	*s = score(v)
	return nil
}

type modelResult struct {
	OverallScore     *score   `json:"overallScore"`
	KeywordScore     *score   `json:"keywordScore"`
	SkillsScore      *score   `json:"skillsScore"`
	ExperienceScore  *score   `json:"experienceScore"`
	EducationScore   *score   `json:"educationScore"`
	MatchedKeywords  []string `json:"matchedKeywords"`
	MissingKeywords  []string `json:"missingKeywords"`
	MatchedSkills    []string `json:"matchedSkills"`
	MissingSkills    []string `json:"missingSkills"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	DetailedFeedback string   `json:"detailedFeedback"`
	Recommendation   string   `json:"recommendation"`
}

// ParseModelResponse reads the JSON object between the first '{' and the last
// '}' of text. It reports false when no usable object is present.
func ParseModelResponse(text string) (AnalysisResult, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return AnalysisResult{}, false
	}

	var raw modelResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return AnalysisResult{}, false
	}
	if raw.OverallScore == nil && strings.TrimSpace(raw.Recommendation) == "" {
		return AnalysisResult{}, false
	}

	result := AnalysisResult{
		OverallScore:     clampScore(raw.OverallScore),
		KeywordScore:     clampScore(raw.KeywordScore),
		SkillsScore:      clampScore(raw.SkillsScore),
		ExperienceScore:  clampScore(raw.ExperienceScore),
		EducationScore:   clampScore(raw.EducationScore),
		MatchedKeywords:  cleanList(raw.MatchedKeywords),
		MissingKeywords:  cleanList(raw.MissingKeywords),
		MatchedSkills:    cleanList(raw.MatchedSkills),
		MissingSkills:    cleanList(raw.MissingSkills),
		Strengths:        cleanList(raw.Strengths),
		Improvements:     cleanList(raw.Improvements),
		DetailedFeedback: strings.TrimSpace(raw.DetailedFeedback),
		Source:           SourceAI,
	}
	result.Recommendation = normalizeLabel(raw.Recommendation, result.KeywordScore)
	return result, true
}

func clampScore(v *score) int {
	if v == nil || math.IsNaN(float64(*v)) {
		return 0
	}
	rounded := int(math.Round(float64(*v)))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// normalizeLabel maps free-form labels onto the four recommendations. Unknown
// labels are derived from the keyword score.
func normalizeLabel(raw string, keyword int) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(lower, "strong"):
		return heuristic.LabelStrong
	case strings.HasPrefix(lower, "good"):
		return heuristic.LabelGood
	case strings.HasPrefix(lower, "weak"):
		return heuristic.LabelWeak
	case strings.HasPrefix(lower, "poor"):
		return heuristic.LabelPoor
	default:
		return heuristic.Label(keyword)
	}
}
