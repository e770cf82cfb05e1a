// Package heuristic scores a resume against a job description by keyword
// overlap. It is the fallback used when no AI analysis is available.
package heuristic

import (
	_ "embed"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	LabelStrong = "Strong Match"
	LabelGood   = "Good Match"
	LabelWeak   = "Weak Match"
	LabelPoor   = "Poor Match"
)

// Fixed offsets applied to the keyword score to derive the sub-scores.
const (
	skillsOffset     = 10
	experienceOffset = 5
	educationOffset  = 15
	overallOffset    = 10
)

// Lists in improvements are capped to keep feedback readable.
const maxListed = 10

//go:embed lexicon.yaml
var lexiconYAML []byte

// tokenPattern matches Unicode word runs. RE2's \w and \b are ASCII-only and
// would split accented words.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Lexicon holds the stop words and the skills vocabulary used for scoring.
type Lexicon struct {
	StopWords []string `yaml:"stopWords"`
	Skills    []string `yaml:"skills"`
}

// Result is the heuristic analysis of one job description and resume pair.
type Result struct {
	OverallScore     int
	KeywordScore     int
	SkillsScore      int
	ExperienceScore  int
	EducationScore   int
	MatchedKeywords  []string
	MissingKeywords  []string
	MatchedSkills    []string
	MissingSkills    []string
	Strengths        []string
	Improvements     []string
	DetailedFeedback string
	Recommendation   string
}

// Scorer compares token sets. It is immutable and safe for concurrent use.
type Scorer struct {
	stopWords map[string]struct{}
	skills    map[string]struct{}
}

var defaultScorer = mustDefaultScorer()

func mustDefaultScorer() *Scorer {
	lex, err := ParseLexicon(lexiconYAML)
	if err != nil {
		panic(fmt.Sprintf("heuristic: embedded lexicon: %v", err))
	}
	return NewScorer(lex)
}

// ParseLexicon decodes a YAML lexicon document.
func ParseLexicon(data []byte) (Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}
	return lex, nil
}

// DefaultLexicon returns a copy of the embedded lexicon.
func DefaultLexicon() Lexicon {
	lex, _ := ParseLexicon(lexiconYAML)
	return lex
}

// NewScorer builds a scorer from a lexicon. Entries are lowercased.
func NewScorer(lex Lexicon) *Scorer {
	return &Scorer{
		stopWords: toSet(lex.StopWords),
		skills:    toSet(lex.Skills),
	}
}

// Score runs the embedded-lexicon scorer.
func Score(jobDescription, resumeText string) Result {
	return defaultScorer.Score(jobDescription, resumeText)
}

// Score compares the job description tokens J with the resume tokens R.
// matched = J ∩ R, missing = J − R, keyword = round(100*|matched|/max(|J|,1)).
func (s *Scorer) Score(jobDescription, resumeText string) Result {
	job := s.Tokens(jobDescription)
	resume := s.Tokens(resumeText)

	matched := make([]string, 0, len(job))
	missing := make([]string, 0, len(job))
	for token := range job {
		if _, ok := resume[token]; ok {
			matched = append(matched, token)
		} else {
			missing = append(missing, token)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	keyword := clamp(int(math.Round(100 * float64(len(matched)) / float64(max(len(job), 1)))))
	matchedSkills := s.filterSkills(matched)
	missingSkills := s.filterSkills(missing)
	label := Label(keyword)

	return Result{
		OverallScore:     clamp(keyword + overallOffset),
		KeywordScore:     keyword,
		SkillsScore:      clamp(keyword + skillsOffset),
		ExperienceScore:  clamp(keyword + experienceOffset),
		EducationScore:   clamp(keyword + educationOffset),
		MatchedKeywords:  matched,
		MissingKeywords:  missing,
		MatchedSkills:    matchedSkills,
		MissingSkills:    missingSkills,
		Strengths:        strengths(keyword, matched, matchedSkills),
		Improvements:     improvements(missing, missingSkills),
		DetailedFeedback: feedback(keyword, len(matched), len(job), label),
		Recommendation:   label,
	}
}

// Tokens lowercases text, splits it on word boundaries and drops stop words.
func (s *Scorer) Tokens(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := s.stopWords[token]; stop {
			continue
		}
		out[token] = struct{}{}
	}
	return out
}

func (s *Scorer) filterSkills(tokens []string) []string {
	out := make([]string, 0)
	for _, token := range tokens {
		if _, ok := s.skills[token]; ok {
			out = append(out, token)
		}
	}
	return out
}

// Label maps a keyword score onto a recommendation.
func Label(keyword int) string {
	switch {
	case keyword > 80:
		return LabelStrong
	case keyword > 60:
		return LabelGood
	case keyword > 30:
		return LabelWeak
	default:
		return LabelPoor
	}
}

func strengths(keyword int, matched, matchedSkills []string) []string {
	out := make([]string, 0, 2)
	if len(matchedSkills) > 0 {
		out = append(out, "Relevant skills found: "+joinCapped(matchedSkills)+".")
	}
	switch {
	case keyword > 60:
		out = append(out, "Resume covers most of the job description keywords.")
	case len(matched) > 0:
		out = append(out, fmt.Sprintf("Resume shares %d keywords with the job description.", len(matched)))
	}
	return out
}

func improvements(missing, missingSkills []string) []string {
	out := make([]string, 0, 2)
	if len(missingSkills) > 0 {
		out = append(out, "Add evidence of these skills if you have them: "+joinCapped(missingSkills)+".")
	}
	if len(missing) > 0 {
		out = append(out, "Consider using the job description's wording for: "+joinCapped(missing)+".")
	}
	return out
}

func feedback(keyword, matched, total int, label string) string {
	return fmt.Sprintf(
		"Keyword comparison: the resume contains %d of %d job description keywords (%d%%). Overall this is a %s.",
		matched, total, keyword, strings.ToLower(label),
	)
}

func joinCapped(items []string) string {
	if len(items) > maxListed {
		return strings.Join(items[:maxListed], ", ") + fmt.Sprintf(" and %d more", len(items)-maxListed)
	}
	return strings.Join(items, ", ")
}

func toSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			out[item] = struct{}{}
		}
	}
	return out
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
