package classifier

import (
	"regexp"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
)

// namedPattern pairs a regular expression with a stable name reported in
// Classification.MatchedPatterns.
type namedPattern struct {
	name    string
	pattern *regexp.Regexp
}

// Positive patterns: each hit adds the positive rule weight.
var positivePatterns = []namedPattern{
	{"intern-mention", regexp.MustCompile(`\b(intern|internship|trainee)\b|thực tập sinh|thực tập`)},
	{"intern-recruiting", regexp.MustCompile(`(tuyển|tìm|cần)\s+(thực tập sinh|thực tập|intern)`)},
	{"student-mention", regexp.MustCompile(`sinh viên|\bstudent\b|fresh graduate|mới tốt nghiệp|\bgraduate\b`)},
	{"studying-mention", regexp.MustCompile(`đang học|năm cuối|final year|đang theo học`)},
	{"short-duration", regexp.MustCompile(`\d+\s*(tháng|tuần|month|week)s?|part\s*time|bán thời gian`)},
	{"seasonal-intern", regexp.MustCompile(`(summer|winter|hè|đông)\s*(intern|internship|thực tập)`)},
}

// Negative patterns: each hit subtracts the negative rule weight.
var negativePatterns = []namedPattern{
	{"senior-title", regexp.MustCompile(`\b(senior|lead|manager|architect|principal|staff)\b|trưởng phòng|trưởng nhóm|quản lý cấp cao`)},
	{"experience-required", regexp.MustCompile(`\d+\s*\+?\s*(năm|year)s?\s*(kinh nghiệm|experience|exp)`)},
	{"management-verbs", regexp.MustCompile(`(quản lý|lead|manage|mentor|điều hành)\s+(team|nhóm|đội|bộ phận|people)`)},
}

// Experience level keyword sets for the level heuristic.
var (
	entryLevelKeywords = []string{
		"intern", "thực tập", "fresher", "entry level", "junior",
		"không yêu cầu kinh nghiệm", "no experience",
	}
	midLevelKeywords = []string{
		"middle", "mid level", "2 năm kinh nghiệm", "3 năm kinh nghiệm",
	}
	seniorLevelKeywords = []string{
		"senior", "lead", "manager", "architect", "principal", "staff engineer",
		"trưởng phòng", "trưởng nhóm", "cao cấp",
	}
)

var (
	entryLevelMatcher  = ahocorasick.NewStringMatcher(entryLevelKeywords)
	midLevelMatcher    = ahocorasick.NewStringMatcher(midLevelKeywords)
	seniorLevelMatcher = ahocorasick.NewStringMatcher(seniorLevelKeywords)
)

// Experience levels produced by detectLevel.
const (
	levelEntry   = "entry"
	levelMid     = "mid"
	levelSenior  = "senior"
	levelUnknown = "unknown"
)

// RuleWeights holds the rule scorer's tunable weights and threshold.
type RuleWeights struct {
	PositivePattern float64 `yaml:"positive_pattern"`
	NegativePattern float64 `yaml:"negative_pattern"`
	SeniorPenalty   float64 `yaml:"senior_penalty"`
	EntryBonus      float64 `yaml:"entry_bonus"`
	TitleIntern     float64 `yaml:"title_intern"`
	TitleJunior     float64 `yaml:"title_junior"`
	TitleSenior     float64 `yaml:"title_senior"`
	Threshold       float64 `yaml:"threshold"`
}

// DefaultRuleWeights returns the default rule scorer weights.
func DefaultRuleWeights() RuleWeights {
	return RuleWeights{
		PositivePattern: 0.3,
		NegativePattern: 0.4,
		SeniorPenalty:   0.5,
		EntryBonus:      0.3,
		TitleIntern:     0.4,
		TitleJunior:     0.2,
		TitleSenior:     0.3,
		Threshold:       0.5,
	}
}

// SetDefaults fills unset weights individually.
func (w *RuleWeights) SetDefaults() {
	def := DefaultRuleWeights()
	if w.PositivePattern == 0 {
		w.PositivePattern = def.PositivePattern
	}
	if w.NegativePattern == 0 {
		w.NegativePattern = def.NegativePattern
	}
	if w.SeniorPenalty == 0 {
		w.SeniorPenalty = def.SeniorPenalty
	}
	if w.EntryBonus == 0 {
		w.EntryBonus = def.EntryBonus
	}
	if w.TitleIntern == 0 {
		w.TitleIntern = def.TitleIntern
	}
	if w.TitleJunior == 0 {
		w.TitleJunior = def.TitleJunior
	}
	if w.TitleSenior == 0 {
		w.TitleSenior = def.TitleSenior
	}
	if w.Threshold == 0 {
		w.Threshold = def.Threshold
	}
}

// Title-line heuristic patterns.
var (
	titleInternPattern = regexp.MustCompile(`\b(intern|internship|trainee)\b|thực tập`)
	titleJuniorPattern = regexp.MustCompile(`\b(junior|fresher)\b|entry level`)
	titleSeniorPattern = regexp.MustCompile(`\b(senior|lead|manager)\b`)
)

// RuleScorer is the deterministic pattern and keyword scorer, the last
// layer of the degradation chain. It never fails.
type RuleScorer struct {
	weights RuleWeights
}

// NewRuleScorer creates a rule scorer with the given weights.
func NewRuleScorer(weights RuleWeights) *RuleScorer {
	return &RuleScorer{weights: weights}
}

// Score classifies raw posting text with pattern and keyword heuristics.
func (r *RuleScorer) Score(text string) *domain.Classification {
	title := Preprocess(firstLine(text))
	processed := Preprocess(text)

	var score float64
	var matched []string

	for _, p := range positivePatterns {
		if p.pattern.MatchString(processed) {
			score += r.weights.PositivePattern
			matched = append(matched, p.name)
		}
	}
	for _, p := range negativePatterns {
		if p.pattern.MatchString(processed) {
			score -= r.weights.NegativePattern
			matched = append(matched, p.name)
		}
	}

	switch detectLevel(processed) {
	case levelSenior:
		score -= r.weights.SeniorPenalty
	case levelEntry:
		score += r.weights.EntryBonus
	}

	if title != "" {
		switch {
		case titleInternPattern.MatchString(title):
			score += r.weights.TitleIntern
		case titleJuniorPattern.MatchString(title):
			score += r.weights.TitleJunior
		case titleSeniorPattern.MatchString(title):
			score -= r.weights.TitleSenior
		}
	}

	return &domain.Classification{
		IsIntern:        score >= r.weights.Threshold,
		Confidence:      clamp01(score),
		Method:          domain.MethodRuleBased,
		MatchedPatterns: matched,
		Features:        ExtractFeatures(processed),
	}
}

// detectLevel classifies text into an experience level by keyword sets.
// Senior keywords dominate: a posting mentioning both senior and entry
// terms is treated as senior.
func detectLevel(text string) string {
	b := []byte(text)
	switch {
	case len(seniorLevelMatcher.Match(b)) > 0:
		return levelSenior
	case len(midLevelMatcher.Match(b)) > 0:
		return levelMid
	case len(entryLevelMatcher.Match(b)) > 0:
		return levelEntry
	default:
		return levelUnknown
	}
}
