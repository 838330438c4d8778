package classifier

import (
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/Thu-Hong-oo/internship-recruitment-platform-sub001/internal/domain"
)

// Keyword sets for feature extraction. Matched with an Aho-Corasick
// automaton over preprocessed text, same approach as plain substring
// matching but a single pass regardless of set size.
var (
	internKeywords = []string{
		"intern", "internship", "trainee", "thực tập", "thuc tap",
		"thực tập sinh", "học việc",
	}
	studentKeywords = []string{
		"sinh viên", "sinh vien", "student", "năm cuối", "nam cuoi",
		"mới tốt nghiệp", "fresh graduate", "graduate",
	}
)

var (
	internMatcher  = ahocorasick.NewStringMatcher(internKeywords)
	studentMatcher = ahocorasick.NewStringMatcher(studentKeywords)
)

// Phrase patterns that need more than substring matching.
var (
	experiencePattern = regexp.MustCompile(`\d+\s*\+?\s*(năm|nam|year|yr)s?\s*(kinh nghiệm|kinh nghiem|experience|exp)`)
	durationPattern   = regexp.MustCompile(`\d+\s*(tháng|thang|month|tuần|tuan|week)s?`)
	salaryPattern     = regexp.MustCompile(`(lương|luong|salary|trợ cấp|tro cap|allowance|stipend|\d+\s*(triệu|trieu|tr)\b|\$\d+)`)
)

// Feature score weights. Empirical values; tunable, not load-bearing.
type FeatureWeights struct {
	InternKeyword  float64 `yaml:"intern_keyword"`
	StudentKeyword float64 `yaml:"student_keyword"`
	NoExperience   float64 `yaml:"no_experience"`
	Duration       float64 `yaml:"duration"`
	Salary         float64 `yaml:"salary"`
	ModerateLen    float64 `yaml:"moderate_length"`
}

// DefaultFeatureWeights returns the default feature score weights.
func DefaultFeatureWeights() FeatureWeights {
	return FeatureWeights{
		InternKeyword:  0.3,
		StudentKeyword: 0.2,
		NoExperience:   0.1,
		Duration:       0.1,
		Salary:         0.05,
		ModerateLen:    0.05,
	}
}

// SetDefaults fills unset weights individually.
func (w *FeatureWeights) SetDefaults() {
	def := DefaultFeatureWeights()
	if w.InternKeyword == 0 {
		w.InternKeyword = def.InternKeyword
	}
	if w.StudentKeyword == 0 {
		w.StudentKeyword = def.StudentKeyword
	}
	if w.NoExperience == 0 {
		w.NoExperience = def.NoExperience
	}
	if w.Duration == 0 {
		w.Duration = def.Duration
	}
	if w.Salary == 0 {
		w.Salary = def.Salary
	}
	if w.ModerateLen == 0 {
		w.ModerateLen = def.ModerateLen
	}
}

// Moderate text length bounds for the length bonus.
const (
	moderateLenMin = 100
	moderateLenMax = 5000
)

// ExtractFeatures pulls the boolean and scalar signals out of preprocessed
// posting text.
func ExtractFeatures(text string) *domain.Features {
	return &domain.Features{
		HasInternKeyword:  len(internMatcher.Match([]byte(text))) > 0,
		HasStudentKeyword: len(studentMatcher.Match([]byte(text))) > 0,
		RequiresExp:       experiencePattern.MatchString(text),
		MentionsDuration:  durationPattern.MatchString(text),
		MentionsSalary:    salaryPattern.MatchString(text),
		TextLength:        len(text),
		WordCount:         len(strings.Fields(text)),
	}
}

// FeatureScore combines individual feature hits into a capped weighted sum
// in [0,1].
func FeatureScore(f *domain.Features, w FeatureWeights) float64 {
	var score float64
	if f.HasInternKeyword {
		score += w.InternKeyword
	}
	if f.HasStudentKeyword {
		score += w.StudentKeyword
	}
	if !f.RequiresExp {
		score += w.NoExperience
	}
	if f.MentionsDuration {
		score += w.Duration
	}
	if f.MentionsSalary {
		score += w.Salary
	}
	if f.TextLength >= moderateLenMin && f.TextLength <= moderateLenMax {
		score += w.ModerateLen
	}
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
