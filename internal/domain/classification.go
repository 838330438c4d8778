package domain

// Classification methods, from most to least capable.
const (
	MethodEnsemble  = "ensemble"
	MethodRuleBased = "rule-based"
)

// Features are the boolean and scalar signals extracted from posting text
// during classification. Kept on the result for diagnostics.
type Features struct {
	HasInternKeyword  bool `json:"has_intern_keyword"`
	HasStudentKeyword bool `json:"has_student_keyword"`
	RequiresExp       bool `json:"requires_experience"`
	MentionsDuration  bool `json:"mentions_duration"`
	MentionsSalary    bool `json:"mentions_salary"`
	TextLength        int  `json:"text_length"`
	WordCount         int  `json:"word_count"`
}

// Classification is the intern classifier's verdict on one posting.
type Classification struct {
	IsIntern        bool      `json:"is_intern"`
	Confidence      float64   `json:"confidence"`
	Method          string    `json:"method"`
	MatchedPatterns []string  `json:"matched_patterns,omitempty"`
	Features        *Features `json:"features,omitempty"`
}
