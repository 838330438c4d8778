package classifier

import (
	"errors"
	"math"
	"strings"
)

// ErrNotTrained is returned when the bag-of-words classifier is asked to
// classify before Train has been called.
var ErrNotTrained = errors.New("bag-of-words classifier not trained")

// seedExamples is the fixed labeled seed set the statistical layer trains
// on. Positives are internship phrasings; negatives are senior-title
// phrasings the pipeline must reject.
var seedExamples = []struct {
	text     string
	isIntern bool
}{
	{"tuyển thực tập sinh lập trình", true},
	{"thực tập sinh marketing không yêu cầu kinh nghiệm", true},
	{"internship program for students", true},
	{"software engineering intern summer", true},
	{"trainee developer fresher chấp nhận sinh viên năm cuối", true},
	{"tìm thực tập sinh thiết kế đồ họa part time", true},
	{"intern backend developer có trợ cấp", true},
	{"chương trình thực tập dành cho sinh viên mới tốt nghiệp", true},
	{"senior software engineer 5 years experience", false},
	{"tech lead quản lý team 10 người", false},
	{"engineering manager leadership required", false},
	{"solution architect enterprise systems", false},
	{"staff engineer distributed systems expert", false},
	{"trưởng phòng kỹ thuật kinh nghiệm 7 năm", false},
	{"principal engineer own the roadmap", false},
	{"chuyên viên cao cấp yêu cầu 5 năm kinh nghiệm", false},
}

// BagOfWords is a multinomial naive Bayes text classifier with Laplace
// smoothing, trained once on the seed set at initialization.
type BagOfWords struct {
	wordCounts map[bool]map[string]int
	totalWords map[bool]int
	docCounts  map[bool]int
	totalDocs  int
	vocab      map[string]struct{}
	trained    bool
}

// NewBagOfWords creates an untrained classifier.
func NewBagOfWords() *BagOfWords {
	return &BagOfWords{
		wordCounts: map[bool]map[string]int{true: {}, false: {}},
		totalWords: map[bool]int{},
		docCounts:  map[bool]int{},
		vocab:      map[string]struct{}{},
	}
}

// Train fits the classifier on the fixed seed set.
func (b *BagOfWords) Train() {
	for _, ex := range seedExamples {
		b.addExample(Preprocess(ex.text), ex.isIntern)
	}
	b.trained = true
}

func (b *BagOfWords) addExample(text string, label bool) {
	b.docCounts[label]++
	b.totalDocs++
	for _, word := range strings.Fields(text) {
		b.wordCounts[label][word]++
		b.totalWords[label]++
		b.vocab[word] = struct{}{}
	}
}

// Classify returns the more likely label for preprocessed text.
func (b *BagOfWords) Classify(text string) (bool, error) {
	if !b.trained {
		return false, ErrNotTrained
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return false, nil
	}

	posterior := map[bool]float64{}
	for _, label := range []bool{true, false} {
		// Log prior plus log likelihood with Laplace smoothing.
		score := math.Log(float64(b.docCounts[label]) / float64(b.totalDocs))
		denom := float64(b.totalWords[label] + len(b.vocab))
		for _, word := range words {
			count := float64(b.wordCounts[label][word] + 1)
			score += math.Log(count / denom)
		}
		posterior[label] = score
	}

	return posterior[true] > posterior[false], nil
}
