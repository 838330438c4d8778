package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercases", "Thực Tập Sinh IT", "thực tập sinh it"},
		{"strips punctuation", "intern (backend), salary: $500!", "intern backend salary 500"},
		{"collapses whitespace", "  nhiều   khoảng \n trắng ", "nhiều khoảng trắng"},
		{"keeps vietnamese diacritics", "Sinh viên năm cuối", "sinh viên năm cuối"},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Preprocess(tc.in))
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Tiêu đề", firstLine("Tiêu đề\nMô tả công việc"))
	assert.Equal(t, "Tiêu đề", firstLine("\n\n  Tiêu đề  \nMô tả"))
	assert.Equal(t, "", firstLine("\n \n"))
}

func TestExtractFeatures(t *testing.T) {
	text := Preprocess("Thực tập sinh IT, sinh viên năm 3, thời gian 3 tháng, trợ cấp 3 triệu")
	f := ExtractFeatures(text)

	assert.True(t, f.HasInternKeyword)
	assert.True(t, f.HasStudentKeyword)
	assert.False(t, f.RequiresExp)
	assert.True(t, f.MentionsDuration)
	assert.True(t, f.MentionsSalary)
	assert.Positive(t, f.WordCount)
	assert.Equal(t, len(text), f.TextLength)

	f = ExtractFeatures(Preprocess("Senior developer, 5 năm kinh nghiệm"))
	assert.False(t, f.HasInternKeyword)
	assert.False(t, f.HasStudentKeyword)
	assert.True(t, f.RequiresExp)
}

func TestFeatureScore(t *testing.T) {
	w := DefaultFeatureWeights()

	// Every signal on, moderate length: capped at 1 is not reached with
	// the default weights, so the sum is exact.
	text := Preprocess("Thực tập sinh " + strings.Repeat("sinh viên 3 tháng trợ cấp ", 10))
	f := ExtractFeatures(text)
	score := FeatureScore(f, w)
	assert.InDelta(t, 0.3+0.2+0.1+0.1+0.05+0.05, score, 1e-9)

	// Empty text still earns the no-experience weight and nothing else.
	f = ExtractFeatures("")
	assert.InDelta(t, w.NoExperience, FeatureScore(f, w), 1e-9)
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, clamp01(-0.5))
	assert.Equal(t, 0.4, clamp01(0.4))
	assert.Equal(t, 1.0, clamp01(1.7))
}
