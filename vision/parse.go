package vision

import (
	"fmt"
	"regexp"
	"strings"
)

// Question is one multiple-choice question. Options are ordered A, B, C, D;
// Correct is the index of the marked answer, or -1 when the model did not
// mark one.
type Question struct {
	Prompt  string
	Options []string
	Correct int
}

// Analysis is the parsed result of one vision call.
type Analysis struct {
	Summary  string
	Question Question
	Raw      string
}

// Letter returns the display letter for an option index ("A".."D").
func Letter(i int) string {
	if i < 0 || i > 25 {
		return "?"
	}
	return string(rune('A' + i))
}

var (
	summaryMarkers = []string{"**summary:**", "summary:"}
	questionMarkers = []string{"**question:**", "**multiple choice question:**", "question:"}
	answerMarkers   = []string{"**correct answer:**", "correct answer:"}

	optionRe = regexp.MustCompile(`(?m)^\s*\*{0,2}([A-D])[\)\.:]\s*(.+?)\s*$`)

	// Standalone letter token, so "The answer is B" resolves to B and the A
	// in "answer" is never picked up.
	answerLetterRe = regexp.MustCompile(`\b([A-D])\b`)
)

// ParseAnalysis extracts the summary and question sections from the model's
// free-text response. Marker matching is case-insensitive and tolerant of
// missing bold markers; a response with no question section or fewer than
// two recognizable options is a parse failure.
func ParseAnalysis(text string) (Analysis, error) {
	lower := strings.ToLower(text)

	sumStart := findMarker(lower, summaryMarkers)
	questStart := findMarker(lower, questionMarkers)

	if questStart == -1 {
		return Analysis{}, fmt.Errorf("response missing question section")
	}

	var summary, questionBlock string
	switch {
	case sumStart != -1 && sumStart < questStart:
		summary = text[sumStart:markerIndex(lower, questionMarkers)]
		questionBlock = text[questStart:]
	case sumStart != -1:
		// Question came first; summary trails it
		questionBlock = text[questStart:markerIndex(lower, summaryMarkers)]
		summary = text[sumStart:]
	default:
		// No summary marker: use whatever precedes the question block
		summary = text[:markerIndex(lower, questionMarkers)]
		questionBlock = text[questStart:]
	}

	// Split off the correct-answer fragment from the question block
	answerFragment := ""
	blockLower := strings.ToLower(questionBlock)
	if aStart := findMarker(blockLower, answerMarkers); aStart != -1 {
		answerFragment = questionBlock[aStart:]
		questionBlock = questionBlock[:markerIndex(blockLower, answerMarkers)]
	}

	q, err := parseQuestion(questionBlock, answerFragment)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		Summary:  cleanSection(summary),
		Question: q,
		Raw:      text,
	}, nil
}

// findMarker returns the index just past the first marker found, or -1.
func findMarker(lower string, markers []string) int {
	for _, m := range markers {
		if idx := strings.Index(lower, m); idx != -1 {
			return idx + len(m)
		}
	}
	return -1
}

// markerIndex returns the index where the first found marker begins, or -1.
func markerIndex(lower string, markers []string) int {
	for _, m := range markers {
		if idx := strings.Index(lower, m); idx != -1 {
			return idx
		}
	}
	return -1
}

func parseQuestion(block, answerFragment string) (Question, error) {
	matches := optionRe.FindAllStringSubmatchIndex(block, -1)
	if len(matches) < 2 {
		return Question{}, fmt.Errorf("question has too few options (%d)", len(matches))
	}

	// Prompt is everything before the first option line
	prompt := cleanSection(block[:matches[0][0]])
	if prompt == "" {
		return Question{}, fmt.Errorf("question has no prompt text")
	}

	var options []string
	for _, m := range matches {
		options = append(options, cleanSection(block[m[4]:m[5]]))
		if len(options) == 4 {
			break
		}
	}

	correct := -1
	if answerFragment != "" {
		if m := answerLetterRe.FindStringSubmatch(strings.ToUpper(answerFragment)); m != nil {
			if idx := int(m[1][0] - 'A'); idx < len(options) {
				correct = idx
			}
		}
	}

	return Question{Prompt: prompt, Options: options, Correct: correct}, nil
}

func cleanSection(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*")
	return strings.TrimSpace(s)
}
