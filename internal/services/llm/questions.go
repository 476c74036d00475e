package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Question is a single generated interview question.
type Question struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

const questionSystemPrompt = "You are a senior technical interviewer. " +
	"You write sharp, specific interview questions grounded in the candidate's background. " +
	"Respond with a numbered list of questions only, one per line, no preamble."

var categoryFocus = map[string]string{
	"fundamentals": "computer science and language fundamentals relevant to the candidate's stack",
	"project":      "the specific projects and systems described in the candidate's background",
	"scenario":     "realistic production scenarios the candidate would face in this role",
}

// GenerateQuestions produces count questions for each category, grounded in
// the candidate summary. Partial results are returned with an error when some
// categories fail, so callers can decide whether a short set is acceptable.
func (c *Client) GenerateQuestions(ctx context.Context, candidateSummary string, categories []string, count int) ([]Question, error) {
	candidateSummary = strings.TrimSpace(candidateSummary)
	if candidateSummary == "" {
		return nil, errors.New("llm questions: candidate summary required")
	}
	if len(categories) == 0 {
		return nil, errors.New("llm questions: no categories configured")
	}
	if count <= 0 {
		return nil, errors.New("llm questions: count must be positive")
	}

	var (
		questions []Question
		failures  []error
	)
	for _, category := range categories {
		content, err := c.Complete(ctx, questionSystemPrompt, buildQuestionPrompt(candidateSummary, category, count))
		if err != nil {
			failures = append(failures, fmt.Errorf("category %s: %w", category, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		parsed := ParseQuestionList(content)
		if len(parsed) == 0 {
			failures = append(failures, fmt.Errorf("category %s: no questions in response", category))
			continue
		}
		if len(parsed) > count {
			parsed = parsed[:count]
		}
		for _, text := range parsed {
			questions = append(questions, Question{Text: text, Category: category})
		}
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("llm questions: all categories failed: %w", errors.Join(failures...))
	}
	if len(failures) > 0 {
		return questions, fmt.Errorf("llm questions: partial result: %w", errors.Join(failures...))
	}
	return questions, nil
}

func buildQuestionPrompt(candidateSummary, category string, count int) string {
	focus := categoryFocus[category]
	if focus == "" {
		focus = category
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate background:\n%s\n\n", candidateSummary)
	fmt.Fprintf(&b, "Write exactly %d interview questions about %s.\n", count, focus)
	b.WriteString("Each question must be answerable verbally in a few minutes and must end with a question mark.")
	return b.String()
}

// ParseQuestionList extracts question lines from a model response. It strips
// numbering and bullet markers, keeps lines that read as questions, and
// deduplicates while preserving order.
func ParseQuestionList(content string) []string {
	var (
		questions []string
		seen      = map[string]struct{}{}
	)
	for _, line := range strings.Split(content, "\n") {
		question := stripListMarker(line)
		if question == "" || !looksLikeQuestion(question) {
			continue
		}
		key := strings.ToLower(question)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		questions = append(questions, question)
	}
	return questions
}

func stripListMarker(line string) string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "-*• \t")
	// Numbered prefixes: "1.", "2)", "10:".
	for i, r := range trimmed {
		if r >= '0' && r <= '9' {
			continue
		}
		if i > 0 && (r == '.' || r == ')' || r == ':') {
			trimmed = trimmed[i+1:]
		}
		break
	}
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.Trim(trimmed, "*_`")
	return strings.TrimSpace(trimmed)
}

func looksLikeQuestion(line string) bool {
	if len(line) < 8 {
		return false
	}
	return strings.HasSuffix(line, "?") || strings.HasSuffix(line, "？")
}
