package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Evaluation runs cooler than question generation so repeated reviews of
// the same round score consistently.
const evaluationTemperature = 0.3

const evaluationSystemPrompt = "You are a professional technical interviewer reviewing a completed interview round. " +
	"Score objectively, keep comments specific, and respond with a single JSON object and nothing else."

// QA is one answered question handed to the model for evaluation.
type QA struct {
	Question string
	Answer   string
	Category string
}

// Evaluation is the model's structured assessment of a completed round.
type Evaluation struct {
	Summary     string           `json:"summary"`
	Suggestions string           `json:"suggestions"`
	Scores      EvaluationScores `json:"scores"`
	Questions   []QuestionReview `json:"questions"`
}

// EvaluationScores holds the five scored dimensions, each on a 1-10 scale.
type EvaluationScores struct {
	ContentCompleteness int `json:"content_completeness"`
	HighlightProminence int `json:"highlight_prominence"`
	LogicalClarity      int `json:"logical_clarity"`
	ExpressionAbility   int `json:"expression_ability"`
	PositionMatching    int `json:"position_matching"`
}

// Average returns the mean of the five dimension scores.
func (s EvaluationScores) Average() float64 {
	total := s.ContentCompleteness + s.HighlightProminence + s.LogicalClarity +
		s.ExpressionAbility + s.PositionMatching
	return float64(total) / 5
}

// QuestionReview is the model's per-question feedback.
type QuestionReview struct {
	QuestionIndex   int    `json:"question_index"`
	KeyPoints       string `json:"key_points"`
	Suggestions     string `json:"suggestions"`
	ReferenceAnswer string `json:"reference_answer"`
}

// EvaluateAnswers asks the model to review a completed round's answers and
// returns its structured evaluation.
func (c *Client) EvaluateAnswers(ctx context.Context, sessionName string, pairs []QA) (*Evaluation, error) {
	if len(pairs) == 0 {
		return nil, errors.New("llm evaluation: no answered questions")
	}
	if c.cfg.APIKey == "" {
		return nil, errors.New("llm evaluation: api key required")
	}
	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: evaluationSystemPrompt},
			{Role: "user", Content: buildEvaluationPrompt(sessionName, pairs)},
		},
		Temperature: evaluationTemperature,
	}
	content, err := c.completionContentWithRetry(ctx, payload, "llm evaluation")
	if err != nil {
		return nil, err
	}
	var evaluation Evaluation
	if err := DecodeLLMJSON(content, &evaluation); err != nil {
		return nil, fmt.Errorf("llm evaluation: %w", err)
	}
	return &evaluation, nil
}

func buildEvaluationPrompt(sessionName string, pairs []QA) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview session: %s\nTotal questions: %d\n\n", sessionName, len(pairs))
	for i, pair := range pairs {
		fmt.Fprintf(&b, "Question %d [%s]: %s\nAnswer: %s\n\n", i+1, pair.Category, pair.Question, pair.Answer)
	}
	b.WriteString(`Evaluate the candidate's performance across the full round.

Return this JSON structure:
{
  "summary": "overall assessment, 100-200 words",
  "suggestions": "concrete improvement advice, 100-200 words",
  "scores": {
    "content_completeness": 1-10,
    "highlight_prominence": 1-10,
    "logical_clarity": 1-10,
    "expression_ability": 1-10,
    "position_matching": 1-10
  },
  "questions": [
    {
      "question_index": 1,
      "key_points": "what the question tests",
      "suggestions": "how this answer could improve",
      "reference_answer": "a concise model answer"
    }
  ]
}

Include one questions entry per question, in order. Scores must be integers.`)
	return b.String()
}
