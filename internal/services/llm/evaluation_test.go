package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleEvaluationJSON = `{
  "summary": "Solid fundamentals, thin on production detail.",
  "suggestions": "Quantify outcomes and walk through failure handling.",
  "scores": {
    "content_completeness": 8,
    "highlight_prominence": 6,
    "logical_clarity": 7,
    "expression_ability": 7,
    "position_matching": 8
  },
  "questions": [
    {
      "question_index": 1,
      "key_points": "index selection",
      "suggestions": "mention covering indexes",
      "reference_answer": "Use a composite index matching the filter order."
    }
  ]
}`

func TestEvaluateAnswers(t *testing.T) {
	var req chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(questionPayload(sampleEvaluationJSON))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	evaluation, err := client.EvaluateAnswers(context.Background(), "Session 1", []QA{
		{Question: "How do you pick an index?", Answer: "Match the where clause.", Category: "fundamentals"},
	})
	if err != nil {
		t.Fatalf("EvaluateAnswers returned error: %v", err)
	}

	if req.Temperature != evaluationTemperature {
		t.Fatalf("temperature = %v, want %v", req.Temperature, evaluationTemperature)
	}
	if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "How do you pick an index?") {
		t.Fatalf("question missing from prompt: %+v", req.Messages)
	}
	if evaluation.Scores.ContentCompleteness != 8 {
		t.Fatalf("content completeness = %d", evaluation.Scores.ContentCompleteness)
	}
	if got := evaluation.Scores.Average(); got != 7.2 {
		t.Fatalf("average = %v, want 7.2", got)
	}
	if len(evaluation.Questions) != 1 || evaluation.Questions[0].KeyPoints != "index selection" {
		t.Fatalf("unexpected question reviews: %+v", evaluation.Questions)
	}
}

func TestEvaluateAnswersStripsCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fenced := "```json\n" + sampleEvaluationJSON + "\n```"
		_ = json.NewEncoder(w).Encode(questionPayload(fenced))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo"})
	evaluation, err := client.EvaluateAnswers(context.Background(), "Session 1", []QA{
		{Question: "Q?", Answer: "A.", Category: "project"},
	})
	if err != nil {
		t.Fatalf("EvaluateAnswers returned error: %v", err)
	}
	if evaluation.Summary == "" || evaluation.Scores.PositionMatching != 8 {
		t.Fatalf("fenced payload not decoded: %+v", evaluation)
	}
}

func TestEvaluateAnswersRequiresPairs(t *testing.T) {
	client := NewClient(Config{APIKey: "test", Model: "demo"})
	if _, err := client.EvaluateAnswers(context.Background(), "Session 1", nil); err == nil {
		t.Fatal("expected error for empty question list")
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"bare object", `{"k":"v"}`, false},
		{"fenced object", "```json\n{\"k\":\"v\"}\n```", false},
		{"fence without language", "```\n{\"k\":\"v\"}\n```", false},
		{"prose around object", "Here is the result: {\"k\":\"v\"} as requested.", false},
		{"empty", "", true},
		{"no json at all", "I cannot answer that.", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out map[string]string
			err := DecodeLLMJSON(tc.payload, &out)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected decode error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if out["k"] != "v" {
				t.Fatalf("decoded %v", out)
			}
		})
	}
}
