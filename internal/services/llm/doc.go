// Package llm provides an OpenAI-compatible chat client for interview
// question generation.
//
// # Generation Logic
//
// The client sends the candidate's résumé summary to a configured chat model
// with one prompt per question category and parses the numbered question list
// from the response. Parsed questions are deduplicated and truncated to the
// configured per-category count.
//
// # Configuration
//
// Requires api_key and model, and optionally base_url and timeout. The
// default base URL targets the DashScope compatible-mode endpoint, but any
// chat-completions server works.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.Complete: send system/user prompts, receive text response.
// Client.GenerateQuestions: produce a category-tagged question set.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors and network timeouts with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default).
// Context cancellation aborts retries immediately.
package llm
