package server_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"interviewer/internal/config"
)

func authedGet(t *testing.T, url, header string) (*http.Response, envelope) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func TestAPITokenRequired(t *testing.T) {
	ts := newTestServerWith(t, func(cfg *config.Config) {
		cfg.Paths.APIToken = "sesame"
	}, nil)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic sesame", http.StatusUnauthorized},
		{"wrong token", "Bearer open", http.StatusUnauthorized},
		{"valid token", "Bearer sesame", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := authedGet(t, ts.URL+"/api/status", tc.header)
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d (%+v)", resp.StatusCode, tc.want, env)
			}
			if tc.want == http.StatusUnauthorized && env.Success {
				t.Fatal("unauthorized response must not be marked successful")
			}
		})
	}
}

func TestEmptyTokenLeavesAPIOpen(t *testing.T) {
	ts := newTestServer(t)

	resp, env := authedGet(t, ts.URL+"/api/status", "")
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("open API rejected request: %d %+v", resp.StatusCode, env)
	}
}
