package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func setupTestServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	oldURL, oldDelay := apiURL, initialDelay
	apiURL = server.URL
	initialDelay = time.Millisecond
	t.Cleanup(func() {
		apiURL = oldURL
		initialDelay = oldDelay
		server.Close()
		config = nil
	})
	Init(&Config{APIKey: "test-key", Model: "test-model"})
}

func chatResponse(content string) ChatResponse {
	return ChatResponse{Choices: []Choice{{Message: ResponseMessage{Content: content}}}}
}

func TestAnalyzeSuccess(t *testing.T) {
	var gotAuth string
	var gotReq ChatRequest
	setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(chatResponse(wellFormedResponse))
	})

	a, err := Analyze(context.Background(), []byte("fake-png-bytes"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if a.Summary == "" {
		t.Error("expected non-empty summary")
	}
	if a.Question.Correct != 1 {
		t.Errorf("expected correct index 1, got %d", a.Question.Correct)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected Authorization header: %q", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("unexpected model: %q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || len(gotReq.Messages[0].Content) != 2 {
		t.Fatalf("expected one message with text + image content, got %+v", gotReq.Messages)
	}
	imageURL := gotReq.Messages[0].Content[1].ImageURL
	if imageURL == nil || !strings.HasPrefix(imageURL.URL, "data:image/png;base64,") {
		t.Errorf("expected base64 data URL, got %+v", imageURL)
	}
}

func TestAnalyzeAPIError(t *testing.T) {
	calls := 0
	setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(ChatResponse{
			Error: &APIError{Message: "model overloaded", Type: "server_error", Code: 503},
		})
	})

	_, err := Analyze(context.Background(), []byte("fake"))
	if err == nil {
		t.Fatal("expected error from API failure")
	}
	if calls != maxRetries {
		t.Errorf("expected %d attempts, got %d", maxRetries, calls)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Errorf("error should carry API message: %v", err)
	}
}

func TestAnalyzeRetriesThenSucceeds(t *testing.T) {
	calls := 0
	setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(chatResponse(wellFormedResponse))
	})

	a, err := Analyze(context.Background(), []byte("fake"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
	if len(a.Question.Options) != 4 {
		t.Errorf("expected 4 options, got %d", len(a.Question.Options))
	}
}

func TestAnalyzeContextCancelled(t *testing.T) {
	setupTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(chatResponse(wellFormedResponse))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Analyze(ctx, []byte("fake"))
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestAnalyzeNotInitialized(t *testing.T) {
	config = nil
	if _, err := Analyze(context.Background(), []byte("fake")); err == nil {
		t.Fatal("expected error when client not initialized")
	}
}
