package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ent0n29/hfchat/internal/config"
)

func TestBuildWiresChatEndToEnd(t *testing.T) {
	inference := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer k")
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"pong"}}]}`)
	}))
	defer inference.Close()

	cfg := config.Config{
		SessionInactivityTimeout: time.Minute,
		MetricsNamespace:         "test_app_" + time.Now().Format("150405") + "_" + time.Now().Format("000000000"),
		InferenceURL:             inference.URL,
		InferenceModel:           config.DefaultModel,
		MaxTokens:                config.DefaultMaxTokens,
		InferenceTimeout:         5 * time.Second,
	}
	built := Build(cfg, nil)
	defer built.Cleanup()

	if built.Completion.Model() != config.DefaultModel {
		t.Fatalf("Model() = %q, want %q", built.Completion.Model(), config.DefaultModel)
	}

	ts := httptest.NewServer(built.API.Router())
	defer ts.Close()
	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	put, _ := http.NewRequest(http.MethodPut, ts.URL+"/v1/chat/credential", bytes.NewReader([]byte(`{"credential":"k"}`)))
	res, err := client.Do(put)
	if err != nil {
		t.Fatalf("PUT credential error = %v", err)
	}
	res.Body.Close()

	res, err = client.Post(ts.URL+"/v1/chat/messages", "application/json", bytes.NewReader([]byte(`{"text":"ping"}`)))
	if err != nil {
		t.Fatalf("POST message error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	var body struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Reply != "pong" {
		t.Fatalf("reply = %q, want %q", body.Reply, "pong")
	}
	if built.Sessions.ActiveCount() != 1 {
		t.Fatalf("ActiveCount() = %d, want 1", built.Sessions.ActiveCount())
	}
}
