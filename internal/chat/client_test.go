package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDecodeFramedReply(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"framed", `12:"{\"responses\": [\"hi\"]}"`, "hi"},
		{"unframed", `"{\"responses\": [\"hello\"]}"`, "hello"},
		{"last element wins", `7:"{\"responses\": [\"thinking\", \"done\"]}"`, "done"},
		{"surrounding whitespace", "  3:\"{\\\"responses\\\": [\\\"ok\\\"]}\"\n", "ok"},
	}
	for _, tc := range cases {
		got, err := decodeFramedReply([]byte(tc.raw))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDecodeFramedReply_Errors(t *testing.T) {
	if _, err := decodeFramedReply([]byte(`5:"{\"responses\": []}"`)); !errors.Is(err, ErrEmptyReply) {
		t.Errorf("Expected ErrEmptyReply, got %v", err)
	}
	if _, err := decodeFramedReply([]byte(`not json at all`)); err == nil {
		t.Error("Expected a decode error for garbage input")
	}
}

func TestClient_StreamRequestShape(t *testing.T) {
	var captured struct {
		Input struct {
			Messages []string `json:"messages"`
		} `json:"input"`
		Config struct {
			Configurable map[string]string `json:"configurable"`
		} `json:"config"`
		Kwargs map[string]any `json:"kwargs"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/stream" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Body decode failed: %v", err)
		}
		w.Write([]byte(`12:"{\"responses\": [\"hi\"]}"`))
	}))
	defer server.Close()

	reply, err := NewClient(server.URL).Stream(context.Background(), "3", "teach", []string{"# Variables\n"})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
	if reply != "hi" {
		t.Errorf("Expected reply hi, got %q", reply)
	}
	if len(captured.Input.Messages) != 1 || captured.Input.Messages[0] != "# Variables\n" {
		t.Errorf("Unexpected messages: %v", captured.Input.Messages)
	}
	if captured.Config.Configurable["thread_id"] != "3" {
		t.Errorf("Unexpected thread_id: %v", captured.Config.Configurable)
	}
	if captured.Config.Configurable["task_type"] != "teach" {
		t.Errorf("Unexpected task_type: %v", captured.Config.Configurable)
	}
	if captured.Kwargs == nil {
		t.Error("kwargs must be present as an object")
	}
}

func TestClient_StreamOmitsTaskTypeForUserTurns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Config struct {
				Configurable map[string]string `json:"configurable"`
			} `json:"config"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if _, ok := body.Config.Configurable["task_type"]; ok {
			t.Error("Plain submissions must not carry a task_type")
		}
		w.Write([]byte(`4:"{\"responses\": [\"ok\"]}"`))
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).Stream(context.Background(), "0", "", []string{"hello"}); err != nil {
		t.Fatalf("Stream failed: %v", err)
	}
}

func TestClient_StreamServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := NewClient(server.URL).Stream(context.Background(), "0", "", []string{"hello"}); err == nil {
		t.Error("Expected an error on HTTP 500")
	}
}

func TestClient_ThreadIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/chat/get_thread_ids" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"thread_ids": ["0", "3", "7"]}`))
	}))
	defer server.Close()

	ids, err := NewClient(server.URL).ThreadIDs(context.Background())
	if err != nil {
		t.Fatalf("ThreadIDs failed: %v", err)
	}
	if len(ids) != 3 || ids[0] != "0" || ids[2] != "7" {
		t.Errorf("Unexpected ids: %v", ids)
	}
}

func TestClient_DeleteThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/chat/delete/3" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	if err := NewClient(server.URL).DeleteThread(context.Background(), "3"); err != nil {
		t.Fatalf("DeleteThread failed: %v", err)
	}
}

func TestClient_DeleteThreadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such thread", http.StatusNotFound)
	}))
	defer server.Close()

	if err := NewClient(server.URL).DeleteThread(context.Background(), "9"); err == nil {
		t.Error("Expected an error on HTTP 404")
	}
}
