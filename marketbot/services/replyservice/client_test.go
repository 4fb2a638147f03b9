package replyservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketbot/marketbot/utils/logging"
	"marketbot/marketbot/utils/types"
)

func sampleConvo() types.ConversationContext {
	return types.ConversationContext{
		ChatID:     "111",
		ClientName: "Maria",
		Listing:    "Bicicleta montaña",
		ChatName:   "Maria · Bicicleta montaña",
		Messages: []types.Message{
			{Text: "Hola, sigue disponible?", Sender: types.SenderBuyer},
		},
	}
}

func TestRequestReplySuccess(t *testing.T) {
	logging.InitLogger()

	var received types.ConversationContext
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Write([]byte(`{"response": ["a", "b"]}`))
	}))
	defer srv.Close()

	items := NewClient(nil, srv.URL).RequestReply(context.Background(), sampleConvo())
	if len(items) != 2 || items[0].Content != "a" || items[1].Content != "b" {
		t.Fatalf("got %+v", items)
	}
	if received.ChatID != "111" || received.ClientName != "Maria" || len(received.Messages) != 1 {
		t.Errorf("webhook payload = %+v", received)
	}
}

func TestRequestReplyBadStatus(t *testing.T) {
	logging.InitLogger()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	items := NewClient(nil, srv.URL).RequestReply(context.Background(), sampleConvo())
	if len(items) != 1 || items[0].Kind != types.ReplyKindText {
		t.Fatalf("got %+v", items)
	}
	if !strings.Contains(items[0].Content, "500") {
		t.Errorf("error reply should name the status, got %q", items[0].Content)
	}
}

func TestRequestReplyCancelled(t *testing.T) {
	logging.InitLogger()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	items := NewClient(nil, srv.URL).RequestReply(ctx, sampleConvo())
	if len(items) != 0 {
		t.Fatalf("cancelled request must yield nothing to deliver, got %+v", items)
	}
}

func TestRequestReplyUnreachable(t *testing.T) {
	logging.InitLogger()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	items := NewClient(nil, srv.URL).RequestReply(context.Background(), sampleConvo())
	if len(items) != 1 || items[0].Kind != types.ReplyKindText || items[0].Content == "" {
		t.Fatalf("got %+v", items)
	}
}
