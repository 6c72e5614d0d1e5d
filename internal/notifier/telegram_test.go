package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"CoinTicker/internal/model"
)

type botServer struct {
	mu       sync.Mutex
	failures int
	sent     []map[string]string
	updates  string
}

func (b *botServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		switch {
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if !strings.HasPrefix(r.URL.Path, "/bottoken/") {
				t.Errorf("unexpected path %q", r.URL.Path)
			}
			if b.failures > 0 {
				b.failures--
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			var payload map[string]string
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			b.sent = append(b.sent, payload)
			w.Write([]byte(`{"ok":true}`))
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			w.Write([]byte(b.updates))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func newTestNotifier(t *testing.T, b *botServer) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("token", "42", "")
	n.APIBase = srv.URL
	return n
}

func TestSend(t *testing.T) {
	b := &botServer{}
	n := newTestNotifier(t, b)

	if err := n.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(b.sent))
	}
	if b.sent[0]["chat_id"] != "42" || b.sent[0]["text"] != "hello" || b.sent[0]["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload: %v", b.sent[0])
	}
}

func TestSendWithRetry_RecoversAfterFailures(t *testing.T) {
	b := &botServer{failures: 2}
	n := newTestNotifier(t, b)

	if err := n.SendWithRetry(context.Background(), "hi", 3, time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.sent) != 1 {
		t.Errorf("expected 1 delivered message, got %d", len(b.sent))
	}
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	b := &botServer{failures: 10}
	n := newTestNotifier(t, b)

	err := n.SendWithRetry(context.Background(), "hi", 1, time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "all 2 retries exhausted") {
		t.Fatalf("expected exhausted error, got %v", err)
	}
}

func TestRenderer_SendsFormattedSample(t *testing.T) {
	b := &botServer{}
	r := NewRenderer(newTestNotifier(t, b))
	r.Backoff = time.Millisecond

	s := model.PriceSample{Symbol: "XRP", PriceUSD: 0.52, Timestamp: time.Unix(0, 0)}
	if err := r.Render(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := b.sent[0]["text"]
	if !strings.HasPrefix(text, "<pre>") || !strings.Contains(text, "USD Price: $0.5200") {
		t.Errorf("unexpected message: %q", text)
	}
}

func TestPollOnce_DispatchesCommands(t *testing.T) {
	b := &botServer{updates: `{"ok":true,"result":[
		{"update_id":7,"message":{"text":" /price "}},
		{"update_id":8}
	]}`}
	n := newTestNotifier(t, b)

	var got []string
	next, err := n.pollOnce(context.Background(), n.Client, 0, func(cmd string) string {
		got = append(got, cmd)
		return "reply to " + cmd
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != 9 {
		t.Errorf("expected next offset 9, got %d", next)
	}
	if len(got) != 1 || got[0] != "/price" {
		t.Errorf("unexpected commands: %v", got)
	}
	if len(b.sent) != 1 || b.sent[0]["text"] != "reply to /price" {
		t.Errorf("unexpected replies: %v", b.sent)
	}
}
