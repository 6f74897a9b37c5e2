package slackapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"emojitranslator/internal/domain"

	"github.com/slack-go/slack"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

const repliesFixture = `{
  "ok": true,
  "has_more": false,
  "messages": [
    {"type": "message", "user": "U1", "text": "Hello", "ts": "100.1", "thread_ts": "100.1"},
    {"type": "message", "subtype": "bot_message", "bot_id": "B1", "text": "_Here is a translation to_ :jp: _(ja)_",
     "ts": "100.2", "thread_ts": "100.1",
     "blocks": [
       {"type": "section", "text": {"type": "mrkdwn", "text": "こんにちは"}},
       {"type": "context", "elements": [{"type": "mrkdwn", "text": "A translation"}]}
     ]},
    {"type": "message", "subtype": "bot_message", "bot_id": "B2", "text": "legacy", "ts": "100.3", "thread_ts": "100.1"}
  ]
}`

// fakeSlackServer serves the Web API methods the client calls.
func fakeSlackServer(t *testing.T, record func(method string, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		method := strings.TrimPrefix(r.URL.Path, "/")
		if record != nil {
			record(method, r)
		}
		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "conversations.replies":
			w.Write([]byte(repliesFixture))
		case "chat.postMessage":
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": r.FormValue("channel"), "ts": "200.1"})
		case "auth.test":
			json.NewEncoder(w).Encode(map[string]any{"ok": true, "user": "translator", "team": "acme", "user_id": "U0"})
		default:
			json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "unknown_method"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server, limit int) *Client {
	return NewFromToken("xoxb-test", Config{FetchLimit: limit, Logger: testLogger()}, slack.OptionAPIURL(srv.URL+"/"))
}

func TestRepliesInThread(t *testing.T) {
	var form map[string]string
	srv := fakeSlackServer(t, func(method string, r *http.Request) {
		if method == "conversations.replies" {
			form = map[string]string{
				"channel":   r.FormValue("channel"),
				"ts":        r.FormValue("ts"),
				"limit":     r.FormValue("limit"),
				"inclusive": r.FormValue("inclusive"),
			}
		}
	})
	c := newTestClient(srv, 5)

	msgs, err := c.RepliesInThread(context.Background(), "C1", "100.1")
	if err != nil {
		t.Fatalf("RepliesInThread: %v", err)
	}
	if form["channel"] != "C1" || form["ts"] != "100.1" || form["limit"] != "5" {
		t.Errorf("unexpected request params: %v", form)
	}
	if form["inclusive"] != "true" && form["inclusive"] != "1" {
		t.Errorf("expected inclusive fetch, got %q", form["inclusive"])
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}

	if msgs[0].Kind() != domain.KindPlain || msgs[0].Text != "Hello" || msgs[0].ThreadRoot() != "100.1" {
		t.Errorf("unexpected original: %+v", msgs[0])
	}
	reply := msgs[1]
	if reply.Kind() != domain.KindBotReply {
		t.Error("bot message should be a bot reply")
	}
	if text, ok := reply.FirstBlockText(); !ok || text != "こんにちは" {
		t.Errorf("FirstBlockText() = %q, %v", text, ok)
	}
	if len(reply.Blocks) != 2 || reply.Blocks[1].Type != "context" {
		t.Errorf("unexpected blocks: %+v", reply.Blocks)
	}
	if _, ok := msgs[2].FirstBlockText(); ok {
		t.Error("legacy bot message has no blocks")
	}
}

func TestRepliesInThread_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": false, "error": "channel_not_found"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv, 0)
	if _, err := c.RepliesInThread(context.Background(), "C404", "1.0"); err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("expected channel_not_found error, got %v", err)
	}
}

func TestRepliesInThread_ReplyBeyondFirstPage(t *testing.T) {
	var calls []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		calls = append(calls, r.Form)
		w.Header().Set("Content-Type", "application/json")
		if r.FormValue("oldest") != "" {
			w.Write([]byte(`{"ok": true, "messages": [
				{"type": "message", "user": "U1", "text": "Late reply", "ts": "100.9", "thread_ts": "100.1"}
			]}`))
			return
		}
		w.Write([]byte(repliesFixture))
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(srv, 3)

	msgs, err := c.RepliesInThread(context.Background(), "C1", "100.9")
	if err != nil {
		t.Fatalf("RepliesInThread: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected a second exact fetch, got %d calls", len(calls))
	}
	exact := calls[1]
	if exact.Get("oldest") != "100.9" || exact.Get("latest") != "100.9" || exact.Get("limit") != "1" {
		t.Errorf("unexpected exact fetch params: %v", exact)
	}
	if len(msgs) != 4 || msgs[0].Timestamp != "100.9" || msgs[0].Text != "Late reply" {
		t.Fatalf("reacted message should lead the result, got %+v", msgs)
	}
	if msgs[1].Timestamp != "100.1" {
		t.Errorf("page should follow the reacted message, got %s", msgs[1].Timestamp)
	}
}

func TestRepliesInThread_SingleFetchWhenOnPage(t *testing.T) {
	calls := 0
	srv := fakeSlackServer(t, func(method string, r *http.Request) { calls++ })
	c := newTestClient(srv, 10)

	if _, err := c.RepliesInThread(context.Background(), "C1", "100.2"); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestPostReply(t *testing.T) {
	var form url.Values
	srv := fakeSlackServer(t, func(method string, r *http.Request) {
		if method == "chat.postMessage" {
			form = r.Form
		}
	})
	c := newTestClient(srv, 0)

	ts, err := c.PostReply(context.Background(), domain.Reply{
		Channel:  "C1",
		ThreadTS: "100.1",
		Text:     "_Here is a translation to_ :jp: _(ja)_",
		Body:     "こんにちは",
		Context:  "A translation of the original message to :jp: _(ja)_",
	})
	if err != nil {
		t.Fatalf("PostReply: %v", err)
	}
	if ts != "200.1" {
		t.Errorf("ts = %s", ts)
	}
	if form.Get("thread_ts") != "100.1" {
		t.Errorf("thread_ts = %q", form.Get("thread_ts"))
	}
	if form.Get("text") != "_Here is a translation to_ :jp: _(ja)_" {
		t.Errorf("text = %q", form.Get("text"))
	}

	var blocks []map[string]any
	if err := json.Unmarshal([]byte(form.Get("blocks")), &blocks); err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if len(blocks) != 2 || blocks[0]["type"] != "section" || blocks[1]["type"] != "context" {
		t.Fatalf("unexpected blocks: %v", blocks)
	}
}

func TestAuthTest(t *testing.T) {
	c := newTestClient(fakeSlackServer(t, nil), 0)
	user, team, err := c.AuthTest(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if user != "translator" || team != "acme" {
		t.Errorf("got %s/%s", user, team)
	}
}

func TestReplyBlocks_SplitsLongBody(t *testing.T) {
	body := strings.Repeat("語", 2000) // 6000 bytes
	blocks := ReplyBlocks(domain.Reply{Body: body, Context: "ctx"})
	if len(blocks) < 3 {
		t.Fatalf("expected at least 2 sections and a context block, got %d", len(blocks))
	}
	var joined strings.Builder
	for _, b := range blocks[:len(blocks)-1] {
		s, ok := b.(*slack.SectionBlock)
		if !ok {
			t.Fatalf("expected section, got %T", b)
		}
		if len(s.Text.Text) > sectionTextLimit {
			t.Errorf("section too long: %d", len(s.Text.Text))
		}
		if !utf8.ValidString(s.Text.Text) {
			t.Error("section split inside a rune")
		}
		joined.WriteString(s.Text.Text)
	}
	if joined.String() != body {
		t.Error("split lost content")
	}
	if _, ok := blocks[len(blocks)-1].(*slack.ContextBlock); !ok {
		t.Errorf("last block should be context, got %T", blocks[len(blocks)-1])
	}
}
