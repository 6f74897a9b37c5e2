package domain

import "testing"

func TestMessage_Kind(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want MessageKind
	}{
		{"plain", Message{Text: "hi"}, KindPlain},
		{"subtype", Message{SubType: "bot_message"}, KindBotReply},
		{"bot id only", Message{BotID: "B1"}, KindBotReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessage_FirstBlockText(t *testing.T) {
	if _, ok := (Message{}).FirstBlockText(); ok {
		t.Error("message without blocks should not report block text")
	}

	m := Message{Blocks: []ContentBlock{{Type: "context"}, {Type: "section", Text: "x"}}}
	if _, ok := m.FirstBlockText(); ok {
		t.Error("only the first block counts")
	}

	m = Message{Blocks: []ContentBlock{{Type: "section", Text: "hola"}}}
	text, ok := m.FirstBlockText()
	if !ok || text != "hola" {
		t.Errorf("FirstBlockText() = %q, %v", text, ok)
	}
}

func TestMessage_ThreadRoot(t *testing.T) {
	if got := (Message{Timestamp: "100.1"}).ThreadRoot(); got != "100.1" {
		t.Errorf("root message: got %s", got)
	}
	if got := (Message{Timestamp: "100.2", ThreadTimestamp: "100.1"}).ThreadRoot(); got != "100.1" {
		t.Errorf("thread reply: got %s", got)
	}
}

func TestReactionEvent_IsMessage(t *testing.T) {
	if !(ReactionEvent{Item: ItemRef{Type: "message"}}).IsMessage() {
		t.Error("message item should be eligible")
	}
	if (ReactionEvent{Item: ItemRef{Type: "file"}}).IsMessage() {
		t.Error("file item should not be eligible")
	}
}
