package domain

// ItemMessage is the only reacted item kind the pipeline processes.
const ItemMessage = "message"

// ReactionEvent is a reaction_added event reduced to what the pipeline needs.
type ReactionEvent struct {
	Reaction string // emoji short-code without colons, e.g. "flag-jp"
	User     string
	Item     ItemRef
}

// ItemRef identifies the item a reaction was added to.
type ItemRef struct {
	Type      string // "message", "file", "file_comment"
	Channel   string
	Timestamp string
}

// IsMessage reports whether the reaction targets a message.
func (e ReactionEvent) IsMessage() bool {
	return e.Item.Type == ItemMessage
}

// MessageKind distinguishes original posts from bot-generated replies.
type MessageKind int

const (
	KindPlain MessageKind = iota
	KindBotReply
)

func (k MessageKind) String() string {
	if k == KindBotReply {
		return "bot_reply"
	}
	return "plain"
}

// Message is a single entry of a conversation thread.
type Message struct {
	Text            string
	Timestamp       string
	ThreadTimestamp string // empty when the message is not part of a thread
	SubType         string
	BotID           string
	Blocks          []ContentBlock
}

// ContentBlock is a typed fragment of structured message content.
// Text is empty for blocks that carry no top-level text (context, divider, ...).
type ContentBlock struct {
	Type string
	Text string
}

// Kind classifies the message. Anything carrying a sub-type or a bot ID
// was not written by a human as an original post.
func (m Message) Kind() MessageKind {
	if m.SubType != "" || m.BotID != "" {
		return KindBotReply
	}
	return KindPlain
}

// FirstBlockText returns the text of the first content block. ok is false
// when the message has no blocks or the first block has no text.
func (m Message) FirstBlockText() (text string, ok bool) {
	if len(m.Blocks) == 0 {
		return "", false
	}
	b := m.Blocks[0]
	if b.Text == "" {
		return "", false
	}
	return b.Text, true
}

// ThreadRoot returns the timestamp replies to this message must use.
func (m Message) ThreadRoot() string {
	if m.ThreadTimestamp != "" {
		return m.ThreadTimestamp
	}
	return m.Timestamp
}

// Reply is an outbound threaded message.
type Reply struct {
	Channel  string
	ThreadTS string
	Text     string // notification fallback text
	Body     string // primary section block (mrkdwn)
	Context  string // context block attribution (mrkdwn)
}
