// Package slackapi adapts the Slack Web API to the pipeline's reader and poster.
package slackapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"emojitranslator/internal/domain"
	"emojitranslator/internal/metrics"

	"github.com/slack-go/slack"
)

const (
	// DefaultFetchLimit bounds conversations.replies to one page.
	DefaultFetchLimit = 100
	// sectionTextLimit is Slack's maximum text length for a section block.
	sectionTextLimit = 3000
)

// API is the subset of *slack.Client used here.
type API interface {
	GetConversationRepliesContext(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}

// Config configures the Slack client adapter.
type Config struct {
	FetchLimit int
	// RateLimitPerMinute caps conversations.replies calls and turns on the
	// per-channel post limit and Retry-After handling. Zero disables both.
	RateLimitPerMinute int
	Logger             *slog.Logger
}

// Client implements domain.ThreadReader and domain.MessagePoster.
type Client struct {
	api        API
	fetchLimit int
	limiter    *RateLimiter
	logger     *slog.Logger
}

// New wraps a Slack API client.
func New(api API, cfg Config) *Client {
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = DefaultFetchLimit
	}
	c := &Client{
		api:        api,
		fetchLimit: cfg.FetchLimit,
		logger:     cfg.Logger,
	}
	if cfg.RateLimitPerMinute > 0 {
		c.limiter = NewRateLimiter(cfg.RateLimitPerMinute)
	}
	return c
}

// call runs fn under the limiter bucket key. A 429 pauses the limiter for
// Slack's Retry-After and fn is tried once more.
func (c *Client) call(ctx context.Context, method, key string, fn func() error) error {
	if c.limiter == nil {
		err := fn()
		metrics.IncSlackCall(method, err)
		return err
	}
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx, key); err != nil {
			return err
		}
		err := fn()
		metrics.IncSlackCall(method, err)

		var limited *slack.RateLimitedError
		if attempt > 0 || !errors.As(err, &limited) {
			return err
		}
		c.logger.Warn("slack rate limited", "method", method, "retry_after", limited.RetryAfter)
		c.limiter.Pause(limited.RetryAfter)
	}
}

// NewFromToken builds a Client around slack.New for the given bot token.
func NewFromToken(botToken string, cfg Config, opts ...slack.Option) *Client {
	return New(slack.New(botToken, opts...), cfg)
}

// RepliesInThread fetches one page of the thread containing ts. When ts is a
// reply beyond that page, the reacted message is fetched on its own and put
// first, so callers always find it in the result.
func (c *Client) RepliesInThread(ctx context.Context, channel, ts string) ([]domain.Message, error) {
	msgs, err := c.replies(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channel,
		Timestamp: ts,
		Limit:     c.fetchLimit,
		Inclusive: true,
	})
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 || containsTS(msgs, ts) {
		return msgs, nil
	}

	exact, err := c.replies(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: channel,
		Timestamp: ts,
		Oldest:    ts,
		Latest:    ts,
		Limit:     1,
		Inclusive: true,
	})
	if err != nil {
		return nil, err
	}
	for _, m := range exact {
		if m.Timestamp == ts {
			c.logger.Debug("reacted message beyond first page", "channel", channel, "ts", ts, "page", len(msgs))
			return append([]domain.Message{m}, msgs...), nil
		}
	}
	return msgs, nil
}

func (c *Client) replies(ctx context.Context, params *slack.GetConversationRepliesParameters) ([]domain.Message, error) {
	var msgs []slack.Message
	err := c.call(ctx, "conversations.replies", "conversations.replies", func() (err error) {
		msgs, _, _, err = c.api.GetConversationRepliesContext(ctx, params)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("conversations.replies %s/%s: %w", params.ChannelID, params.Timestamp, err)
	}

	out := make([]domain.Message, 0, len(msgs))
	for i := range msgs {
		out = append(out, convertMessage(&msgs[i]))
	}
	return out, nil
}

func containsTS(msgs []domain.Message, ts string) bool {
	for _, m := range msgs {
		if m.Timestamp == ts {
			return true
		}
	}
	return false
}

// PostReply posts a threaded reply and returns its timestamp.
func (c *Client) PostReply(ctx context.Context, reply domain.Reply) (string, error) {
	var ts string
	err := c.call(ctx, "chat.postMessage", postKey(reply.Channel), func() (err error) {
		_, ts, err = c.api.PostMessageContext(ctx, reply.Channel,
			slack.MsgOptionText(reply.Text, false),
			slack.MsgOptionBlocks(ReplyBlocks(reply)...),
			slack.MsgOptionTS(reply.ThreadTS),
		)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("chat.postMessage %s: %w", reply.Channel, err)
	}
	c.logger.Debug("slack reply posted", "channel", reply.Channel, "thread_ts", reply.ThreadTS, "ts", ts)
	return ts, nil
}

// AuthTest verifies the bot token and returns the bot user and team names.
func (c *Client) AuthTest(ctx context.Context) (user, team string, err error) {
	resp, err := c.api.AuthTestContext(ctx)
	metrics.IncSlackCall("auth.test", err)
	if err != nil {
		return "", "", fmt.Errorf("slack auth: %w", err)
	}
	return resp.User, resp.Team, nil
}

// ReplyBlocks renders a reply as a mrkdwn section followed by a context block.
// Bodies longer than a section allows are split across several sections.
func ReplyBlocks(reply domain.Reply) []slack.Block {
	var blocks []slack.Block
	for _, chunk := range splitSection(reply.Body, sectionTextLimit) {
		text := slack.NewTextBlockObject(slack.MarkdownType, chunk, false, false)
		blocks = append(blocks, slack.NewSectionBlock(text, nil, nil))
	}
	if reply.Context != "" {
		ctxText := slack.NewTextBlockObject(slack.MarkdownType, reply.Context, false, false)
		blocks = append(blocks, slack.NewContextBlock("", ctxText))
	}
	return blocks
}

func convertMessage(msg *slack.Message) domain.Message {
	m := domain.Message{
		Text:            msg.Text,
		Timestamp:       msg.Timestamp,
		ThreadTimestamp: msg.ThreadTimestamp,
		SubType:         msg.SubType,
		BotID:           msg.BotID,
	}
	for _, b := range msg.Blocks.BlockSet {
		m.Blocks = append(m.Blocks, domain.ContentBlock{
			Type: string(b.BlockType()),
			Text: blockText(b),
		})
	}
	return m
}

// blockText extracts the top-level text of blocks that carry one.
func blockText(b slack.Block) string {
	switch v := b.(type) {
	case *slack.SectionBlock:
		if v.Text != nil {
			return v.Text.Text
		}
	case *slack.HeaderBlock:
		if v.Text != nil {
			return v.Text.Text
		}
	}
	return ""
}

func splitSection(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}
		cut := maxLen
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/2 {
			cut = idx + 1
		} else {
			// Do not split inside a multi-byte rune.
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	return chunks
}
