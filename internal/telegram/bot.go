package telegram

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-dealer-jobwatch/internal/pipeline"
)

// maxAgedListed keeps the message under Telegram's 4096 character limit
const maxAgedListed = 20

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init telegram bot")
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

var markdownReplacer = strings.NewReplacer(
	"\\", "\\\\", "_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

//inside (...) of a link only these two need escaping
var linkReplacer = strings.NewReplacer("\\", "\\\\", ")", "\\)")

func escapeMarkdown(text string) string {
	return markdownReplacer.Replace(text)
}

// FormatRunReport renders run counts and the oldest aged postings as MarkdownV2
func FormatRunReport(res *pipeline.Result) string {
	var b strings.Builder
	st := res.Stats
	fmt.Fprintf(&b, "📊 *Job watch run* %s\n", escapeMarkdown(res.RunAt.Format("2006-01-02 15:04 UTC")))
	fmt.Fprintf(&b, "🏢 Sources: %d \\(%d failed\\)\n", st.Sources, st.FailedSources)
	fmt.Fprintf(&b, "📦 Postings: %d unique, %d new, %d rejected\n", st.Unique, st.New, st.Rejected)
	fmt.Fprintf(&b, "🗂 Tracked: %d\n", st.Tracked)

	if len(res.Aged) == 0 {
		b.WriteString("✅ No aged postings\n")
		return b.String()
	}
	fmt.Fprintf(&b, "\n⏳ *Aged postings* \\(%d\\)\n", len(res.Aged))
	for i, a := range res.Aged {
		if i == maxAgedListed {
			fmt.Fprintf(&b, "…and %d more\n", len(res.Aged)-maxAgedListed)
			break
		}
		line := fmt.Sprintf("%dd · %s · %s", a.AgeDays, a.Company, a.Title)
		if a.Location != "" {
			line += " · " + a.Location
		}
		if a.URL != "" {
			fmt.Fprintf(&b, "• [%s](%s)\n", escapeMarkdown(line), linkReplacer.Replace(a.URL))
		} else {
			fmt.Fprintf(&b, "• %s\n", escapeMarkdown(line))
		}
	}
	return b.String()
}

func (b *Bot) SendRunReport(res *pipeline.Result) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatRunReport(res))
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Job watch run failed: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}
