package telegram

import (
	"context"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"avbot/api/internal/i18n"
	"avbot/api/internal/plate"
	"avbot/api/internal/plate/formats"
	"avbot/api/internal/store"
	"avbot/api/internal/worker"
)

// BotAPI - часть *tgbotapi.BotAPI, которой пользуется бот.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Users interface {
	Ensure(ctx context.Context, u store.User) (store.User, error)
}

type Queries interface {
	Create(ctx context.Context, userID int64, text, numType string) (int64, error)
	AddPageView(ctx context.Context, queryID int64, page int) error
}

type Submitter interface {
	Submit(ctx context.Context, job worker.Job) (worker.Job, error)
}

// PlateReader читает номер с фотографии (опционально).
type PlateReader interface {
	ReadPlate(ctx context.Context, image []byte, mime string) (string, error)
}

type Router struct {
	Bot      BotAPI
	Registry *plate.Registry
	Users    Users
	Queries  Queries
	Jobs     Submitter
	Reader   PlateReader
	Log      zerolog.Logger
	HTTP     *http.Client
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(ctx, upd.CallbackQuery)
		return
	}
	msg := upd.Message
	if msg == nil {
		return
	}
	lang := langOf(msg.From)

	switch {
	case msg.IsCommand():
		r.HandleCommand(ctx, msg, lang)
	case len(msg.Photo) > 0:
		r.acceptPhoto(ctx, msg, lang)
	case strings.TrimSpace(msg.Text) != "":
		r.handleText(ctx, msg.Chat.ID, msg.MessageID, msg.From, msg.Text, lang)
	}
}

func (r *Router) HandleCommand(ctx context.Context, msg *tgbotapi.Message, lang string) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start":
		if _, err := r.Users.Ensure(ctx, userOf(cid, msg.From)); err != nil {
			r.Log.Error().Err(err).Int64("chat_id", cid).Msg("ensure user")
		}
		r.sendMarkdown(cid, 0, i18n.T(lang, "Bot for searching plate photos on platesmania.com.")+"\n\n"+r.helpText(lang))
	case "help":
		r.sendMarkdown(cid, 0, r.helpText(lang))
	default:
		r.sendNotUnderstood(cid, msg.MessageID, lang)
	}
}

// helpText перечисляет форматы по странам с примерами.
func (r *Router) helpText(lang string) string {
	var b strings.Builder
	b.WriteString(i18n.T(lang, "Send a plate number to search. Supported formats:"))
	for _, country := range r.Registry.Countries() {
		b.WriteString("\n\n*")
		b.WriteString(formats.CountryName(country, lang))
		b.WriteString("*")
		for _, f := range r.Registry.ByCountry(country) {
			b.WriteString("\n`")
			b.WriteString(f.Example)
			b.WriteString("` - ")
			b.WriteString(i18n.T(lang, f.Description))
		}
	}
	return b.String()
}

func (r *Router) send(chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	if _, err := r.Bot.Send(msg); err != nil {
		r.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

func (r *Router) sendMarkdown(chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if _, err := r.Bot.Send(msg); err != nil {
		r.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

func (r *Router) httpClient() *http.Client {
	if r.HTTP != nil {
		return r.HTTP
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func langOf(u *tgbotapi.User) string {
	if u == nil {
		return i18n.Match("")
	}
	return i18n.Match(u.LanguageCode)
}

func userOf(chatID int64, u *tgbotapi.User) store.User {
	if u == nil {
		return store.User{TelegramID: chatID}
	}
	return store.User{
		TelegramID:   u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.UserName,
		LanguageCode: u.LanguageCode,
	}
}
