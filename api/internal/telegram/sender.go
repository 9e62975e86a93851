package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"avbot/api/internal/carousel"
	"avbot/api/internal/lookup"
)

// Sender доставляет ответы поиска в Telegram (lookup.Deliverer).
type Sender struct {
	Bot BotAPI
}

func NewSender(bot BotAPI) *Sender { return &Sender{Bot: bot} }

func (s *Sender) SendText(_ context.Context, chatID int64, replyTo int, text string, markdown bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	msg.DisableWebPagePreview = true
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	if _, err := s.Bot.Send(msg); err != nil {
		return fmt.Errorf("send text: %w", err)
	}
	return nil
}

func (s *Sender) SendPhoto(_ context.Context, chatID int64, replyTo int, m lookup.Media, caption string, kb [][]carousel.Button) (string, error) {
	p := tgbotapi.NewPhoto(chatID, fileOf(m))
	p.Caption = caption
	p.ReplyToMessageID = replyTo
	if len(kb) > 0 {
		p.ReplyMarkup = pageKeyboard(kb)
	}
	sent, err := s.Bot.Send(p)
	if err != nil {
		return "", fmt.Errorf("send photo: %w", err)
	}
	return largestPhoto(sent), nil
}

// EditPhoto заменяет картинку, подпись и кнопки в сообщении карусели.
func (s *Sender) EditPhoto(_ context.Context, chatID int64, messageID int, m lookup.Media, caption string, kb [][]carousel.Button) (string, error) {
	media := tgbotapi.NewInputMediaPhoto(fileOf(m))
	media.Caption = caption
	edit := tgbotapi.EditMessageMediaConfig{
		BaseEdit: tgbotapi.BaseEdit{ChatID: chatID, MessageID: messageID},
		Media:    media,
	}
	if len(kb) > 0 {
		mk := pageKeyboard(kb)
		edit.ReplyMarkup = &mk
	}
	sent, err := s.Bot.Send(edit)
	if err != nil {
		return "", fmt.Errorf("edit photo: %w", err)
	}
	return largestPhoto(sent), nil
}

func fileOf(m lookup.Media) tgbotapi.RequestFileData {
	if m.FileID != "" {
		return tgbotapi.FileID(m.FileID)
	}
	name := m.Name
	if name == "" {
		name = "photo.jpg"
	}
	return tgbotapi.FileBytes{Name: name, Bytes: m.Data}
}

func largestPhoto(msg tgbotapi.Message) string {
	if len(msg.Photo) == 0 {
		return ""
	}
	return msg.Photo[len(msg.Photo)-1].FileID
}
