package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"avbot/api/internal/carousel"
	"avbot/api/internal/i18n"
	"avbot/api/internal/worker"
)

// choicePrefix - callback выбора формата: "c|<num_type>|<query>".
const choicePrefix = "c|"

func choiceData(numType, query string) string {
	return choicePrefix + numType + "|" + query
}

func parseChoice(data string) (numType, query string, ok bool) {
	rest, ok := strings.CutPrefix(data, choicePrefix)
	if !ok {
		return "", "", false
	}
	return strings.Cut(rest, "|")
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil { // ack
		r.Log.Debug().Err(err).Msg("callback ack")
	}
	if cb.Message == nil {
		return
	}
	cid := cb.Message.Chat.ID
	lang := langOf(cb.From)

	if numType, text, ok := parseChoice(cb.Data); ok {
		r.onChoice(ctx, cb, numType, text, lang)
		return
	}

	tok, err := carousel.Decode(cb.Data)
	if err != nil {
		r.Log.Warn().Err(err).Int64("chat_id", cid).Msg("ignored callback")
		return
	}
	if err := r.Queries.AddPageView(ctx, tok.QueryID, tok.Page); err != nil {
		r.Log.Warn().Err(err).Int64("query_id", tok.QueryID).Msg("add page view")
	}
	job := worker.Job{
		ChatID:    cid,
		MessageID: cb.Message.MessageID,
		QueryID:   tok.QueryID,
		Page:      tok.Page,
		Edit:      true,
		Lang:      lang,
	}
	if _, err := r.Jobs.Submit(ctx, job); err != nil {
		r.Log.Error().Err(err).Int64("query_id", tok.QueryID).Msg("submit page job")
	}
}

// onChoice продолжает поиск по выбранному формату без повторной классификации.
func (r *Router) onChoice(ctx context.Context, cb *tgbotapi.CallbackQuery, numType, text, lang string) {
	cid := cb.Message.Chat.ID
	f, q, ok := r.Registry.Restore(numType, text)
	if !ok {
		r.Log.Warn().Str("num_type", numType).Str("query", text).Msg("stale format choice")
		r.send(cid, 0, i18n.T(lang, "The query has expired, please send the plate again."))
		return
	}

	// убрать клавиатуру выбора
	edit := tgbotapi.NewEditMessageReplyMarkup(cid, cb.Message.MessageID,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}})
	if _, err := r.Bot.Send(edit); err != nil {
		r.Log.Debug().Err(err).Msg("remove choice keyboard")
	}

	replyTo := cb.Message.MessageID
	if cb.Message.ReplyToMessage != nil {
		replyTo = cb.Message.ReplyToMessage.MessageID
	}
	r.dispatch(ctx, cid, replyTo, cb.From, lang, f, q)
}
