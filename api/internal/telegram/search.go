package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"avbot/api/internal/i18n"
	"avbot/api/internal/metrics"
	"avbot/api/internal/plate"
	"avbot/api/internal/worker"
)

// handleText классифицирует текст: нет совпадений - подсказка с примерами,
// одно - запуск поиска, несколько - выбор формата кнопками.
func (r *Router) handleText(ctx context.Context, chatID int64, replyTo int, from *tgbotapi.User, text, lang string) {
	matches := plate.Classify(r.Registry, text)
	switch len(matches) {
	case 0:
		metrics.Classifications.WithLabelValues("none").Inc()
		r.sendNotUnderstood(chatID, replyTo, lang)
	case 1:
		metrics.Classifications.WithLabelValues("single").Inc()
		r.dispatch(ctx, chatID, replyTo, from, lang, matches[0].Format, matches[0].Query)
	default:
		metrics.Classifications.WithLabelValues("ambiguous").Inc()
		msg := tgbotapi.NewMessage(chatID, i18n.T(lang, "Several formats match, choose one:"))
		msg.ReplyToMessageID = replyTo
		msg.ReplyMarkup = choiceKeyboard(matches, lang)
		if _, err := r.Bot.Send(msg); err != nil {
			r.Log.Warn().Err(err).Int64("chat_id", chatID).Msg("send format choice")
		}
	}
}

// dispatch сохраняет запрос и ставит задачу первой страницы.
func (r *Router) dispatch(ctx context.Context, chatID int64, replyTo int, from *tgbotapi.User, lang string, f *plate.Format, q plate.Query) {
	log := r.Log.With().Int64("chat_id", chatID).Str("num_type", f.NumType).Logger()

	user, err := r.Users.Ensure(ctx, userOf(chatID, from))
	if err != nil {
		log.Error().Err(err).Msg("ensure user")
		r.send(chatID, replyTo, i18n.T(lang, "Service is temporarily unavailable, please try again later."))
		return
	}
	id, err := r.Queries.Create(ctx, user.ID, q.String(), f.NumType)
	if err != nil {
		log.Error().Err(err).Msg("create search query")
		r.send(chatID, replyTo, i18n.T(lang, "Service is temporarily unavailable, please try again later."))
		return
	}
	job, err := r.Jobs.Submit(ctx, worker.Job{ChatID: chatID, MessageID: replyTo, QueryID: id, Lang: lang})
	if err != nil {
		log.Error().Err(err).Int64("query_id", id).Msg("submit job")
		r.send(chatID, replyTo, i18n.T(lang, "Service is temporarily unavailable, please try again later."))
		return
	}
	log.Info().Str("job_id", job.ID).Int64("query_id", id).Str("query", q.String()).Msg("search queued")
}

func (r *Router) sendNotUnderstood(chatID int64, replyTo int, lang string) {
	var b strings.Builder
	b.WriteString(i18n.T(lang, "Request not understood. Send a plate, for example:"))
	for _, f := range r.Registry.All() {
		b.WriteString("\n`")
		b.WriteString(f.Example)
		b.WriteString("` - ")
		b.WriteString(i18n.T(lang, f.Description))
	}
	r.sendMarkdown(chatID, replyTo, b.String())
}
