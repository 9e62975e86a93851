package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"avbot/api/internal/i18n"
	"avbot/api/internal/util"
)

const maxPhotoBytes = 20 << 20

// acceptPhoto читает номер с фото и дальше обрабатывает его как текст.
func (r *Router) acceptPhoto(ctx context.Context, msg *tgbotapi.Message, lang string) {
	cid := msg.Chat.ID
	if r.Reader == nil {
		r.sendNotUnderstood(cid, msg.MessageID, lang)
		return
	}
	ph := msg.Photo[len(msg.Photo)-1]
	url, err := r.Bot.GetFileDirectURL(ph.FileID)
	if err != nil {
		r.Log.Error().Err(err).Int64("chat_id", cid).Msg("get file url")
		r.send(cid, msg.MessageID, i18n.T(lang, "Could not read a plate on the photo."))
		return
	}
	img, err := download(ctx, r.httpClient(), url)
	if err != nil {
		r.Log.Error().Err(err).Int64("chat_id", cid).Msg("download photo")
		r.send(cid, msg.MessageID, i18n.T(lang, "Could not read a plate on the photo."))
		return
	}

	text, err := r.Reader.ReadPlate(ctx, img, util.SniffMimeHTTP(img))
	if err != nil || strings.TrimSpace(text) == "" {
		r.Log.Info().Err(err).Int64("chat_id", cid).Msg("plate not recognized")
		r.send(cid, msg.MessageID, i18n.T(lang, "Could not read a plate on the photo."))
		return
	}
	r.Log.Info().Int64("chat_id", cid).Str("plate", text).Msg("plate recognized")
	r.handleText(ctx, cid, msg.MessageID, msg.From, text, lang)
}

func download(ctx context.Context, c *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
}
