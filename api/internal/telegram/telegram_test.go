package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"avbot/api/internal/carousel"
	"avbot/api/internal/lookup"
	"avbot/api/internal/plate/formats"
	"avbot/api/internal/store"
	"avbot/api/internal/worker"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	fileURL  string
	reply    tgbotapi.Message
	err      error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return b.reply, b.err
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetFileDirectURL(string) (string, error) {
	if b.fileURL == "" {
		return "", errors.New("no file")
	}
	return b.fileURL, nil
}

func (b *fakeBot) texts() []string {
	var out []string
	for _, c := range b.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

type recordingJobs struct {
	jobs []worker.Job
}

func (r *recordingJobs) Submit(_ context.Context, job worker.Job) (worker.Job, error) {
	job.ID = "job-" + string(rune('a'+len(r.jobs)))
	r.jobs = append(r.jobs, job)
	return job, nil
}

type fakeReader struct {
	text string
	err  error
	mime string
}

func (f *fakeReader) ReadPlate(_ context.Context, _ []byte, mime string) (string, error) {
	f.mime = mime
	return f.text, f.err
}

func newRouter(bot *fakeBot) (*Router, *store.MemoryStore, *recordingJobs) {
	mem := store.NewMemoryStore()
	jobs := &recordingJobs{}
	return &Router{
		Bot:      bot,
		Registry: formats.New(nil),
		Users:    mem,
		Queries:  mem,
		Jobs:     jobs,
		Log:      zerolog.Nop(),
	}, mem, jobs
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 10,
		Chat:      &tgbotapi.Chat{ID: 42},
		From:      &tgbotapi.User{ID: 7, LanguageCode: "en"},
		Text:      text,
	}}
}

func TestHandleText_SingleMatchQueuesJob(t *testing.T) {
	bot := &fakeBot{}
	r, mem, jobs := newRouter(bot)

	r.HandleUpdate(context.Background(), textUpdate("А123АА77"))

	require.Len(t, jobs.jobs, 1)
	job := jobs.jobs[0]
	assert.Equal(t, int64(42), job.ChatID)
	assert.Equal(t, 10, job.MessageID)
	assert.Equal(t, 0, job.Page)
	assert.False(t, job.Edit)
	assert.Equal(t, "en", job.Lang)

	q, err := mem.Get(context.Background(), job.QueryID)
	require.NoError(t, err)
	assert.Equal(t, "ru", q.NumType)
	assert.Equal(t, "a 123 aa 77", q.Text)
	assert.Empty(t, bot.sent)
}

func TestHandleText_NotUnderstood(t *testing.T) {
	bot := &fakeBot{}
	r, _, jobs := newRouter(bot)

	r.HandleUpdate(context.Background(), textUpdate("hello"))

	assert.Empty(t, jobs.jobs)
	require.Len(t, bot.sent, 1)
	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.Equal(t, 10, msg.ReplyToMessageID)
	assert.True(t, strings.HasPrefix(msg.Text, "Request not understood"))
	assert.Contains(t, msg.Text, "`а123аа777`")
}

func TestHandleText_AmbiguousOffersChoice(t *testing.T) {
	bot := &fakeBot{}
	r, _, jobs := newRouter(bot)

	r.HandleUpdate(context.Background(), textUpdate("1234ax77"))

	assert.Empty(t, jobs.jobs)
	require.Len(t, bot.sent, 1)
	msg := bot.sent[0].(tgbotapi.MessageConfig)
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)

	data := *kb.InlineKeyboard[0][0].CallbackData
	numType, _, ok := parseChoice(data)
	require.True(t, ok)
	assert.Equal(t, "ru-spec", numType)
	assert.Contains(t, kb.InlineKeyboard[1][0].Text, "motorcycle")
}

func TestChoiceCallbackDispatches(t *testing.T) {
	bot := &fakeBot{}
	r, mem, jobs := newRouter(bot)

	cb := &tgbotapi.CallbackQuery{
		ID:   "cb1",
		From: &tgbotapi.User{ID: 7, LanguageCode: "ru"},
		Data: choiceData("ru-moto", "1234 ax 77"),
		Message: &tgbotapi.Message{
			MessageID:      11,
			Chat:           &tgbotapi.Chat{ID: 42},
			ReplyToMessage: &tgbotapi.Message{MessageID: 10},
		},
	}
	r.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: cb})

	require.Len(t, bot.requests, 1, "callback must be acknowledged")
	require.Len(t, jobs.jobs, 1)
	assert.Equal(t, 10, jobs.jobs[0].MessageID)
	assert.Equal(t, "ru", jobs.jobs[0].Lang)

	q, err := mem.Get(context.Background(), jobs.jobs[0].QueryID)
	require.NoError(t, err)
	assert.Equal(t, "ru-moto", q.NumType)
}

func TestChoiceCallback_StaleFormat(t *testing.T) {
	bot := &fakeBot{}
	r, _, jobs := newRouter(bot)

	cb := &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 7, LanguageCode: "en"},
		Data:    choiceData("xx-gone", "1"),
		Message: &tgbotapi.Message{MessageID: 11, Chat: &tgbotapi.Chat{ID: 42}},
	}
	r.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: cb})

	assert.Empty(t, jobs.jobs)
	assert.Equal(t, []string{"The query has expired, please send the plate again."}, bot.texts())
}

func TestPageCallbackSubmitsEdit(t *testing.T) {
	bot := &fakeBot{}
	r, mem, jobs := newRouter(bot)
	ctx := context.Background()

	id, err := mem.Create(ctx, 1, "a 123 aa 77", "ru")
	require.NoError(t, err)

	cb := &tgbotapi.CallbackQuery{
		ID:      "cb2",
		From:    &tgbotapi.User{ID: 7},
		Data:    carousel.Encode(carousel.Token{QueryID: id, Page: 3}),
		Message: &tgbotapi.Message{MessageID: 55, Chat: &tgbotapi.Chat{ID: 42}},
	}
	r.HandleUpdate(ctx, tgbotapi.Update{CallbackQuery: cb})

	require.Len(t, jobs.jobs, 1)
	job := jobs.jobs[0]
	assert.True(t, job.Edit)
	assert.Equal(t, 3, job.Page)
	assert.Equal(t, 55, job.MessageID)
	assert.Equal(t, id, job.QueryID)

	views := mem.PageViews()
	require.Len(t, views, 1)
	assert.Equal(t, 3, views[0].Page)
}

func TestMalformedCallbackIgnored(t *testing.T) {
	bot := &fakeBot{}
	r, _, jobs := newRouter(bot)

	cb := &tgbotapi.CallbackQuery{
		ID:      "cb3",
		Data:    "garbage",
		Message: &tgbotapi.Message{MessageID: 55, Chat: &tgbotapi.Chat{ID: 42}},
	}
	r.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: cb})

	assert.Empty(t, jobs.jobs)
	assert.Empty(t, bot.sent)
	assert.Len(t, bot.requests, 1)
}

func TestCommands(t *testing.T) {
	bot := &fakeBot{}
	r, mem, _ := newRouter(bot)

	upd := textUpdate("/start")
	upd.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}}
	r.HandleUpdate(context.Background(), upd)

	u, err := mem.Ensure(context.Background(), store.User{TelegramID: 7})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID, "start registers the user")

	require.Len(t, bot.sent, 1)
	text := bot.sent[0].(tgbotapi.MessageConfig).Text
	assert.Contains(t, text, "*Russia*")
	assert.Contains(t, text, "*United States*")
	assert.Contains(t, text, "`ru37` - info about region")
}

func TestPhotoRecognized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("\xff\xd8\xff\xe0fakejpeg"))
	}))
	defer srv.Close()

	bot := &fakeBot{fileURL: srv.URL + "/file.jpg"}
	r, _, jobs := newRouter(bot)
	reader := &fakeReader{text: "А 123 АА 77"}
	r.Reader = reader

	upd := textUpdate("")
	upd.Message.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "big"}}
	r.HandleUpdate(context.Background(), upd)

	assert.Equal(t, "image/jpeg", reader.mime)
	require.Len(t, jobs.jobs, 1)
}

func TestPhotoNotRecognized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("img"))
	}))
	defer srv.Close()

	bot := &fakeBot{fileURL: srv.URL}
	r, _, jobs := newRouter(bot)
	r.Reader = &fakeReader{}

	upd := textUpdate("")
	upd.Message.Photo = []tgbotapi.PhotoSize{{FileID: "p"}}
	r.HandleUpdate(context.Background(), upd)

	assert.Empty(t, jobs.jobs)
	assert.Equal(t, []string{"Could not read a plate on the photo."}, bot.texts())
}

func TestSender(t *testing.T) {
	bot := &fakeBot{reply: tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "s"}, {FileID: "large"}}}}
	s := NewSender(bot)
	ctx := context.Background()
	kb := carousel.Keyboard(5, []int{0, 1, 2})

	id, err := s.SendPhoto(ctx, 42, 10, lookup.Media{Data: []byte("jpg"), Name: "1.jpg"}, "cap", kb)
	require.NoError(t, err)
	assert.Equal(t, "large", id)

	p := bot.sent[0].(tgbotapi.PhotoConfig)
	assert.Equal(t, "cap", p.Caption)
	assert.Equal(t, 10, p.ReplyToMessageID)
	fb, ok := p.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "1.jpg", fb.Name)
	mk := p.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	assert.Equal(t, "5-1", *mk.InlineKeyboard[0][1].CallbackData)

	_, err = s.EditPhoto(ctx, 42, 77, lookup.Media{FileID: "cached"}, "cap2", kb)
	require.NoError(t, err)
	edit := bot.sent[1].(tgbotapi.EditMessageMediaConfig)
	assert.Equal(t, 77, edit.MessageID)
	media := edit.Media.(tgbotapi.InputMediaPhoto)
	assert.Equal(t, tgbotapi.FileID("cached"), media.Media)
	assert.Equal(t, "cap2", media.Caption)
	require.NotNil(t, edit.ReplyMarkup)

	require.NoError(t, s.SendText(ctx, 42, 10, "*hi*", true))
	msg := bot.sent[2].(tgbotapi.MessageConfig)
	assert.Equal(t, tgbotapi.ModeMarkdown, msg.ParseMode)
	assert.True(t, msg.DisableWebPagePreview)

	bot.err = errors.New("boom")
	assert.Error(t, s.SendText(ctx, 42, 10, "x", false))
}
