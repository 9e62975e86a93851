package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"avbot/api/internal/carousel"
	"avbot/api/internal/i18n"
	"avbot/api/internal/plate"
	"avbot/api/internal/plate/formats"
)

// Кнопки выбора формата, по одной в ряд.
func choiceKeyboard(matches []plate.Match, lang string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(matches))
	for _, m := range matches {
		label := fmt.Sprintf("%s: %s", formats.CountryName(m.Format.Country, lang), i18n.T(lang, m.Format.Description))
		btn := tgbotapi.NewInlineKeyboardButtonData(label, choiceData(m.Format.NumType, m.Query.String()))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(btn))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Кнопки страниц карусели.
func pageKeyboard(kb [][]carousel.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb))
	for _, row := range kb {
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, btns)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
