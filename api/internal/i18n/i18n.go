// Package i18n holds the bot's message catalog. The language is always passed
// explicitly; nothing here keeps a "current language".
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	EN = "en"
	RU = "ru"
)

var (
	supported = []language.Tag{language.Russian, language.English}
	matcher   = language.NewMatcher(supported)
	fallback  = RU
)

// ключ - английская строка (формат fmt), значение - русский перевод.
var ru = map[string]string{
	"No data":       "Нет данных",
	"Nothing found": "По вашему запросу ничего не найдено",
	"Service is temporarily unavailable, please try again later.": "Сервис временно недоступен, попробуйте позже.",
	"Request not understood. Send a plate, for example:":          "Некорректный запрос. Отправьте номер, например:",
	"The query has expired, please send the plate again.":         "Запрос устарел, отправьте номер повторно.",
	"Several formats match, choose one:":                          "Запрос подходит под несколько форматов, выберите один:",
	"Could not read a plate on the photo.":                        "Не удалось прочитать номер на фото.",
	"Bot for searching plate photos on platesmania.com.":          "Бот для поиска фотографий номеров на platesmania.com.",
	"Send a plate number to search. Supported formats:":           "Для поиска отправьте номер. Поддерживаемые форматы:",
	"Region *%s* - %s":                                            "Регион *%s* - %s",
	"Latest series:":                                              "Последние серии:",
	"Latest plates:":                                              "Последние номера:",
	"No plates in the series [%s](%s) yet":                        "В серии [%s](%s) пока нет ни одного номера",
	"Pictures in the series [%s](%s): %d":                         "Количество фотографий в серии [%s](%s): %d",
	"There are no plates in the series [%s](%s) of the state `%s`":     "В серии [%s](%s) штата `%s` пока нет ни одного номера",
	"Pictures in the series [%s](%s) of the state `%s`: %d":            "Количество фотографий в серии [%s](%s) штата `%s`: %d",
	"Russia":                          "Россия",
	"Soviet Union":                    "СССР",
	"United States":                   "США",
	"Ukraine":                         "Украина",
	"Kazakhstan":                      "Казахстан",
	"Uzbekistan":                      "Узбекистан",
	"Georgia":                         "Грузия",
	"vehicle plate 🚗":                 "номер автомобиля 🚗",
	"trailer plate":                   "номер прицепа",
	"special vehicle plate 🚜":         "номер спецтехники 🚜",
	"motorcycle plate 🏍":              "номер мотоцикла 🏍",
	"transit plate":                   "транзитный номер",
	"public transport plate 🚌":        "номер общественного транспорта 🚌",
	"police vehicles plate 🚓":         "номер полиции 🚓",
	"info about region":               "информация о регионе",
	"info about vehicle plate series": "информация о серии номеров",
	"info about state plate series (possible states: pa, oh, nc, ny)": "информация о серии номеров штата (штаты: pa, oh, nc, ny)",
	"private vehicles (1980) 🚗":     "частные автомобили (1980) 🚗",
	"regular plates (2004)":         "обычные номера (2004)",
	"private vehicle plate (2012)":  "номер частного автомобиля (2012)",
	"private vehicle plate":         "номер частного автомобиля",
	"vehicle plate (2014)":          "номер автомобиля (2014)",
}

func init() {
	for key, tr := range ru {
		_ = message.SetString(language.Russian, key, tr)
		_ = message.SetString(language.English, key, key)
	}
}

// Match подбирает поддерживаемый язык по language_code из Telegram.
func Match(code string) string {
	if code == "" {
		return fallback
	}
	tag, _, conf := matcher.Match(language.Make(code))
	if conf == language.No {
		return fallback
	}
	base, _ := tag.Base()
	return base.String()
}

// SetFallback меняет язык по умолчанию (DEFAULT_LANG).
func SetFallback(lang string) {
	if lang == EN || lang == RU {
		fallback = lang
	}
}

// T переводит строку-ключ и подставляет аргументы.
func T(lang, key string, args ...any) string {
	return printer(lang).Sprintf(key, args...)
}

func printer(lang string) *message.Printer {
	if lang == EN {
		return message.NewPrinter(language.English)
	}
	return message.NewPrinter(language.Russian)
}
