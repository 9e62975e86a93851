package plate

import "strings"

// Таблицы похожих символов. Кириллица и латиница выглядят одинаково на номерах,
// поэтому пользователь может набрать любую раскладку.
var (
	cyrToLatin = strings.NewReplacer(
		"а", "a", "в", "b", "е", "e", "к", "k", "м", "m", "н", "h",
		"о", "o", "р", "p", "с", "c", "т", "t", "у", "y", "х", "x",
	)
	latinToCyr = strings.NewReplacer(
		"a", "А", "b", "В", "e", "Е", "k", "К", "m", "М", "h", "Н",
		"o", "О", "p", "Р", "c", "С", "t", "Т", "y", "У", "x", "Х",
	)
	latinIToUkr = strings.NewReplacer("i", "і")
)

// ToLatin приводит текст к нижнему регистру и заменяет кириллические двойники латиницей.
func ToLatin(text string) string {
	return cyrToLatin.Replace(strings.ToLower(text))
}

// ToUkrainianI приводит к нижнему регистру и заменяет латинскую i на украинскую і
// (советские серии вида «НІ»).
func ToUkrainianI(text string) string {
	return latinIToUkr.Replace(strings.ToLower(text))
}

// ToCyrillic only renders a normalized plate for display; it never lowercases.
func ToCyrillic(text string) string {
	return latinToCyr.Replace(text)
}

// Lower is the fold for formats without look-alike letters.
func Lower(text string) string {
	return strings.ToLower(text)
}
