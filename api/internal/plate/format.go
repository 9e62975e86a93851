package plate

import (
	"context"
	"regexp"
	"strings"
)

// Query - нормализованный запрос (NormalizedQuery). Создаётся только матчерами этого пакета,
// поэтому любое значение Query прошло валидацию какого-то формата.
type Query struct {
	text string
}

func (q Query) String() string { return q.text }

// IsZero сообщает, что запрос не был получен из валидатора.
func (q Query) IsZero() bool { return q.text == "" }

// Mode определяет, как показываются результаты формата.
type Mode int

const (
	// ModeCarousel - по одной фотографии с кнопками страниц.
	ModeCarousel Mode = iota
	// ModeListing - одно текстовое сообщение со списком.
	ModeListing
)

// Format describes one class of plate: how to recognize it, how to search it and how to
// phrase the answer. Formats are plain records registered once at startup.
type Format struct {
	NumType     string
	Country     string
	Example     string
	Description string
	Mode        Mode

	// Fold is the normalizer table applied by Validate before matching.
	Fold     func(string) string
	Validate func(text string) (Query, bool)
	Search   func(ctx context.Context, q Query) (*Result, error)

	NoData      func(lang string) string
	NoResults   func(q Query, lang string) string
	WithResults func(q Query, res *Result, lang string) string

	// Display renders the query for captions; nil means upper case.
	Display func(string) string
}

// DisplayQuery - запрос в виде, в котором номер пишется на табличке.
func (f *Format) DisplayQuery(q Query) string {
	if f.Display != nil {
		return f.Display(q.String())
	}
	return strings.ToUpper(q.String())
}

// Pattern - регулярка с группами и разделителем, которым группы склеиваются
// в каноническую форму.
type Pattern struct {
	re  *regexp.Regexp
	sep string
}

// NewPattern компилирует шаблон; вызывается при регистрации форматов.
func NewPattern(expr, sep string) Pattern {
	return Pattern{re: regexp.MustCompile(expr), sep: sep}
}

// Match применяет шаблон к уже свёрнутому тексту и собирает группы через разделитель,
// отбрасывая исходные пробелы и пунктуацию пользователя.
func (p Pattern) Match(text string) ([]string, Query, bool) {
	m := p.re.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return nil, Query{}, false
	}
	groups := m[1:]
	return groups, Query{text: strings.Join(groups, p.sep)}, true
}

// Validator собирает стандартный валидатор: fold -> шаблон -> (опционально) проверка групп.
func Validator(fold func(string) string, p Pattern, accept func(groups []string) bool) func(string) (Query, bool) {
	return func(text string) (Query, bool) {
		groups, q, ok := p.Match(fold(text))
		if !ok {
			return Query{}, false
		}
		if accept != nil && !accept(groups) {
			return Query{}, false
		}
		return q, true
	}
}

// WithPrefix builds a query whose canonical form is prefix + the joined groups
// (region info is stored as "ru37").
func WithPrefix(prefix string, validate func(string) (Query, bool)) func(string) (Query, bool) {
	return func(text string) (Query, bool) {
		q, ok := validate(text)
		if !ok {
			return Query{}, false
		}
		return Query{text: prefix + q.text}, true
	}
}
