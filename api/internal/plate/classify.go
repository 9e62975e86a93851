package plate

import "strings"

// Match - один вариант распознавания запроса.
type Match struct {
	Format *Format
	Query  Query
}

// Classify прогоняет текст через все зарегистрированные форматы и возвращает все
// совпадения. Форматы не взаимоисключающие: одни и те же символы могут подходить
// под номера разных стран или классов.
func Classify(reg *Registry, raw string) []Match {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return nil
	}
	var out []Match
	for _, f := range reg.All() {
		if q, ok := f.Validate(raw); ok {
			out = append(out, Match{Format: f, Query: q})
		}
	}
	return out
}
