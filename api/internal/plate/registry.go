package plate

import (
	"fmt"
	"time"
)

// Record - одна фотография номера из галереи.
type Record struct {
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Date         time.Time `json:"date"`
	PageURL      string    `json:"page_url"`
	PhotoURL     string    `json:"photo_url"`
	ThumbURL     string    `json:"thumb_url"`
	LicensePlate string    `json:"license_plate"`
}

// Result is the normalized answer of a remote search. TotalResults may exceed
// len(Records): the service reports more matches than one page carries.
type Result struct {
	Region       string   `json:"region,omitempty"`
	Informer     string   `json:"informer,omitempty"`
	TotalResults int      `json:"total_results"`
	Records      []Record `json:"records"`
}

// Empty сообщает, что контейнер результатов есть, но в нём ничего нет.
func (r *Result) Empty() bool { return r == nil || len(r.Records) == 0 }

// Registry - упорядоченный список стран и их форматов.
type Registry struct {
	countries []string
	byCountry map[string][]*Format
	byType    map[string]*Format
}

func NewRegistry() *Registry {
	return &Registry{
		byCountry: make(map[string][]*Format),
		byType:    make(map[string]*Format),
	}
}

// Register добавляет форматы страны. Повтор num_type или неполный формат - ошибка
// программиста, поэтому panic.
func (r *Registry) Register(country string, formats ...*Format) {
	if _, ok := r.byCountry[country]; !ok {
		r.countries = append(r.countries, country)
	}
	for _, f := range formats {
		if f.NumType == "" || f.Validate == nil || f.Search == nil || f.Fold == nil {
			panic(fmt.Sprintf("plate: incomplete format %q", f.NumType))
		}
		if f.Mode == ModeListing && f.WithResults == nil {
			panic(fmt.Sprintf("plate: listing format %q has no WithResults", f.NumType))
		}
		if _, dup := r.byType[f.NumType]; dup {
			panic(fmt.Sprintf("plate: duplicate num_type %q", f.NumType))
		}
		f.Country = country
		r.byType[f.NumType] = f
		r.byCountry[country] = append(r.byCountry[country], f)
	}
}

// Lookup ищет формат по num_type.
func (r *Registry) Lookup(numType string) (*Format, bool) {
	f, ok := r.byType[numType]
	return f, ok
}

// Countries returns country codes in registration order.
func (r *Registry) Countries() []string {
	return append([]string(nil), r.countries...)
}

// ByCountry returns the formats of one country in registration order.
func (r *Registry) ByCountry(country string) []*Format {
	return r.byCountry[country]
}

// All returns every format, country by country.
func (r *Registry) All() []*Format {
	out := make([]*Format, 0, len(r.byType))
	for _, c := range r.countries {
		out = append(out, r.byCountry[c]...)
	}
	return out
}

// Restore превращает сохранённый текст запроса обратно в Query, прогоняя его через
// валидатор формата. Свёртка идемпотентна, поэтому каноническая строка валидна сама по себе.
func (r *Registry) Restore(numType, text string) (*Format, Query, bool) {
	f, ok := r.Lookup(numType)
	if !ok {
		return nil, Query{}, false
	}
	q, ok := f.Validate(text)
	if !ok {
		return nil, Query{}, false
	}
	return f, q, true
}
