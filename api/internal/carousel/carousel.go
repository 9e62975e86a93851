// Package carousel pages through search records one photo at a time. Tokens are
// stateless: the query id and the page index travel in the callback data.
package carousel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"avbot/api/internal/plate"
)

var (
	ErrMalformedToken = errors.New("carousel: malformed token")
	ErrPageOutOfRange = errors.New("carousel: page out of range")
)

// RowSize - максимум кнопок в одном ряду клавиатуры.
const RowSize = 8

// Token - внешняя форма "{query_id}-{page}".
type Token struct {
	QueryID int64
	Page    int
}

func Encode(t Token) string {
	return strconv.FormatInt(t.QueryID, 10) + "-" + strconv.Itoa(t.Page)
}

// Decode parses a token; ids start at 1 and pages at 0.
func Decode(s string) (Token, error) {
	id, page, ok := strings.Cut(s, "-")
	if !ok {
		return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, s)
	}
	qid, err := strconv.ParseInt(id, 10, 64)
	if err != nil || qid < 1 || !digits(id) {
		return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, s)
	}
	p, err := strconv.Atoi(page)
	if err != nil || p < 0 || !digits(page) {
		return Token{}, fmt.Errorf("%w: %q", ErrMalformedToken, s)
	}
	return Token{QueryID: qid, Page: p}, nil
}

// digits отсекает "+1" и прочее, что strconv принимает.
func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// View - одна страница карусели.
type View struct {
	Record  plate.Record
	Caption string
	Pages   []int
}

// Button - кнопка перехода на страницу.
type Button struct {
	Text string
	Data string
}

// Render builds page `page` of res. Pages lists every other valid page and is
// empty when there is a single record.
func Render(plateText string, res *plate.Result, page int) (View, error) {
	n := 0
	if res != nil {
		n = len(res.Records)
	}
	if page < 0 || page >= n {
		return View{}, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, n)
	}
	rec := res.Records[page]

	var pages []int
	if n > 1 {
		pages = make([]int, 0, n-1)
		for i := 0; i < n; i++ {
			if i != page {
				pages = append(pages, i)
			}
		}
	}
	return View{Record: rec, Caption: caption(plateText, rec, page, n), Pages: pages}, nil
}

func caption(plateText string, rec plate.Record, page, n int) string {
	head := fmt.Sprintf("%s [%d/%d]", plateText, page+1, n)
	if !rec.Date.IsZero() {
		head += " " + rec.Date.Format("02.01.2006")
	}
	lines := []string{head}
	if name := strings.TrimSpace(rec.Make + " " + rec.Model); name != "" {
		lines = append(lines, name)
	}
	if rec.PageURL != "" {
		lines = append(lines, rec.PageURL)
	}
	return strings.Join(lines, "\n")
}

// Clamp приводит страницу к [0, n).
func Clamp(page, n int) int {
	switch {
	case n <= 0 || page < 0:
		return 0
	case page >= n:
		return n - 1
	}
	return page
}

// Keyboard раскладывает страницы по рядам не длиннее RowSize.
func Keyboard(queryID int64, pages []int) [][]Button {
	var rows [][]Button
	for start := 0; start < len(pages); start += RowSize {
		end := min(start+RowSize, len(pages))
		row := make([]Button, 0, end-start)
		for _, p := range pages[start:end] {
			row = append(row, Button{
				Text: strconv.Itoa(p + 1),
				Data: Encode(Token{QueryID: queryID, Page: p}),
			})
		}
		rows = append(rows, row)
	}
	return rows
}
