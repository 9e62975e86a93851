package platesmania

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"avbot/api/internal/plate"
)

var (
	reTotal     = regexp.MustCompile(`(?:Найдено номеров|Found plates|Plates found)\D*?<b>([\d\s\x{00a0}]+)</b>`)
	reNothing   = regexp.MustCompile(`(?i)ничего не найдено|nothing found`)
	reGalleryDt = regexp.MustCompile(`\b(\d{2}\.\d{2}\.\d{4})\b`)
)

// parseGallery разбирает страницу галереи. nil означает «контейнера результатов нет»,
// пустой Result - «сайт ответил, что ничего не нашёл».
func parseGallery(body []byte, base *url.URL) (*plate.Result, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse gallery: %w", err)
	}

	var records []plate.Record
	doc.Find("div.panel-body").Each(func(_ int, s *goquery.Selection) {
		if rec, ok := parsePanel(s, base); ok {
			records = append(records, rec)
		}
	})

	total, hasTotal := parseTotal(body)
	if len(records) == 0 && !hasTotal {
		if reNothing.Match(body) {
			return &plate.Result{}, nil
		}
		return nil, nil
	}

	res := &plate.Result{
		Region:       strings.TrimSpace(doc.Find("h1").First().Text()),
		TotalResults: max(total, len(records)),
		Records:      records,
	}
	if src, ok := doc.Find("img.informer").First().Attr("src"); ok {
		res.Informer = secureURL(base, src)
	}
	return res, nil
}

// parsePanel достаёт одну карточку: ссылку на страницу номера, превью, марку/модель,
// дату и номер (alt картинки-номера).
func parsePanel(s *goquery.Selection, base *url.URL) (plate.Record, bool) {
	var rec plate.Record

	link := s.Find("a[href*='nomer']").First()
	href, ok := link.Attr("href")
	if !ok {
		return rec, false
	}
	rec.PageURL = secureURL(base, href)

	thumb, ok := link.Find("img").First().Attr("src")
	if !ok {
		return rec, false
	}
	rec.ThumbURL = secureURL(base, thumb)
	rec.PhotoURL = strings.Replace(rec.ThumbURL, "/m/", "/o/", 1)

	names := s.Find("h4 a")
	switch names.Length() {
	case 0:
	case 1:
		rec.Make, rec.Model = splitMakeModel(names.Text())
	default:
		rec.Make = strings.TrimSpace(names.First().Text())
		var parts []string
		names.Slice(1, goquery.ToEnd).Each(func(_ int, a *goquery.Selection) {
			if t := strings.TrimSpace(a.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		rec.Model = strings.Join(parts, " ")
	}

	if m := reGalleryDt.FindStringSubmatch(s.Text()); m != nil {
		if d, err := time.Parse("02.01.2006", m[1]); err == nil {
			rec.Date = d
		}
	}

	s.Find("img[alt]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if !strings.Contains(src, "/inf/") {
			return true
		}
		alt, _ := img.Attr("alt")
		rec.LicensePlate = strings.TrimSpace(alt)
		return false
	})
	return rec, true
}

func splitMakeModel(text string) (string, string) {
	text = strings.TrimSpace(text)
	mk, model, _ := strings.Cut(text, " ")
	return mk, strings.TrimSpace(model)
}

// parseTotal ищет строку «Найдено номеров: <b>1 234</b>».
func parseTotal(body []byte) (int, bool) {
	m := reTotal.FindSubmatch(body)
	if m == nil {
		return 0, false
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, string(m[1]))
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

type apiPhotoResponse struct {
	Error int      `json:"error"`
	Cars  []apiCar `json:"cars"`
}

type apiCar struct {
	Make  string   `json:"make"`
	Model string   `json:"model"`
	Date  string   `json:"date"`
	Nomer string   `json:"nomer"`
	Page  string   `json:"link"`
	Photo apiPhoto `json:"photo"`
}

type apiPhoto struct {
	Link   string `json:"link"`
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Orig   string `json:"original"`
}

var apiDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
	"02.01.2006",
}

// parsePhotoAPI разбирает ответ api_photo.php; error != 0 означает «ничего не найдено».
func parsePhotoAPI(body []byte) (*plate.Result, error) {
	var resp apiPhotoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode api_photo: %w", err)
	}
	if resp.Error != 0 {
		return &plate.Result{}, nil
	}
	res := &plate.Result{Records: make([]plate.Record, 0, len(resp.Cars))}
	for _, car := range resp.Cars {
		photo := car.Photo.Medium
		if photo == "" {
			photo = car.Photo.Link
		}
		rec := plate.Record{
			Make:         strings.TrimSpace(car.Make),
			Model:        strings.TrimSpace(car.Model),
			PageURL:      secureURL(nil, car.Photo.Link),
			PhotoURL:     secureURL(nil, photo),
			ThumbURL:     secureURL(nil, car.Photo.Small),
			LicensePlate: car.Nomer,
		}
		if car.Page != "" {
			rec.PageURL = secureURL(nil, car.Page)
		}
		for _, layout := range apiDateLayouts {
			if d, err := time.Parse(layout, car.Date); err == nil {
				rec.Date = d
				break
			}
		}
		res.Records = append(res.Records, rec)
	}
	res.TotalResults = len(res.Records)
	return res, nil
}
