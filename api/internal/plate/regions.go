package plate

// RuRegions - закрытый справочник кодов регионов РФ: код -> название.
// Коды вне справочника отклоняются валидаторами региона и серии.
var RuRegions = buildRegions([]region{
	{"Республика Адыгея", []string{"01"}},
	{"Республика Башкортостан", []string{"02", "102", "702"}},
	{"Республика Бурятия", []string{"03"}},
	{"Республика Алтай", []string{"04"}},
	{"Республика Дагестан", []string{"05"}},
	{"Республика Ингушетия", []string{"06"}},
	{"Кабардино-Балкарская Республика", []string{"07"}},
	{"Республика Калмыкия", []string{"08"}},
	{"Карачаево-Черкесская Республика", []string{"09"}},
	{"Республика Карелия", []string{"10"}},
	{"Республика Коми", []string{"11", "111"}},
	{"Республика Марий Эл", []string{"12"}},
	{"Республика Мордовия", []string{"13", "113"}},
	{"Республика Саха (Якутия)", []string{"14"}},
	{"Республика Северная Осетия", []string{"15"}},
	{"Республика Татарстан", []string{"16", "116", "716"}},
	{"Республика Тыва", []string{"17"}},
	{"Удмуртская Республика", []string{"18"}},
	{"Республика Хакасия", []string{"19"}},
	{"Чувашская Республика", []string{"21", "121"}},
	{"Алтайский край", []string{"22"}},
	{"Краснодарский край", []string{"23", "93", "123", "193"}},
	{"Красноярский край", []string{"24", "84", "88", "124"}},
	{"Приморский край", []string{"25", "125"}},
	{"Ставропольский край", []string{"26", "126"}},
	{"Хабаровский край", []string{"27"}},
	{"Амурская область", []string{"28"}},
	{"Архангельская область", []string{"29"}},
	{"Астраханская область", []string{"30"}},
	{"Белгородская область", []string{"31"}},
	{"Брянская область", []string{"32"}},
	{"Владимирская область", []string{"33"}},
	{"Волгоградская область", []string{"34", "134"}},
	{"Вологодская область", []string{"35"}},
	{"Воронежская область", []string{"36", "136"}},
	{"Ивановская область", []string{"37"}},
	{"Иркутская область", []string{"38", "85", "138"}},
	{"Калининградская область", []string{"39", "91"}},
	{"Калужская область", []string{"40"}},
	{"Камчатский край", []string{"41"}},
	{"Кемеровская область", []string{"42", "142"}},
	{"Кировская область", []string{"43"}},
	{"Костромская область", []string{"44"}},
	{"Курганская область", []string{"45"}},
	{"Курская область", []string{"46"}},
	{"Ленинградская область", []string{"47", "147"}},
	{"Липецкая область", []string{"48"}},
	{"Магаданская область", []string{"49"}},
	{"Московская область", []string{"50", "90", "150", "190", "750", "790"}},
	{"Мурманская область", []string{"51"}},
	{"Нижегородская область", []string{"52", "152"}},
	{"Новгородская область", []string{"53"}},
	{"Новосибирская область", []string{"54", "154"}},
	{"Омская область", []string{"55"}},
	{"Оренбургская область", []string{"56"}},
	{"Орловская область", []string{"57"}},
	{"Пензенская область", []string{"58"}},
	{"Пермский край", []string{"59", "81", "159"}},
	{"Псковская область", []string{"60"}},
	{"Ростовская область", []string{"61", "161", "761"}},
	{"Рязанская область", []string{"62"}},
	{"Самарская область", []string{"63", "163", "763"}},
	{"Саратовская область", []string{"64", "164"}},
	{"Сахалинская область", []string{"65"}},
	{"Свердловская область", []string{"66", "96", "196"}},
	{"Смоленская область", []string{"67"}},
	{"Тамбовская область", []string{"68"}},
	{"Тверская область", []string{"69"}},
	{"Томская область", []string{"70"}},
	{"Тульская область", []string{"71"}},
	{"Тюменская область", []string{"72"}},
	{"Ульяновская область", []string{"73", "173"}},
	{"Челябинская область", []string{"74", "174", "774"}},
	{"Забайкальский край", []string{"75", "80"}},
	{"Ярославская область", []string{"76"}},
	{"Москва", []string{"77", "97", "99", "177", "197", "199", "777", "797", "799", "977"}},
	{"Санкт-Петербург", []string{"78", "98", "178", "198"}},
	{"Еврейская автономная область", []string{"79"}},
	{"Республика Крым", []string{"82"}},
	{"Ненецкий автономный округ", []string{"83"}},
	{"Ханты-Мансийский автономный округ", []string{"86", "186"}},
	{"Чукотский автономный округ", []string{"87"}},
	{"Ямало-Ненецкий автономный округ", []string{"89"}},
	{"Севастополь", []string{"92"}},
	{"Чеченская Республика", []string{"95"}},
})

type region struct {
	name  string
	codes []string
}

func buildRegions(list []region) map[string]string {
	out := make(map[string]string, len(list)*2)
	for _, r := range list {
		for _, c := range r.codes {
			out[c] = r.name
		}
	}
	return out
}

// USState - параметры галереи штата: id региона и тип номера (ctype).
type USState struct {
	Name     string
	RegionID int
	CType    int
}

// USStates - штаты, для которых галерея поддерживает поиск по серии.
var USStates = map[string]USState{
	"pa": {Name: "Pennsylvania", RegionID: 39, CType: 1},
	"oh": {Name: "Ohio", RegionID: 36, CType: 1},
	"nc": {Name: "North Carolina", RegionID: 34, CType: 1},
	"ny": {Name: "New York", RegionID: 33, CType: 1},
}
