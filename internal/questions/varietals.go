package questions

import "strings"

// Varietal is a grape type and its country of origin.
type Varietal struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

var varietals = []Varietal{
	{Name: "Cabernet Sauvignon", Country: "France"},
	{Name: "Merlot", Country: "France"},
	{Name: "Chardonnay", Country: "France"},
	{Name: "Pinot Noir", Country: "France"},
	{Name: "Sauvignon Blanc", Country: "France"},
	{Name: "Syrah", Country: "France"},
	{Name: "Riesling", Country: "Germany"},
	{Name: "Tempranillo", Country: "Spain"},
	{Name: "Sangiovese", Country: "Italy"},
	{Name: "Zinfandel", Country: "USA"},
	{Name: "Malbec", Country: "Argentina"},
	{Name: "Chenin Blanc", Country: "France"},
	{Name: "Viognier", Country: "France"},
	{Name: "Grenache", Country: "France"},
	{Name: "Nebbiolo", Country: "Italy"},
	{Name: "Barbera", Country: "Italy"},
	{Name: "Grüner Veltliner", Country: "Austria"},
	{Name: "Albariño", Country: "Spain"},
	{Name: "Gewürztraminer", Country: "Germany"},
	{Name: "Pinot Grigio", Country: "Italy"},
	{Name: "Gamay", Country: "France"},
	{Name: "Mourvèdre", Country: "France"},
	{Name: "Petit Verdot", Country: "France"},
	{Name: "Carmenère", Country: "Chile"},
	{Name: "Torrontés", Country: "Argentina"},
	{Name: "Pinotage", Country: "South Africa"},
	{Name: "Assyrtiko", Country: "Greece"},
	{Name: "Furmint", Country: "Hungary"},
	{Name: "Blaufränkisch", Country: "Austria"},
	{Name: "Chasselas", Country: "Switzerland"},
	{Name: "Tannat", Country: "France"},
	{Name: "Norton", Country: "USA"},
	{Name: "Chambourcin", Country: "USA"},
	{Name: "Vidal", Country: "USA"},
	{Name: "Traminette", Country: "USA"},
	{Name: "Baco Noir", Country: "USA"},
}

var varietalIndex = func() map[string]Varietal {
	idx := make(map[string]Varietal, len(varietals))
	for _, v := range varietals {
		idx[strings.ToLower(v.Name)] = v
	}
	return idx
}()

// Varietals returns the known grape varietals.
func Varietals() []Varietal {
	return append([]Varietal(nil), varietals...)
}

// LookupVarietal finds a varietal by name, ignoring case.
func LookupVarietal(name string) (Varietal, bool) {
	v, ok := varietalIndex[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// VarietalForAnswer reports which varietal an answer such as
// "Chardonnay (oaked)" names. Only answers carrying a parenthetical qualifier
// are offered for elaboration.
func VarietalForAnswer(answer string) (Varietal, bool) {
	head, _, found := strings.Cut(answer, "(")
	if !found {
		return Varietal{}, false
	}
	return LookupVarietal(head)
}
