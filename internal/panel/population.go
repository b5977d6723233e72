// Package panel loads sample-to-population mappings from reference panel
// files such as the 1000 Genomes integrated call sample panel.
package panel

// Population groups the samples sharing one population code.
type Population struct {
	Code     string   // short population code (e.g., "GBR")
	Name     string   // display name resolved from the code
	Ancestry string   // superpopulation code (e.g., "EUR")
	Region   string   // geographic region resolved from the superpopulation
	Members  []string // sample names in file order, duplicates preserved
}

// populationNames maps population codes to display names. Codes not listed
// here pass through verbatim.
var populationNames = map[string]string{
	"CHB": "Han Chinese in Beijing",
	"JPT": "Japanese in Tokyo",
	"CHS": "Southern Han Chinese",
	"CDX": "Chinese Dai in Xishuangbanna",
	"KHV": "Kinh in Ho Chi Minh City",
	"CEU": "Utah residents with European ancestry",
	"TSI": "Toscani in Italia",
	"FIN": "Finnish in Finland",
	"GBR": "British in England and Scotland",
	"IBS": "Iberian populations in Spain",
	"YRI": "Yoruba in Ibadan, Nigeria",
	"LWK": "Luhya in Webuye, Kenya",
	"GWD": "Gambian in Western Division",
	"MSL": "Mende in Sierra Leone",
	"ESN": "Esan in Nigeria",
	"ASW": "African Ancestry in Southwest US",
	"ACB": "African Caribbean in Barbados",
	"MXL": "Mexican Ancestry in Los Angeles",
	"PUR": "Puerto Rican in Puerto Rico",
	"CLM": "Colombian in Medellin",
	"PEL": "Peruvian in Lima",
}

// superpopulationRegions maps the five known superpopulation codes to their
// regions. Anything else resolves to "Unknown".
var superpopulationRegions = map[string]string{
	"EAS": "East Asia",
	"EUR": "Europe",
	"AFR": "Africa",
	"AMR": "Americas",
	"SAS": "South Asia",
}

// PopulationName returns the display name for a population code, or the
// code itself when unknown.
func PopulationName(code string) string {
	if name, ok := populationNames[code]; ok {
		return name
	}
	return code
}

// Region returns the geographic region for a superpopulation code.
func Region(superpop string) string {
	if region, ok := superpopulationRegions[superpop]; ok {
		return region
	}
	return "Unknown"
}
