package game

// Country registries for the national teams in the roster. Derived
// attributes (continent, flag) are attached to every player record so the
// frontend never needs its own mapping.

var countryToContinent = map[string]string{
	"Argentina":          "South America",
	"Brazil":             "South America",
	"Canada":             "North America",
	"United States":      "North America",
	"Dominican Republic": "North America",
	"China":              "Asia",
	"Japan":              "Asia",
	"Türkiye":            "Europe",
	"France":             "Europe",
	"Germany":            "Europe",
	"Italy":              "Europe",
	"Netherlands":        "Europe",
	"Poland":             "Europe",
	"Serbia":             "Europe",
	"Slovenia":           "Europe",
	"Egypt":              "Africa",
	"Kenya":              "Africa",
}

var countryToFlag = map[string]string{
	"Argentina":          "🇦🇷",
	"Brazil":             "🇧🇷",
	"Canada":             "🇨🇦",
	"China":              "🇨🇳",
	"Dominican Republic": "🇩🇴",
	"Egypt":              "🇪🇬",
	"France":             "🇫🇷",
	"Germany":            "🇩🇪",
	"Italy":              "🇮🇹",
	"Japan":              "🇯🇵",
	"Kenya":              "🇰🇪",
	"Netherlands":        "🇳🇱",
	"Poland":             "🇵🇱",
	"Serbia":             "🇷🇸",
	"Slovenia":           "🇸🇮",
	"Türkiye":            "🇹🇷",
	"United States":      "🇺🇸",
}

// Continent returns the continent for a nationality, or "Unknown".
func Continent(nationality string) string {
	if c, ok := countryToContinent[nationality]; ok {
		return c
	}
	return "Unknown"
}

// FlagEmoji returns the flag emoji for a country, or "".
func FlagEmoji(country string) string {
	return countryToFlag[country]
}
