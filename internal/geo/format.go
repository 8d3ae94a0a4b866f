package geo

import (
	"fmt"

	"golang.org/x/text/language"
)

const kmPerMile = 1.609344

// Regions that customarily display distances in miles.
var mileRegions = map[string]bool{
	"US": true,
	"GB": true,
	"LR": true,
	"MM": true,
}

// UsesMiles reports whether the given BCP 47 locale displays distances in
// miles. Unparseable locales fall back to kilometers.
func UsesMiles(locale string) bool {
	tag, err := language.Parse(locale)
	if err != nil {
		return false
	}
	region, _ := tag.Region()
	return mileRegions[region.String()]
}

// FormatDistance renders a distance in km as a display string in the
// unit appropriate for the locale. Short distances get one decimal,
// longer ones are rounded to whole units.
func FormatDistance(km float64, locale string) string {
	value := km
	unit := "km"
	if UsesMiles(locale) {
		value = km / kmPerMile
		unit = "mi"
	}
	if value < 10 {
		return fmt.Sprintf("%.1f %s", value, unit)
	}
	return fmt.Sprintf("%.0f %s", value, unit)
}
