package mood

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultMarket is used when neither the region nor the locale names a
// country.
const DefaultMarket = "US"

// DeriveMarket picks the two-letter market code for a request. An explicit
// country code in region wins. A locale-shaped region ("nl-NL") is treated
// like a locale hint. Otherwise the locale hint's region subtag is used, then
// its language code when that doubles as a country ("nl" -> "NL", but not
// "en"). Everything else resolves to DefaultMarket.
func DeriveMarket(region, localeHint string) string {
	region = strings.TrimSpace(region)
	if m, ok := countryCode(region); ok {
		return m
	}
	if strings.ContainsAny(region, "-_") {
		if m, ok := marketFromLocale(region); ok {
			return m
		}
	}
	if m, ok := marketFromLocale(localeHint); ok {
		return m
	}
	return DefaultMarket
}

// countryCode validates s as an ISO 3166-1 alpha-2 country.
func countryCode(s string) (string, bool) {
	if len(s) != 2 {
		return "", false
	}
	r, err := language.ParseRegion(strings.ToUpper(s))
	if err != nil || !r.IsCountry() {
		return "", false
	}
	return r.String(), true
}

func marketFromLocale(hint string) (string, bool) {
	hint = strings.ReplaceAll(strings.TrimSpace(hint), "_", "-")
	if hint == "" {
		return "", false
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return "", false
	}
	if r, conf := tag.Region(); conf == language.Exact && r.IsCountry() {
		return r.String(), true
	}
	base, _ := tag.Base()
	return countryCode(base.String())
}

// LocaleFromAcceptLanguage returns the highest-weighted tag of an
// Accept-Language header, or "" when the header is empty or malformed.
func LocaleFromAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}
