package screening

import "strings"

// Jurisdiction Rule Table
//
// Static, read-only classification of jurisdictions into risk tiers. Matching
// checks whether the input contains a listed alias rather than ISO-code
// equality: party country fields are free text ("Dubai", "Teheran, Iran",
// "Russian Federation") and must still land in the right tier.

// JurisdictionTier orders jurisdictions by screening severity.
type JurisdictionTier int

const (
	TierStandard JurisdictionTier = iota
	TierHighSecrecy
	TierFATFGreylist
	TierSanctioned // comprehensively sanctioned
	TierFATFBlacklist
)

func (t JurisdictionTier) String() string {
	switch t {
	case TierFATFBlacklist:
		return "FATF blacklist"
	case TierSanctioned:
		return "comprehensively sanctioned"
	case TierFATFGreylist:
		return "FATF greylist"
	case TierHighSecrecy:
		return "high secrecy"
	}
	return "standard"
}

// jurisdictionRule maps free-text country mentions onto a tier. Aliases are
// lowercase substrings; the first rule whose alias is contained in the input
// wins, checked from the most severe tier down. Containment runs one way
// only: short inputs like "US" or "IN" must never match inside a longer
// alias ("russia", "burkina faso") and inherit its tier.
type jurisdictionRule struct {
	tier    JurisdictionTier
	aliases []string
}

var jurisdictionRules = []jurisdictionRule{
	{TierFATFBlacklist, []string{
		"north korea", "dprk", "korea, democratic", "iran", "myanmar", "burma",
	}},
	{TierSanctioned, []string{
		"syria", "cuba", "crimea", "donetsk", "luhansk", "russia", "belarus",
	}},
	{TierFATFGreylist, []string{
		"yemen", "haiti", "mali", "burkina faso", "south sudan", "nigeria",
		"south africa", "vietnam", "monaco", "venezuela", "syrian arab",
		"democratic republic of the congo", "mozambique", "cameroon", "croatia",
		"lebanon", "algeria", "angola", "bulgaria", "cote d'ivoire", "ivory coast",
	}},
	{TierHighSecrecy, []string{
		"cayman", "british virgin islands", "bvi", "panama", "bermuda",
		"seychelles", "belize", "liechtenstein", "marshall islands", "vanuatu",
		"bahamas", "jersey", "guernsey", "isle of man", "gibraltar", "samoa",
		"united arab emirates", "uae", "dubai", "sharjah", "cyprus", "malta",
		"mauritius", "saint kitts", "anguilla",
	}},
}

// ClassifyJurisdiction resolves a free-text country or place mention to its
// risk tier. Empty or unknown input is TierStandard.
func ClassifyJurisdiction(raw string) JurisdictionTier {
	needle := strings.TrimSpace(strings.ToLower(raw))
	if needle == "" {
		return TierStandard
	}
	for _, rule := range jurisdictionRules {
		for _, alias := range rule.aliases {
			if strings.Contains(needle, alias) {
				return rule.tier
			}
		}
	}
	return TierStandard
}

// sanctionedIBANCountries maps IBAN country codes whose issuing jurisdiction
// is comprehensively sanctioned or FATF-blacklisted. An account routed
// through one of these is penalized like the jurisdiction itself.
var sanctionedIBANCountries = map[string]string{
	"IR": "Iran",
	"SY": "Syria",
	"KP": "North Korea",
	"CU": "Cuba",
	"RU": "Russia",
	"BY": "Belarus",
	"MM": "Myanmar",
}

// SanctionedIBANCountry reports whether a two-letter IBAN country code
// belongs to a sanctioned jurisdiction, and its display name.
func SanctionedIBANCountry(code string) (string, bool) {
	name, ok := sanctionedIBANCountries[strings.ToUpper(code)]
	return name, ok
}

// CaseJurisdictions collects every distinct jurisdiction mention on a case:
// the explicit list, the top-level country, and each party country.
func CaseJurisdictions(countries ...string) []string {
	var (
		out  []string
		seen = map[string]bool{}
	)
	for _, c := range countries {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
