package screening

import "regexp"

// Document Rule Table
//
// Declarative extraction over free-text trade documents. Two rule families
// share one evaluation loop:
//
//   - instrument rules flag financial-instrument mentions whose types are
//     disproportionately used in fraud schemes regardless of the underlying
//     transaction's legitimacy (SBLC leasing, MT799 "proof" messages, ...)
//   - field rules lift bill-of-lading style fields (vessel, ports, captain)
//     out of unstructured text so they can join the normal screening path
//
// Rules are static data; adding a pattern never touches evaluation code.

// InstrumentTier grades how strongly an instrument mention should be
// penalized.
type InstrumentTier int

const (
	TierInfo InstrumentTier = iota
	TierCaution
	TierElevated
)

// InstrumentRule classifies one financial-instrument mention.
type InstrumentRule struct {
	Name    string
	Pattern *regexp.Regexp
	Tier    InstrumentTier
}

// FieldRule lifts one named field out of free text.
type FieldRule struct {
	Field   string
	Pattern *regexp.Regexp
}

var instrumentRules = []InstrumentRule{
	{"standby letter of credit", regexp.MustCompile(`(?i)\bstandby\s+letter\s+of\s+credit\b|\bSBLC\b`), TierElevated},
	{"MT799 free-format message", regexp.MustCompile(`(?i)\bMT[- ]?799\b`), TierElevated},
	{"MT760 guarantee message", regexp.MustCompile(`(?i)\bMT[- ]?760\b`), TierElevated},
	{"bank guarantee", regexp.MustCompile(`(?i)\bbank\s+guarantee\b|\bBG\b(?:\s*/\s*SBLC)?`), TierCaution},
	{"proof of funds letter", regexp.MustCompile(`(?i)\bproof\s+of\s+funds\b|\bPOF\b`), TierCaution},
	{"ready willing and able letter", regexp.MustCompile(`(?i)\bready[, ]+willing\s+and\s+able\b|\bRWA\b`), TierCaution},
	{"irrevocable corporate purchase order", regexp.MustCompile(`(?i)\bICPO\b|\birrevocable\s+corporate\s+purchase\s+order\b`), TierCaution},
	{"letter of credit", regexp.MustCompile(`(?i)\bletter\s+of\s+credit\b|\bL/?C\b`), TierInfo},
	{"bill of lading", regexp.MustCompile(`(?i)\bbill\s+of\s+lading\b|\bB/?L\b`), TierInfo},
}

var fieldRules = []FieldRule{
	{"vessel", regexp.MustCompile(`(?i)\bvessel(?:\s+name)?\s*[:\-]\s*([A-Za-z0-9 .'\-]{2,60})`)},
	{"imo", regexp.MustCompile(`(?i)\bIMO\s*(?:no\.?|number)?\s*[:\-]?\s*(\d{7})\b`)},
	{"portOfLoading", regexp.MustCompile(`(?i)\bport\s+of\s+loading\s*[:\-]\s*([A-Za-z0-9 .,'\-]{2,60})`)},
	{"portOfDischarge", regexp.MustCompile(`(?i)\bport\s+of\s+discharge\s*[:\-]\s*([A-Za-z0-9 .,'\-]{2,60})`)},
	{"captain", regexp.MustCompile(`(?i)\b(?:captain|master)\s*[:\-]\s*([A-Za-z .'\-]{2,60})`)},
}

// InstrumentHit is one matched instrument rule.
type InstrumentHit struct {
	Name string
	Tier InstrumentTier
}

// ScanInstruments evaluates the instrument table against a document. Each
// rule fires at most once per document.
func ScanInstruments(text string) []InstrumentHit {
	if text == "" {
		return nil
	}
	var hits []InstrumentHit
	for _, rule := range instrumentRules {
		if rule.Pattern.MatchString(text) {
			hits = append(hits, InstrumentHit{Name: rule.Name, Tier: rule.Tier})
		}
	}
	return hits
}

// ExtractFields evaluates the field table and returns the first capture per
// field name.
func ExtractFields(text string) map[string]string {
	if text == "" {
		return nil
	}
	fields := map[string]string{}
	for _, rule := range fieldRules {
		if m := rule.Pattern.FindStringSubmatch(text); len(m) > 1 {
			if _, ok := fields[rule.Field]; !ok {
				fields[rule.Field] = trimField(m[1])
			}
		}
	}
	return fields
}

var trailingNoise = regexp.MustCompile(`[\s.,;:\-]+$`)

func trimField(s string) string {
	return trailingNoise.ReplaceAllString(s, "")
}
