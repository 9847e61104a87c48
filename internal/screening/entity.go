package screening

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/tradesentinel/screening-engine/pkg/models"
)

// EntityKind distinguishes legal entities from natural persons. Registries
// index the two very differently, so providers gate on it.
type EntityKind string

const (
	KindCompany EntityKind = "company"
	KindPerson  EntityKind = "person"
)

// Entity is one deduplicated screening subject. Identity is the normalized
// name; never mutated after creation.
type Entity struct {
	ID             string
	DisplayName    string
	NormalizedName string
	Kind           EntityKind
	Role           string
	Country        string
	Email          string
}

// legalSuffixes marks names that are clearly legal entities. A "company"
// field lacking any of these is still screened as a person: principals are
// routinely disguised as companies in trade documents, and a missed person
// hit is costlier than a redundant query.
var legalSuffixes = []string{
	"ltd", "llc", "gmbh", "inc", "corp", "corporation", "limited", "plc",
	"s.a.", "sa", "ag", "bv", "b.v.", "nv", "oy", "ab", "as", "spa", "s.p.a.",
	"srl", "s.r.l.", "pte", "pty", "kk", "k.k.", "llp", "lp", "co", "company",
	"holdings", "holding", "group", "trading", "fzc", "fze", "fzco", "dmcc",
}

// diacriticStripper decomposes to NFD and drops combining marks, so that
// "Müller" and "Muller" normalize identically.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName produces the canonical identity form of a free-text name:
// case-folded, diacritic-stripped, whitespace-collapsed.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(diacriticStripper, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// looksLikeCompany applies the legal-suffix dictionary to a normalized name.
func looksLikeCompany(normalized string) bool {
	for _, tok := range strings.Split(normalized, " ") {
		tok = strings.Trim(tok, ".,()")
		for _, suffix := range legalSuffixes {
			if tok == suffix {
				return true
			}
		}
	}
	return false
}

// NormalizeCase canonicalizes every party reference on a case into a
// deduplicated, insertion-ordered entity set. First occurrence wins, so
// re-submitting the same case yields the same set. Empty and whitespace-only
// names are silently dropped: partial cases are legitimate input.
func NormalizeCase(c *models.Case) []Entity {
	var (
		out  []Entity
		seen = map[string]EntityKind{}
	)

	add := func(name, role, country, email string, kind EntityKind) {
		normalized := NormalizeName(name)
		if normalized == "" {
			return
		}
		if _, ok := seen[normalized]; ok {
			// A person record identical to an already-queued company is the
			// same physical party; nothing new to screen.
			return
		}
		seen[normalized] = kind
		out = append(out, Entity{
			ID:             uuid.NewString(),
			DisplayName:    strings.TrimSpace(name),
			NormalizedName: normalized,
			Kind:           kind,
			Role:           role,
			Country:        strings.TrimSpace(country),
			Email:          strings.TrimSpace(email),
		})
	}

	classifyCompanyField := func(name string) EntityKind {
		if looksLikeCompany(NormalizeName(name)) {
			return KindCompany
		}
		return KindPerson
	}

	if c.CompanyName != "" {
		add(c.CompanyName, "applicant", c.Country, c.Email, classifyCompanyField(c.CompanyName))
	}
	if c.Representative != "" {
		add(c.Representative, "representative", c.Country, "", KindPerson)
	}
	for _, p := range c.AllParties {
		if p.Company != "" {
			add(p.Company, p.Role, p.Country, p.Email, classifyCompanyField(p.Company))
		}
		if p.Name != "" {
			add(p.Name, p.Role, p.Country, p.Email, KindPerson)
		}
	}
	if c.Captain != "" {
		add(c.Captain, "captain", "", "", KindPerson)
	}
	// Vessels are listed on sanctions registries under their names, same as
	// legal entities, so a named vessel is screened as a company-kind subject.
	if c.VesselName != "" {
		add(c.VesselName, "vessel", "", "", KindCompany)
	}

	return out
}

// Views renders entities in their wire form.
func Views(entities []Entity) []models.EntityView {
	views := make([]models.EntityView, 0, len(entities))
	for _, e := range entities {
		views = append(views, models.EntityView{
			ID:             e.ID,
			DisplayName:    e.DisplayName,
			NormalizedName: e.NormalizedName,
			Kind:           string(e.Kind),
			Role:           e.Role,
			Country:        e.Country,
			Email:          e.Email,
		})
	}
	return views
}
