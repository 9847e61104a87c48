package screening

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Fuzzy Identity Matcher
//
// Decides whether a raw registry hit actually refers to the queried subject.
// Acceptance is a disjunction of three gates:
//
//	1. confidence >= BaselineThreshold for generic hits
//	2. confidence >= AuthoritativeThreshold when the source is flagged
//	   authoritative-critical — a false negative on a top-tier sanctions or
//	   wanted-persons dataset costs far more than a false positive
//	3. for name-only sources (no numeric confidence): Levenshtein distance
//	   below MaxEditDistance, or substring containment either direction
//
// A numeric-confidence hit below its threshold is accepted only when the
// normalized label equals the normalized query exactly; near-misses from
// scored sources are rejected no matter how close the text looks.
//
// Surviving candidates become Findings, one per candidate per provider.
// A hit tagged PEP additionally emits a separate PEP finding: list membership
// and political exposure are orthogonal signals with independent deltas.

// MatchConfig holds the matcher acceptance thresholds.
type MatchConfig struct {
	BaselineThreshold      float64 `yaml:"baselineThreshold"`
	AuthoritativeThreshold float64 `yaml:"authoritativeThreshold"`
	MaxEditDistance        int     `yaml:"maxEditDistance"`
}

// DefaultMatchConfig returns the production acceptance gates.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		BaselineThreshold:      0.5,
		AuthoritativeThreshold: 0.25,
		MaxEditDistance:        3,
	}
}

// Matcher filters candidates into confirmed findings.
type Matcher struct {
	cfg MatchConfig
}

func NewMatcher(cfg MatchConfig) *Matcher {
	return &Matcher{cfg: cfg}
}

// nameSimilarity scores two normalized names on [0,1] from edit distance,
// with bidirectional containment treated as a strong match.
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if containsEither(a, b) {
		return 0.9
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein.Distance(a, b, nil)
	return 1.0 - float64(dist)/float64(maxLen)
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// accepts applies the three acceptance gates to one candidate.
func (m *Matcher) accepts(entity Entity, c Candidate) (float64, bool) {
	candidateNorm := NormalizeName(c.Label)
	queryNorm := entity.NormalizedName

	if c.Flags.Has(FlagNameOnly) {
		dist := levenshtein.Distance(candidateNorm, queryNorm, nil)
		if dist < m.cfg.MaxEditDistance || containsEither(candidateNorm, queryNorm) {
			return nameSimilarity(candidateNorm, queryNorm), true
		}
		return 0, false
	}

	threshold := m.cfg.BaselineThreshold
	if c.Flags.Has(FlagAuthoritative) && c.Flags.Any(criticalMask) {
		threshold = m.cfg.AuthoritativeThreshold
	}
	if c.Confidence >= threshold {
		return c.Confidence, true
	}
	// A numeric-confidence source can still be rescued by an exact
	// normalized-name match; registries occasionally underscore their own
	// exact hits. Fuzzy tolerance stays reserved for name-only sources.
	if candidateNorm != "" && candidateNorm == queryNorm {
		return 1.0, true
	}
	return 0, false
}

// Filter matches a provider's candidate batch against the queried entity and
// emits the surviving findings. PEP-tagged candidates yield an extra finding
// carrying only the PEP classification.
func (m *Matcher) Filter(entity Entity, provider string, candidates []Candidate) []Finding {
	var findings []Finding
	for _, c := range candidates {
		score, ok := m.accepts(entity, c)
		if !ok {
			continue
		}
		const qualifiers = FlagAuthoritative | FlagNameOnly
		primary := c
		if primary.Flags.Has(FlagPEP) && primary.Flags&^(FlagPEP|qualifiers) != 0 {
			// Split political exposure off into its own finding.
			primary.Flags &^= FlagPEP
			pep := c
			pep.Flags = FlagPEP | (c.Flags & qualifiers)
			findings = append(findings, Finding{
				Entity:     entity,
				Provider:   provider,
				Candidate:  pep,
				MatchScore: score,
				Severity:   severityFor(pep.Flags),
			})
		}
		findings = append(findings, Finding{
			Entity:     entity,
			Provider:   provider,
			Candidate:  primary,
			MatchScore: score,
			Severity:   severityFor(primary.Flags),
		})
	}
	return findings
}

// SurnameFallback filters hits from a surname-only retry query. Registries
// indexed by surname return every listed holder of that surname; a fallback
// hit is only accepted when both the forename and surname of the queried
// person appear in the label (order-insensitive substring match), so a
// same-surname stranger is never confirmed.
func (m *Matcher) SurnameFallback(entity Entity, provider string, candidates []Candidate) []Finding {
	parts := strings.Fields(entity.NormalizedName)
	if len(parts) < 2 {
		return nil
	}
	forename, surname := parts[0], parts[len(parts)-1]

	var confirmed []Candidate
	for _, c := range candidates {
		label := NormalizeName(c.Label)
		if strings.Contains(label, forename) && strings.Contains(label, surname) {
			confirmed = append(confirmed, c)
		}
	}
	return m.Filter(entity, provider, confirmed)
}

// Surname returns the last token of a multi-word person name, or "" when the
// name has no usable surname for a fallback query.
func Surname(e Entity) string {
	if e.Kind != KindPerson {
		return ""
	}
	parts := strings.Fields(e.NormalizedName)
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}
