package screening

import "context"

// FlagKind is a 64-bit bitmask classifying what a registry hit means. Adapters
// translate provider-native dataset names and topic strings into these bits
// exactly once at the boundary; everything downstream pattern-matches on the
// closed set instead of re-parsing free text.
type FlagKind uint64

const (
	// Critical registry memberships
	FlagSanctioned FlagKind = 1 << iota // top-tier sanctions list (SDN, UN, EU consolidated)
	FlagWanted                          // internationally wanted person (Red Notice class)
	FlagCrime                           // criminal / enforcement dataset

	// Elevated-scrutiny memberships
	FlagPEP              // politically exposed person
	FlagOffshoreLeak     // offshore-leaks / shell-structure database
	FlagDebarred         // development-bank or government debarment
	FlagExportDenied     // export-control denied-persons list
	FlagExportEntityList // export-control entity list
	FlagExportUnverified // export-control unverified list

	// Positive verifications (score bonuses)
	FlagRegistryVerified // present in an official corporate registry
	FlagLEIVerified      // carries an active Legal Entity Identifier
	FlagPublicFiling     // registered with a public-filings authority

	// Source qualifiers
	FlagAuthoritative // source is authoritative-critical: lower match gate applies
	FlagNameOnly      // source reports names without a numeric confidence
)

// Has reports whether all bits in mask are set.
func (f FlagKind) Has(mask FlagKind) bool { return f&mask == mask }

// Any reports whether at least one bit in mask is set.
func (f FlagKind) Any(mask FlagKind) bool { return f&mask != 0 }

// Critical bits force verdict overrides regardless of the accumulated score.
const criticalMask = FlagSanctioned | FlagWanted | FlagCrime

// Candidate is a raw registry hit after adapter normalization, before fuzzy
// matching. Confidence is always on [0,1]; name-only sources set FlagNameOnly
// and leave it at zero.
type Candidate struct {
	Label      string   // name as listed by the registry
	Confidence float64  // normalized relevance, 0..1
	Flags      FlagKind // closed-set classification of the hit
	Datasets   []string // originating dataset names, for the report only
}

// Provider is the uniform contract wrapping one external registry or
// validator. Implementations are stateless; the orchestrator invokes them
// concurrently across entities.
type Provider interface {
	// Name identifies the source in reports and logs.
	Name() string
	// AppliesTo gates invocation by entity kind and/or country.
	AppliesTo(e Entity) bool
	// Query returns raw candidate hits for a name. An error means the source
	// is unavailable or returned garbage; the orchestrator treats it as "no
	// finding from this source" and never aborts the run over it.
	Query(ctx context.Context, name string) ([]Candidate, error)
}

// Finding is a Candidate that survived fuzzy matching against a specific
// entity. Findings are never deduplicated across providers: redundant
// confirmation from independent sources is itself a signal.
type Finding struct {
	Entity     Entity
	Provider   string
	Candidate  Candidate
	MatchScore float64
	Severity   string // low/medium/high/critical
}

// severityFor derives the reported severity from the hit classification.
func severityFor(flags FlagKind) string {
	switch {
	case flags.Any(FlagSanctioned | FlagWanted):
		return "critical"
	case flags.Any(FlagCrime | FlagExportDenied):
		return "high"
	case flags.Any(FlagPEP | FlagOffshoreLeak | FlagDebarred | FlagExportEntityList | FlagExportUnverified):
		return "medium"
	default:
		return "low"
	}
}
