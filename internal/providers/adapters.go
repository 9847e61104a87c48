// Package providers adapts heterogeneous external registries onto the
// uniform screening.Provider contract. Each external source family has its
// own native confidence scale and tag vocabulary; the adapters normalize
// confidence onto [0,1] and translate dataset names into FlagKind bits
// exactly once here, so no downstream logic ever branches on provider
// identity or re-parses free-text tags.
//
// The raw network clients themselves live outside this engine; adapters
// depend only on the SearchFunc signature they expose.
package providers

import (
	"context"
	"strings"

	"github.com/tradesentinel/screening-engine/internal/screening"
)

// RawHit is a provider-native hit before normalization.
type RawHit struct {
	Name     string   `json:"name"`               // listed name
	Score    float64  `json:"score"`              // provider-native relevance, scale varies by source
	Datasets []string `json:"datasets,omitempty"` // dataset / list identifiers
	Topics   []string `json:"topics,omitempty"`   // topic tags ("sanction", "role.pep", "crime", ...)
}

// SearchFunc is the raw registry lookup implemented by the network-client
// layer.
type SearchFunc func(ctx context.Context, name string) ([]RawHit, error)

// datasetFlagRules maps dataset and topic substrings onto FlagKind bits.
// Checked in order; all matching rules contribute their bits.
var datasetFlagRules = []struct {
	needle string
	flags  screening.FlagKind
}{
	{"sdn", screening.FlagSanctioned | screening.FlagAuthoritative},
	{"ofac", screening.FlagSanctioned | screening.FlagAuthoritative},
	{"un_sc", screening.FlagSanctioned | screening.FlagAuthoritative},
	{"eu_fsf", screening.FlagSanctioned | screening.FlagAuthoritative},
	{"eu_sanctions", screening.FlagSanctioned | screening.FlagAuthoritative},
	{"sanction", screening.FlagSanctioned},
	{"interpol", screening.FlagWanted | screening.FlagAuthoritative},
	{"red_notice", screening.FlagWanted | screening.FlagAuthoritative},
	{"wanted", screening.FlagWanted},
	{"crime", screening.FlagCrime},
	{"role.pep", screening.FlagPEP},
	{"pep", screening.FlagPEP},
	{"icij", screening.FlagOffshoreLeak},
	{"offshore", screening.FlagOffshoreLeak},
	{"panama_papers", screening.FlagOffshoreLeak},
	{"paradise_papers", screening.FlagOffshoreLeak},
	{"pandora_papers", screening.FlagOffshoreLeak},
	{"debar", screening.FlagDebarred},
	{"worldbank", screening.FlagDebarred},
	{"sam_exclusion", screening.FlagDebarred},
	{"denied_persons", screening.FlagExportDenied},
	{"dpl", screening.FlagExportDenied},
	{"entity_list", screening.FlagExportEntityList},
	{"unverified", screening.FlagExportUnverified},
	{"uvl", screening.FlagExportUnverified},
}

// flagsFor classifies a raw hit's datasets and topics into the closed flag
// set. This is the single place free-text tags are interpreted.
func flagsFor(hit RawHit) screening.FlagKind {
	var flags screening.FlagKind
	tags := make([]string, 0, len(hit.Datasets)+len(hit.Topics))
	for _, d := range hit.Datasets {
		tags = append(tags, strings.ToLower(d))
	}
	for _, t := range hit.Topics {
		tags = append(tags, strings.ToLower(t))
	}
	for _, tag := range tags {
		for _, rule := range datasetFlagRules {
			if strings.Contains(tag, rule.needle) {
				flags |= rule.flags
			}
		}
	}
	return flags
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SanctionsSearch wraps a full-text sanctions/watchlist search service that
// reports numeric relevance. MaxNativeScore rescales sources that score
// beyond 1.0 (several score on 0..100 or unbounded tf-idf-like scales).
type SanctionsSearch struct {
	SourceName     string
	MaxNativeScore float64
	Search         SearchFunc
}

func (p *SanctionsSearch) Name() string { return p.SourceName }

// AppliesTo: every entity kind appears on consolidated watchlists.
func (p *SanctionsSearch) AppliesTo(screening.Entity) bool { return true }

func (p *SanctionsSearch) Query(ctx context.Context, name string) ([]screening.Candidate, error) {
	hits, err := p.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	scale := p.MaxNativeScore
	if scale <= 0 {
		scale = 1
	}
	candidates := make([]screening.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, screening.Candidate{
			Label:      hit.Name,
			Confidence: clamp01(hit.Score / scale),
			Flags:      flagsFor(hit),
			Datasets:   hit.Datasets,
		})
	}
	return candidates, nil
}

// WantedNotices wraps a wanted-notice lookup (Red Notice class). These
// registries return names with no numeric confidence, so hits carry
// FlagNameOnly and the matcher falls back to edit distance and containment.
type WantedNotices struct {
	SourceName string
	Search     SearchFunc
}

func (p *WantedNotices) Name() string { return p.SourceName }

// AppliesTo: wanted notices cover natural persons only.
func (p *WantedNotices) AppliesTo(e screening.Entity) bool { return e.Kind == screening.KindPerson }

func (p *WantedNotices) Query(ctx context.Context, name string) ([]screening.Candidate, error) {
	hits, err := p.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	candidates := make([]screening.Candidate, 0, len(hits))
	for _, hit := range hits {
		flags := flagsFor(hit) | screening.FlagWanted | screening.FlagAuthoritative | screening.FlagNameOnly
		candidates = append(candidates, screening.Candidate{
			Label:    hit.Name,
			Flags:    flags,
			Datasets: hit.Datasets,
		})
	}
	return candidates, nil
}

// CorporateRegistry wraps a national corporate registry: a boolean-presence
// source. A registered company is a positive verification, not a hit, so a
// located record yields a bonus-flagged candidate at full confidence.
type CorporateRegistry struct {
	SourceName string
	// Jurisdictions gates applicability: lowercase tokens matched against the
	// entity's free-text country ("uk", "united kingdom"). Tokens of three
	// characters or fewer match whole words only.
	Jurisdictions []string
	Search        SearchFunc
}

func (p *CorporateRegistry) Name() string { return p.SourceName }

func (p *CorporateRegistry) AppliesTo(e screening.Entity) bool {
	if e.Kind != screening.KindCompany {
		return false
	}
	if len(p.Jurisdictions) == 0 {
		return true
	}
	country := strings.ToLower(strings.TrimSpace(e.Country))
	if country == "" {
		return false
	}
	for _, j := range p.Jurisdictions {
		if jurisdictionMatches(country, j) {
			return true
		}
	}
	return false
}

// jurisdictionMatches compares a lowercase free-text country field against
// one gate token. Short tokens ("uk", "us") only match as whole words so a
// country like "Australia" never picks up "us"; longer aliases match by
// containment ("united kingdom" in "united kingdom, england").
func jurisdictionMatches(country, token string) bool {
	if len(token) <= 3 {
		for _, word := range strings.Fields(country) {
			if strings.Trim(word, ".,()") == token {
				return true
			}
		}
		return false
	}
	return strings.Contains(country, token)
}

func (p *CorporateRegistry) Query(ctx context.Context, name string) ([]screening.Candidate, error) {
	hits, err := p.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	candidates := make([]screening.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, screening.Candidate{
			Label:      hit.Name,
			Confidence: 1.0,
			Flags:      screening.FlagRegistryVerified,
			Datasets:   hit.Datasets,
		})
	}
	return candidates, nil
}

// ExportControl wraps a consolidated export-control screening service. Hit
// severity is graded by sub-list (denied persons > entity list > unverified),
// carried in the dataset tags and translated by flagsFor.
type ExportControl struct {
	SourceName string
	Search     SearchFunc
}

func (p *ExportControl) Name() string { return p.SourceName }

func (p *ExportControl) AppliesTo(screening.Entity) bool { return true }

func (p *ExportControl) Query(ctx context.Context, name string) ([]screening.Candidate, error) {
	hits, err := p.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	candidates := make([]screening.Candidate, 0, len(hits))
	for _, hit := range hits {
		flags := flagsFor(hit)
		if !flags.Any(screening.FlagExportDenied | screening.FlagExportEntityList | screening.FlagExportUnverified) {
			// Ungraded hits default to the mildest sub-list rather than
			// being dropped.
			flags |= screening.FlagExportUnverified
		}
		candidates = append(candidates, screening.Candidate{
			Label:      hit.Name,
			Confidence: clamp01(hit.Score),
			Flags:      flags,
			Datasets:   hit.Datasets,
		})
	}
	return candidates, nil
}

// Debarment wraps a development-bank or government debarment list.
type Debarment struct {
	SourceName string
	Search     SearchFunc
}

func (p *Debarment) Name() string { return p.SourceName }

func (p *Debarment) AppliesTo(screening.Entity) bool { return true }

func (p *Debarment) Query(ctx context.Context, name string) ([]screening.Candidate, error) {
	hits, err := p.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	candidates := make([]screening.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, screening.Candidate{
			Label:      hit.Name,
			Confidence: clamp01(hit.Score),
			Flags:      flagsFor(hit) | screening.FlagDebarred,
			Datasets:   hit.Datasets,
		})
	}
	return candidates, nil
}

// OffshoreLeaks wraps an offshore-leaks / shell-structure database.
type OffshoreLeaks struct {
	SourceName string
	Search     SearchFunc
}

func (p *OffshoreLeaks) Name() string { return p.SourceName }

func (p *OffshoreLeaks) AppliesTo(screening.Entity) bool { return true }

func (p *OffshoreLeaks) Query(ctx context.Context, name string) ([]screening.Candidate, error) {
	hits, err := p.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	candidates := make([]screening.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, screening.Candidate{
			Label:      hit.Name,
			Confidence: clamp01(hit.Score),
			Flags:      flagsFor(hit) | screening.FlagOffshoreLeak,
			Datasets:   hit.Datasets,
		})
	}
	return candidates, nil
}

// LEIRegistry wraps a Legal Entity Identifier lookup. An active LEI record
// is a positive verification for companies.
type LEIRegistry struct {
	SourceName string
	Search     SearchFunc
}

func (p *LEIRegistry) Name() string { return p.SourceName }

func (p *LEIRegistry) AppliesTo(e screening.Entity) bool { return e.Kind == screening.KindCompany }

func (p *LEIRegistry) Query(ctx context.Context, name string) ([]screening.Candidate, error) {
	hits, err := p.Search(ctx, name)
	if err != nil {
		return nil, err
	}
	candidates := make([]screening.Candidate, 0, len(hits))
	for _, hit := range hits {
		candidates = append(candidates, screening.Candidate{
			Label:      hit.Name,
			Confidence: 1.0,
			Flags:      screening.FlagLEIVerified,
			Datasets:   hit.Datasets,
		})
	}
	return candidates, nil
}
