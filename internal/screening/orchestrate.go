package screening

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tradesentinel/screening-engine/internal/validate"
	"github.com/tradesentinel/screening-engine/pkg/models"
)

// Aggregation Orchestrator
//
// One call to Screen processes one case end to end:
//
//	normalize -> fan out (entity x applicable provider) -> fuzzy match
//	-> fold signals -> classify -> verdict
//
// Provider queries run concurrently with a bounded width and a per-call
// timeout. A provider timing out, erroring, or returning garbage contributes
// nothing — it never aborts the run. The fold only starts after every
// dispatched query has finished or timed out: no speculative partial
// verdicts. Caller cancellation makes the whole run fail; completed findings
// are discarded rather than partially reported.

// ErrNoUsableIdentity rejects cases carrying no screenable identifying data.
var ErrNoUsableIdentity = errors.New("case contains no usable identifying data")

// Options tunes one engine instance.
type Options struct {
	ProviderTimeout time.Duration
	MaxConcurrent   int
	Match           MatchConfig
	Weights         Weights
}

// DefaultOptions returns production defaults.
func DefaultOptions() Options {
	return Options{
		ProviderTimeout: 8 * time.Second,
		MaxConcurrent:   16,
		Match:           DefaultMatchConfig(),
		Weights:         DefaultWeights(),
	}
}

// Engine owns a provider registry and screens cases against it. Stateless
// across runs: every run gets its own RiskState, so concurrent runs never
// share mutable state.
type Engine struct {
	providers []Provider
	matcher   *Matcher
	opts      Options
}

// NewEngine builds an engine over a provider registry.
func NewEngine(providers []Provider, opts Options) *Engine {
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = DefaultOptions().ProviderTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultOptions().MaxConcurrent
	}
	return &Engine{
		providers: providers,
		matcher:   NewMatcher(opts.Match),
		opts:      opts,
	}
}

// Providers exposes the registry size for health reporting.
func (e *Engine) Providers() int { return len(e.providers) }

// fanInResult collects fan-in state under one mutex while queries complete.
type fanInResult struct {
	mu        sync.Mutex
	findings  []Finding
	responded map[string]bool
}

func (r *fanInResult) add(provider string, findings []Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responded[provider] = true
	r.findings = append(r.findings, findings...)
}

// Screen runs the full aggregation for one case.
func (e *Engine) Screen(ctx context.Context, c *models.Case) (*models.Verdict, error) {
	if !c.HasIdentity() {
		return nil, ErrNoUsableIdentity
	}
	start := time.Now()

	// Document-extracted fields supplement the structured ones without
	// overwriting caller-supplied values.
	enriched := *c
	for field, value := range ExtractFields(c.DocumentText) {
		switch field {
		case "vessel":
			if enriched.VesselName == "" {
				enriched.VesselName = value
			}
		case "imo":
			if enriched.VesselIMO == "" {
				enriched.VesselIMO = value
			}
		case "portOfLoading":
			if enriched.PortOfLoading == "" {
				enriched.PortOfLoading = value
			}
		case "portOfDischarge":
			if enriched.PortOfDischarge == "" {
				enriched.PortOfDischarge = value
			}
		case "captain":
			if enriched.Captain == "" {
				enriched.Captain = value
			}
		}
	}

	// An email address alone is screenable identity: no entities to fan out
	// over, but the reputation and validator signals still produce a verdict.
	entities := NormalizeCase(&enriched)
	if len(entities) == 0 && enriched.Email == "" {
		return nil, ErrNoUsableIdentity
	}

	result := &fanInResult{responded: map[string]bool{}}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.MaxConcurrent)

	dispatched := 0
	for _, entity := range entities {
		for _, provider := range e.providers {
			if !provider.AppliesTo(entity) {
				continue
			}
			dispatched++
			entity, provider := entity, provider
			g.Go(func() error {
				// Caller cancellation is the only error that escapes; it
				// tears down the whole run via the group context.
				if err := gctx.Err(); err != nil {
					return err
				}
				findings, ok := e.queryOne(gctx, entity, provider)
				if ok {
					result.add(provider.Name(), findings)
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		// All-or-nothing: discard completed findings on cancellation.
		return nil, err
	}

	log.Printf("[Orchestrator] case fan-out complete: %d entities, %d queries, %d findings",
		len(entities), dispatched, len(result.findings))

	state, validations := e.fold(&enriched, entities, result.findings)
	level, score := Classify(state)

	verdict := &models.Verdict{
		ReportID:         uuid.NewString(),
		RiskLevel:        level,
		RiskScore:        score,
		RedFlags:         state.RedFlags(),
		PositiveSignals:  state.PositiveSignals(),
		DatabasesChecked: sortedKeys(result.responded),
		Entities:         Views(entities),
		Findings:         findingViews(result.findings),
		Validations:      validations,
		ScreenedAt:       start.UTC(),
		DurationMs:       float64(time.Since(start).Microseconds()) / 1000.0,
	}
	return verdict, nil
}

// queryOne performs a single provider call with its timeout, runs the fuzzy
// matcher, and falls back to a surname query for multi-word person names
// that returned nothing. ok is false when the source never responded.
func (e *Engine) queryOne(ctx context.Context, entity Entity, provider Provider) ([]Finding, bool) {
	qctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
	defer cancel()

	candidates, err := provider.Query(qctx, entity.DisplayName)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false
		}
		log.Printf("[Orchestrator] provider %s unavailable for %q: %v", provider.Name(), entity.DisplayName, err)
		return nil, false
	}

	findings := e.matcher.Filter(entity, provider.Name(), candidates)
	if len(candidates) == 0 {
		if surname := Surname(entity); surname != "" {
			fctx, fcancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
			defer fcancel()
			fallback, ferr := provider.Query(fctx, surname)
			if ferr == nil {
				findings = append(findings, e.matcher.SurnameFallback(entity, provider.Name(), fallback)...)
			}
		}
	}
	return findings, true
}

// fold applies every finding and case-level signal into a fresh RiskState.
// The fold is commutative across findings; ordering here is convenience, not
// contract.
func (e *Engine) fold(c *models.Case, entities []Entity, findings []Finding) (RiskState, models.Validations) {
	w := e.opts.Weights
	var state RiskState

	for _, f := range findings {
		state = ApplyAll(state, SignalsFromFinding(f, w))
	}

	// Jurisdiction signals: explicit list, top-level country, party
	// countries, and both ports.
	mentions := append([]string{}, c.Jurisdictions...)
	mentions = append(mentions, c.Country, c.PortOfLoading, c.PortOfDischarge)
	for _, ent := range entities {
		mentions = append(mentions, ent.Country)
	}
	for _, mention := range CaseJurisdictions(mentions...) {
		if sig, ok := SignalFromJurisdiction(mention, ClassifyJurisdiction(mention), w); ok {
			state = Apply(state, sig)
		}
	}

	// Email reputation: case-level address plus per-party addresses.
	emails := map[string]bool{}
	if c.Email != "" {
		emails[c.Email] = true
	}
	for _, ent := range entities {
		if ent.Email != "" {
			emails[ent.Email] = true
		}
	}
	for address := range emails {
		class, domain := ClassifyEmail(address)
		if sig, ok := SignalFromEmail(class, address, domain, w); ok {
			state = Apply(state, sig)
		}
	}

	// Structural identifier checks. Failures are signals, never fatal.
	var validations models.Validations
	if c.IBAN != "" {
		res := validate.IBAN(c.IBAN)
		validations.IBAN = &res
		if !res.Valid {
			state = Apply(state, Signal{
				Delta: w.InvalidIBAN,
				Note:  fmt.Sprintf("IBAN failed validation: %s", res.Reason),
			})
		} else if name, sanctioned := SanctionedIBANCountry(res.Country); sanctioned {
			state = Apply(state, Signal{
				Delta: w.SanctionedIBAN,
				Note:  fmt.Sprintf("IBAN issued in sanctioned jurisdiction (%s)", name),
			})
		}
	}
	if c.SWIFT != "" {
		res := validate.SWIFT(c.SWIFT)
		validations.SWIFT = &res
		if !res.Valid {
			state = Apply(state, Signal{
				Delta: w.InvalidSWIFT,
				Note:  fmt.Sprintf("SWIFT/BIC failed validation: %s", res.Reason),
			})
		}
	}
	if c.VesselIMO != "" {
		res := validate.IMO(c.VesselIMO)
		validations.IMO = &res
		if !res.Valid {
			state = Apply(state, Signal{
				Delta: w.InvalidIMO,
				Note:  fmt.Sprintf("IMO vessel number failed validation: %s", res.Reason),
			})
		}
	}

	// Instrument mentions in the free-text document.
	for _, hit := range ScanInstruments(c.DocumentText) {
		if sig, ok := SignalFromInstrument(hit, w); ok {
			state = Apply(state, sig)
		}
	}

	return state, validations
}

func findingViews(findings []Finding) []models.FindingView {
	views := make([]models.FindingView, 0, len(findings))
	for _, f := range findings {
		views = append(views, models.FindingView{
			Entity:     f.Entity.DisplayName,
			Provider:   f.Provider,
			Label:      f.Candidate.Label,
			MatchScore: f.MatchScore,
			Severity:   f.Severity,
			Datasets:   f.Candidate.Datasets,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Entity != views[j].Entity {
			return views[i].Entity < views[j].Entity
		}
		return views[i].Provider < views[j].Provider
	})
	return views
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
