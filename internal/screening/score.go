package screening

import (
	"fmt"
	"sort"
)

// Risk Score Accumulator
//
// Every confirmed finding, jurisdiction classification, and structural
// signal folds into a RiskState through pure Apply calls. Deltas are signed:
// penalties raise accumulated risk, verified positives lower it. The running
// total is unbounded in both directions during aggregation; only the
// classifier clamps it onto the 0..100 report scale.
//
// The fold is commutative: penalties sum, flag bits OR together, and the
// explanation lists are deduplicated and sorted at finalization, so applying
// a fixed signal set in any order produces the same verdict.

// Weights holds every delta magnitude. Values are penalties unless named as
// a bonus; bonuses are stored positive and applied negatively.
type Weights struct {
	Sanctions        int `yaml:"sanctions"`
	Wanted           int `yaml:"wanted"`
	Crime            int `yaml:"crime"`
	PEP              int `yaml:"pep"`
	OffshoreLeak     int `yaml:"offshoreLeak"`
	Debarment        int `yaml:"debarment"`
	ExportDenied     int `yaml:"exportDenied"`
	ExportEntityList int `yaml:"exportEntityList"`
	ExportUnverified int `yaml:"exportUnverified"`

	DisposableEmail int `yaml:"disposableEmail"`
	FreeEmail       int `yaml:"freeEmail"`

	CorporateEmailBonus   int `yaml:"corporateEmailBonus"`
	RegistryVerifiedBonus int `yaml:"registryVerifiedBonus"`
	LEIVerifiedBonus      int `yaml:"leiVerifiedBonus"`
	PublicFilingBonus     int `yaml:"publicFilingBonus"`

	JurisdictionBlacklist int `yaml:"jurisdictionBlacklist"`
	JurisdictionGreylist  int `yaml:"jurisdictionGreylist"`
	JurisdictionSecrecy   int `yaml:"jurisdictionSecrecy"`

	InvalidIBAN    int `yaml:"invalidIban"`
	InvalidSWIFT   int `yaml:"invalidSwift"`
	InvalidIMO     int `yaml:"invalidImo"`
	SanctionedIBAN int `yaml:"sanctionedIban"`

	InstrumentElevated int `yaml:"instrumentElevated"`
	InstrumentCaution  int `yaml:"instrumentCaution"`
}

// DefaultWeights is the baseline delta policy. The relative ordering is the
// contract; the magnitudes themselves are configurable.
func DefaultWeights() Weights {
	return Weights{
		Sanctions:        60,
		Wanted:           50,
		Crime:            40,
		PEP:              25,
		OffshoreLeak:     25,
		Debarment:        25,
		ExportDenied:     40,
		ExportEntityList: 30,
		ExportUnverified: 20,

		DisposableEmail: 25,
		FreeEmail:       10,

		CorporateEmailBonus:   10,
		RegistryVerifiedBonus: 15,
		LEIVerifiedBonus:      10,
		PublicFilingBonus:     10,

		JurisdictionBlacklist: 40,
		JurisdictionGreylist:  20,
		JurisdictionSecrecy:   10,

		InvalidIBAN:    10,
		InvalidSWIFT:   10,
		InvalidIMO:     10,
		SanctionedIBAN: 40,

		InstrumentElevated: 20,
		InstrumentCaution:  10,
	}
}

// Signal is one scoring event. Delta > 0 penalizes, Delta < 0 rewards; Note
// lands in redFlags or positiveSignals accordingly. Flags carries the
// override-relevant classification bits of the underlying fact.
type Signal struct {
	Delta int
	Note  string
	Flags FlagKind
}

// RiskState is the per-run accumulator. One instance per aggregation run,
// owned by that run, discarded after the verdict.
type RiskState struct {
	penaltyTotal int
	flags        FlagKind
	redFlags     []string
	positives    []string
}

// Apply folds one signal into the state and returns the updated state.
func Apply(state RiskState, sig Signal) RiskState {
	state.penaltyTotal += sig.Delta
	state.flags |= sig.Flags
	if sig.Note != "" {
		if sig.Delta > 0 {
			state.redFlags = append(state.redFlags, sig.Note)
		} else if sig.Delta < 0 {
			state.positives = append(state.positives, sig.Note)
		}
	}
	return state
}

// ApplyAll folds a batch of signals.
func ApplyAll(state RiskState, signals []Signal) RiskState {
	for _, sig := range signals {
		state = Apply(state, sig)
	}
	return state
}

// Flags exposes the accumulated classification bits for the classifier.
func (s RiskState) Flags() FlagKind { return s.flags }

// PenaltyTotal exposes the raw running total, used only by the classifier
// and tests. May be negative or exceed 100.
func (s RiskState) PenaltyTotal() int { return s.penaltyTotal }

// RedFlags returns the deduplicated, sorted penalty explanations.
// Overlapping checks legitimately report the same underlying fact; exact
// duplicates add nothing to the report.
func (s RiskState) RedFlags() []string { return dedupSorted(s.redFlags) }

// PositiveSignals returns the deduplicated, sorted bonus explanations.
func (s RiskState) PositiveSignals() []string { return dedupSorted(s.positives) }

func dedupSorted(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SignalsFromFinding expands one confirmed finding into its scoring signals.
// A hit carrying several classifications (sanctioned AND wanted) stacks one
// signal per classification: independent facts, independent penalties.
func SignalsFromFinding(f Finding, w Weights) []Signal {
	type rule struct {
		bit   FlagKind
		delta int
		label string
	}
	rules := []rule{
		{FlagSanctioned, w.Sanctions, "Sanctions-list match"},
		{FlagWanted, w.Wanted, "Wanted-persons match"},
		{FlagCrime, w.Crime, "Criminal/enforcement dataset match"},
		{FlagPEP, w.PEP, "Politically exposed person"},
		{FlagOffshoreLeak, w.OffshoreLeak, "Offshore-leaks database match"},
		{FlagDebarred, w.Debarment, "Debarment-list match"},
		{FlagExportDenied, w.ExportDenied, "Export-control denied-persons match"},
		{FlagExportEntityList, w.ExportEntityList, "Export-control entity-list match"},
		{FlagExportUnverified, w.ExportUnverified, "Export-control unverified-list match"},
	}
	bonuses := []rule{
		{FlagRegistryVerified, -w.RegistryVerifiedBonus, "Company verified in official corporate registry"},
		{FlagLEIVerified, -w.LEIVerifiedBonus, "Active Legal Entity Identifier on record"},
		{FlagPublicFiling, -w.PublicFilingBonus, "Registered with public-filings authority"},
	}

	var signals []Signal
	for _, r := range rules {
		if f.Candidate.Flags.Has(r.bit) {
			signals = append(signals, Signal{
				Delta: r.delta,
				Note:  fmt.Sprintf("%s: %q matched %q (%s)", r.label, f.Entity.DisplayName, f.Candidate.Label, f.Provider),
				Flags: r.bit,
			})
		}
	}
	for _, r := range bonuses {
		if f.Candidate.Flags.Has(r.bit) {
			signals = append(signals, Signal{
				Delta: r.delta,
				Note:  fmt.Sprintf("%s: %q (%s)", r.label, f.Entity.DisplayName, f.Provider),
				Flags: r.bit,
			})
		}
	}
	return signals
}

// SignalFromJurisdiction converts a classified jurisdiction into its signal.
// Standard-tier jurisdictions are silent.
func SignalFromJurisdiction(raw string, tier JurisdictionTier, w Weights) (Signal, bool) {
	var delta int
	switch tier {
	case TierFATFBlacklist, TierSanctioned:
		delta = w.JurisdictionBlacklist
	case TierFATFGreylist:
		delta = w.JurisdictionGreylist
	case TierHighSecrecy:
		delta = w.JurisdictionSecrecy
	default:
		return Signal{}, false
	}
	return Signal{
		Delta: delta,
		Note:  fmt.Sprintf("Jurisdiction %q is classified %s", raw, tier),
	}, true
}

// SignalFromEmail converts an email reputation class into its signal.
func SignalFromEmail(class EmailClass, address, domain string, w Weights) (Signal, bool) {
	switch class {
	case EmailDisposable:
		return Signal{
			Delta: w.DisposableEmail,
			Note:  fmt.Sprintf("Disposable email address %q (%s)", address, domain),
		}, true
	case EmailFree:
		return Signal{
			Delta: w.FreeEmail,
			Note:  fmt.Sprintf("Free non-corporate email address %q", address),
		}, true
	case EmailCorporate:
		return Signal{
			Delta: -w.CorporateEmailBonus,
			Note:  fmt.Sprintf("Corporate email domain %q", domain),
		}, true
	}
	return Signal{}, false
}

// SignalFromInstrument converts a matched instrument rule into its signal.
// Info-tier mentions are recorded without a penalty.
func SignalFromInstrument(hit InstrumentHit, w Weights) (Signal, bool) {
	switch hit.Tier {
	case TierElevated:
		return Signal{
			Delta: w.InstrumentElevated,
			Note:  fmt.Sprintf("High-risk financial instrument mentioned: %s", hit.Name),
		}, true
	case TierCaution:
		return Signal{
			Delta: w.InstrumentCaution,
			Note:  fmt.Sprintf("Financial instrument requiring caution mentioned: %s", hit.Name),
		}, true
	}
	return Signal{}, false
}
