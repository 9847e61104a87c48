package screening

import (
	"reflect"
	"testing"
)

func TestApply_SignedDeltasRouteNotes(t *testing.T) {
	var state RiskState

	state = Apply(state, Signal{Delta: 40, Note: "penalty note"})
	state = Apply(state, Signal{Delta: -10, Note: "bonus note"})
	state = Apply(state, Signal{Delta: 5}) // no note

	if state.PenaltyTotal() != 35 {
		t.Fatalf("penaltyTotal = %d, want 35", state.PenaltyTotal())
	}
	if got := state.RedFlags(); !reflect.DeepEqual(got, []string{"penalty note"}) {
		t.Fatalf("redFlags = %v", got)
	}
	if got := state.PositiveSignals(); !reflect.DeepEqual(got, []string{"bonus note"}) {
		t.Fatalf("positives = %v", got)
	}
}

func TestApply_Commutative(t *testing.T) {
	signals := []Signal{
		{Delta: 60, Note: "sanctions", Flags: FlagSanctioned},
		{Delta: 25, Note: "pep", Flags: FlagPEP},
		{Delta: -15, Note: "registry verified", Flags: FlagRegistryVerified},
		{Delta: 10, Note: "secrecy jurisdiction"},
		{Delta: -10, Note: "corporate email"},
	}

	permutations := [][]int{
		{0, 1, 2, 3, 4},
		{4, 3, 2, 1, 0},
		{2, 0, 4, 1, 3},
		{1, 4, 0, 3, 2},
	}

	var reference *RiskState
	for _, perm := range permutations {
		var state RiskState
		for _, idx := range perm {
			state = Apply(state, signals[idx])
		}
		if reference == nil {
			s := state
			reference = &s
			continue
		}
		if state.PenaltyTotal() != reference.PenaltyTotal() {
			t.Fatalf("permutation %v: penaltyTotal %d != %d", perm, state.PenaltyTotal(), reference.PenaltyTotal())
		}
		if state.Flags() != reference.Flags() {
			t.Fatalf("permutation %v: flags %v != %v", perm, state.Flags(), reference.Flags())
		}
		if !reflect.DeepEqual(state.RedFlags(), reference.RedFlags()) {
			t.Fatalf("permutation %v: redFlags differ", perm)
		}
		if !reflect.DeepEqual(state.PositiveSignals(), reference.PositiveSignals()) {
			t.Fatalf("permutation %v: positives differ", perm)
		}
		refLevel, refScore := Classify(*reference)
		level, score := Classify(state)
		if level != refLevel || score != refScore {
			t.Fatalf("permutation %v: verdict %s/%d != %s/%d", perm, level, score, refLevel, refScore)
		}
	}
}

func TestRedFlags_DeduplicatedAndSorted(t *testing.T) {
	var state RiskState
	state = Apply(state, Signal{Delta: 10, Note: "zeta flag"})
	state = Apply(state, Signal{Delta: 10, Note: "alpha flag"})
	state = Apply(state, Signal{Delta: 10, Note: "zeta flag"})

	want := []string{"alpha flag", "zeta flag"}
	if got := state.RedFlags(); !reflect.DeepEqual(got, want) {
		t.Fatalf("redFlags = %v, want %v", got, want)
	}
	// Deduplication affects reporting only; both penalties still count.
	if state.PenaltyTotal() != 30 {
		t.Fatalf("penaltyTotal = %d, want 30", state.PenaltyTotal())
	}
}

func TestSignalsFromFinding_StacksIndependentClassifications(t *testing.T) {
	w := DefaultWeights()
	f := Finding{
		Entity:   Entity{DisplayName: "Viktor Ivanov"},
		Provider: "consolidated",
		Candidate: Candidate{
			Label: "Viktor IVANOV",
			Flags: FlagSanctioned | FlagWanted,
		},
	}

	signals := SignalsFromFinding(f, w)
	if len(signals) != 2 {
		t.Fatalf("expected 2 stacked signals, got %d", len(signals))
	}
	total := 0
	for _, sig := range signals {
		total += sig.Delta
	}
	if total != w.Sanctions+w.Wanted {
		t.Fatalf("stacked delta = %d, want %d", total, w.Sanctions+w.Wanted)
	}
}

func TestSignalsFromFinding_BonusesAreNegative(t *testing.T) {
	w := DefaultWeights()
	f := Finding{
		Entity:    Entity{DisplayName: "Acme Trading Ltd"},
		Provider:  "companies-house",
		Candidate: Candidate{Label: "ACME TRADING LTD", Flags: FlagRegistryVerified},
	}

	signals := SignalsFromFinding(f, w)
	if len(signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(signals))
	}
	if signals[0].Delta != -w.RegistryVerifiedBonus {
		t.Fatalf("registry verification delta = %d, want %d", signals[0].Delta, -w.RegistryVerifiedBonus)
	}
}

func TestSignalFromJurisdiction(t *testing.T) {
	w := DefaultWeights()
	cases := []struct {
		tier      JurisdictionTier
		wantDelta int
		wantOK    bool
	}{
		{TierFATFBlacklist, w.JurisdictionBlacklist, true},
		{TierSanctioned, w.JurisdictionBlacklist, true},
		{TierFATFGreylist, w.JurisdictionGreylist, true},
		{TierHighSecrecy, w.JurisdictionSecrecy, true},
		{TierStandard, 0, false},
	}
	for _, tc := range cases {
		sig, ok := SignalFromJurisdiction("somewhere", tc.tier, w)
		if ok != tc.wantOK {
			t.Errorf("tier %v: ok = %v, want %v", tc.tier, ok, tc.wantOK)
			continue
		}
		if ok && sig.Delta != tc.wantDelta {
			t.Errorf("tier %v: delta = %d, want %d", tc.tier, sig.Delta, tc.wantDelta)
		}
	}
}

func TestSignalFromEmail(t *testing.T) {
	w := DefaultWeights()

	sig, ok := SignalFromEmail(EmailDisposable, "x@mailinator.com", "mailinator.com", w)
	if !ok || sig.Delta != w.DisposableEmail {
		t.Fatalf("disposable: ok=%v delta=%d", ok, sig.Delta)
	}
	sig, ok = SignalFromEmail(EmailFree, "x@gmail.com", "gmail.com", w)
	if !ok || sig.Delta != w.FreeEmail {
		t.Fatalf("free: ok=%v delta=%d", ok, sig.Delta)
	}
	sig, ok = SignalFromEmail(EmailCorporate, "x@acme.example", "acme.example", w)
	if !ok || sig.Delta != -w.CorporateEmailBonus {
		t.Fatalf("corporate: ok=%v delta=%d", ok, sig.Delta)
	}
	if _, ok = SignalFromEmail(EmailUnknown, "garbage", "", w); ok {
		t.Fatal("unknown class must not emit a signal")
	}
}
