package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/tradesentinel/screening-engine/internal/screening"
)

func canned(hits []RawHit, err error) SearchFunc {
	return func(ctx context.Context, name string) ([]RawHit, error) {
		return hits, err
	}
}

func TestFlagsFor_DatasetTranslation(t *testing.T) {
	cases := []struct {
		name string
		hit  RawHit
		want screening.FlagKind
	}{
		{
			"sdn is sanctioned and authoritative",
			RawHit{Datasets: []string{"us_ofac_sdn"}},
			screening.FlagSanctioned | screening.FlagAuthoritative,
		},
		{
			"red notice is wanted and authoritative",
			RawHit{Datasets: []string{"interpol_red_notice"}},
			screening.FlagWanted | screening.FlagAuthoritative,
		},
		{
			"pep topic",
			RawHit{Topics: []string{"role.pep"}},
			screening.FlagPEP,
		},
		{
			"offshore leak datasets",
			RawHit{Datasets: []string{"icij_panama_papers"}},
			screening.FlagOffshoreLeak,
		},
		{
			"generic sanction topic without authority",
			RawHit{Topics: []string{"sanction"}},
			screening.FlagSanctioned,
		},
		{
			"multiple tags accumulate",
			RawHit{Datasets: []string{"worldbank_debarred"}, Topics: []string{"crime"}},
			screening.FlagDebarred | screening.FlagCrime,
		},
		{
			"unknown tags map to nothing",
			RawHit{Datasets: []string{"some_future_list"}},
			0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := flagsFor(tc.hit); got != tc.want {
				t.Fatalf("flagsFor = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSanctionsSearch_RescalesNativeScores(t *testing.T) {
	p := &SanctionsSearch{
		SourceName:     "watchlist",
		MaxNativeScore: 100,
		Search: canned([]RawHit{
			{Name: "Listed Entity", Score: 85, Datasets: []string{"sdn"}},
			{Name: "Overscored Entity", Score: 140},
		}, nil),
	}

	candidates, err := p.Query(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].Confidence != 0.85 {
		t.Fatalf("confidence = %.2f, want 0.85", candidates[0].Confidence)
	}
	if candidates[1].Confidence != 1.0 {
		t.Fatalf("overscored confidence = %.2f, want clamped 1.0", candidates[1].Confidence)
	}
	if !candidates[0].Flags.Has(screening.FlagSanctioned | screening.FlagAuthoritative) {
		t.Fatalf("sdn hit flags = %v", candidates[0].Flags)
	}
}

func TestWantedNotices_PersonsOnlyAndNameOnly(t *testing.T) {
	p := &WantedNotices{SourceName: "notices", Search: canned([]RawHit{{Name: "Fugitive Name"}}, nil)}

	if p.AppliesTo(screening.Entity{Kind: screening.KindCompany}) {
		t.Fatal("wanted notices must not apply to companies")
	}
	if !p.AppliesTo(screening.Entity{Kind: screening.KindPerson}) {
		t.Fatal("wanted notices must apply to persons")
	}

	candidates, err := p.Query(context.Background(), "fugitive name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := screening.FlagWanted | screening.FlagAuthoritative | screening.FlagNameOnly
	if !candidates[0].Flags.Has(want) {
		t.Fatalf("flags = %v, want at least %v", candidates[0].Flags, want)
	}
	if candidates[0].Confidence != 0 {
		t.Fatalf("name-only source must not claim numeric confidence, got %.2f", candidates[0].Confidence)
	}
}

func TestCorporateRegistry_JurisdictionGate(t *testing.T) {
	p := &CorporateRegistry{
		SourceName:    "uk-registry",
		Jurisdictions: []string{"united kingdom", "uk"},
		Search:        canned([]RawHit{{Name: "Acme Trading Ltd"}}, nil),
	}

	cases := []struct {
		entity screening.Entity
		want   bool
	}{
		{screening.Entity{Kind: screening.KindCompany, Country: "United Kingdom"}, true},
		{screening.Entity{Kind: screening.KindCompany, Country: "UK"}, true},
		{screening.Entity{Kind: screening.KindCompany, Country: "United Kingdom, England"}, true},
		{screening.Entity{Kind: screening.KindCompany, Country: "Germany"}, false},
		// Short tokens must not match inside unrelated country names.
		{screening.Entity{Kind: screening.KindCompany, Country: "Australia"}, false},
		{screening.Entity{Kind: screening.KindCompany, Country: "Ukraine"}, false},
		{screening.Entity{Kind: screening.KindCompany, Country: ""}, false},
		{screening.Entity{Kind: screening.KindPerson, Country: "United Kingdom"}, false},
	}
	for _, tc := range cases {
		if got := p.AppliesTo(tc.entity); got != tc.want {
			t.Errorf("AppliesTo(%s/%q) = %v, want %v", tc.entity.Kind, tc.entity.Country, got, tc.want)
		}
	}

	candidates, err := p.Query(context.Background(), "acme trading ltd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !candidates[0].Flags.Has(screening.FlagRegistryVerified) || candidates[0].Confidence != 1.0 {
		t.Fatalf("registry presence should verify at full confidence, got %+v", candidates[0])
	}
}

func TestExportControl_UngradedHitsDefaultToUnverified(t *testing.T) {
	p := &ExportControl{SourceName: "export", Search: canned([]RawHit{
		{Name: "Graded Corp", Score: 0.9, Datasets: []string{"entity_list"}},
		{Name: "Ungraded Corp", Score: 0.9, Datasets: []string{"consolidated_export"}},
	}, nil)}

	candidates, err := p.Query(context.Background(), "corp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !candidates[0].Flags.Has(screening.FlagExportEntityList) {
		t.Fatalf("graded hit flags = %v", candidates[0].Flags)
	}
	if !candidates[1].Flags.Has(screening.FlagExportUnverified) {
		t.Fatalf("ungraded hit should default to unverified, got %v", candidates[1].Flags)
	}
}

func TestAdapters_PropagateSourceErrors(t *testing.T) {
	sourceErr := errors.New("upstream 503")
	adapters := []screening.Provider{
		&SanctionsSearch{SourceName: "a", Search: canned(nil, sourceErr)},
		&WantedNotices{SourceName: "b", Search: canned(nil, sourceErr)},
		&CorporateRegistry{SourceName: "c", Search: canned(nil, sourceErr)},
		&ExportControl{SourceName: "d", Search: canned(nil, sourceErr)},
		&Debarment{SourceName: "e", Search: canned(nil, sourceErr)},
		&OffshoreLeaks{SourceName: "f", Search: canned(nil, sourceErr)},
		&LEIRegistry{SourceName: "g", Search: canned(nil, sourceErr)},
	}
	for _, p := range adapters {
		if _, err := p.Query(context.Background(), "x"); !errors.Is(err, sourceErr) {
			t.Errorf("%s: error not propagated, got %v", p.Name(), err)
		}
	}
}

func TestDebarmentAndOffshore_AlwaysCarryTheirBit(t *testing.T) {
	deb := &Debarment{SourceName: "deb", Search: canned([]RawHit{{Name: "X", Score: 0.7}}, nil)}
	leaks := &OffshoreLeaks{SourceName: "leaks", Search: canned([]RawHit{{Name: "X", Score: 0.7}}, nil)}

	dc, _ := deb.Query(context.Background(), "x")
	if !dc[0].Flags.Has(screening.FlagDebarred) {
		t.Fatalf("debarment hit flags = %v", dc[0].Flags)
	}
	lc, _ := leaks.Query(context.Background(), "x")
	if !lc[0].Flags.Has(screening.FlagOffshoreLeak) {
		t.Fatalf("offshore hit flags = %v", lc[0].Flags)
	}
}
