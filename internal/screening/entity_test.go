package screening

import (
	"testing"

	"github.com/tradesentinel/screening-engine/pkg/models"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Global   Trading  LLC ", "global trading llc"},
		{"Müller Gruppe GmbH", "muller gruppe gmbh"},
		{"JOÃO DA SILVA", "joao da silva"},
		{"", ""},
		{"   \t  ", ""},
		{"Société Générale", "societe generale"},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.in); got != tc.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeCase_DedupFirstOccurrenceWins(t *testing.T) {
	c := &models.Case{
		CompanyName: "Acme Trading Ltd",
		AllParties: []models.RawParty{
			{Company: "ACME  TRADING  LTD", Role: "consignee"},
			{Company: "acme trading ltd", Role: "notify party"},
		},
	}

	entities := NormalizeCase(c)
	if len(entities) != 1 {
		t.Fatalf("expected 1 deduplicated entity, got %d", len(entities))
	}
	if entities[0].Role != "applicant" {
		t.Fatalf("expected first occurrence (applicant) to win, got role %q", entities[0].Role)
	}
	if entities[0].NormalizedName != "acme trading ltd" {
		t.Fatalf("unexpected normalized name %q", entities[0].NormalizedName)
	}
}

func TestNormalizeCase_SkipsEmptyNames(t *testing.T) {
	c := &models.Case{
		CompanyName: "  ",
		AllParties: []models.RawParty{
			{Name: "   \t "},
			{Name: "Jane Doe", Role: "beneficiary"},
		},
	}

	entities := NormalizeCase(c)
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	if entities[0].DisplayName != "Jane Doe" {
		t.Fatalf("unexpected entity %q", entities[0].DisplayName)
	}
}

func TestNormalizeCase_CompanyFieldWithoutSuffixScreensAsPerson(t *testing.T) {
	c := &models.Case{CompanyName: "Viktor Ivanov"}

	entities := NormalizeCase(c)
	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	if entities[0].Kind != KindPerson {
		t.Fatalf("name without legal suffix should screen as person, got %s", entities[0].Kind)
	}
}

func TestNormalizeCase_LegalSuffixClassifiesCompany(t *testing.T) {
	cases := []struct {
		name string
		want EntityKind
	}{
		{"Sunrise Exports GmbH", KindCompany},
		{"Oceanic Holdings", KindCompany},
		{"Al Noor Trading FZE", KindCompany},
		{"Pedro Alvarez", KindPerson},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entities := NormalizeCase(&models.Case{CompanyName: tc.name})
			if len(entities) != 1 {
				t.Fatalf("expected 1 entity, got %d", len(entities))
			}
			if entities[0].Kind != tc.want {
				t.Fatalf("kind = %s, want %s", entities[0].Kind, tc.want)
			}
		})
	}
}

func TestNormalizeCase_VesselAndCaptain(t *testing.T) {
	c := &models.Case{
		CompanyName: "Meridian Shipping Ltd",
		VesselName:  "MV Ocean Star",
		Captain:     "Dmitri Volkov",
	}

	entities := NormalizeCase(c)
	if len(entities) != 3 {
		t.Fatalf("expected 3 entities, got %d", len(entities))
	}

	byRole := map[string]Entity{}
	for _, e := range entities {
		byRole[e.Role] = e
	}
	if v, ok := byRole["vessel"]; !ok || v.Kind != KindCompany {
		t.Fatalf("vessel should be screened as company-kind, got %+v", byRole["vessel"])
	}
	if cap, ok := byRole["captain"]; !ok || cap.Kind != KindPerson {
		t.Fatalf("captain should be screened as person, got %+v", byRole["captain"])
	}
}

func TestNormalizeCase_Idempotent(t *testing.T) {
	c := &models.Case{
		CompanyName:    "Acme Trading Ltd",
		Representative: "Jane Doe",
		AllParties: []models.RawParty{
			{Company: "Beta Logistics LLC", Country: "Germany"},
		},
	}

	first := NormalizeCase(c)
	second := NormalizeCase(c)
	if len(first) != len(second) {
		t.Fatalf("entity counts differ across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].NormalizedName != second[i].NormalizedName || first[i].Kind != second[i].Kind {
			t.Fatalf("entity %d differs across runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
