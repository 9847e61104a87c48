package screening

import "testing"

func hitNames(hits []InstrumentHit) map[string]InstrumentTier {
	out := map[string]InstrumentTier{}
	for _, h := range hits {
		out[h.Name] = h.Tier
	}
	return out
}

func TestScanInstruments(t *testing.T) {
	text := `We hereby confirm issuance of a Standby Letter of Credit (SBLC)
via MT-799 pre-advice, followed by bank guarantee BG/SBLC and proof of funds.
Payment under irrevocable letter of credit per attached bill of lading.`

	hits := hitNames(ScanInstruments(text))

	if tier, ok := hits["standby letter of credit"]; !ok || tier != TierElevated {
		t.Fatalf("SBLC should be elevated, got %v (found=%v)", tier, ok)
	}
	if tier, ok := hits["MT799 free-format message"]; !ok || tier != TierElevated {
		t.Fatalf("MT-799 should be elevated, got %v (found=%v)", tier, ok)
	}
	if tier, ok := hits["bank guarantee"]; !ok || tier != TierCaution {
		t.Fatalf("bank guarantee should be caution, got %v (found=%v)", tier, ok)
	}
	if tier, ok := hits["proof of funds letter"]; !ok || tier != TierCaution {
		t.Fatalf("proof of funds should be caution, got %v (found=%v)", tier, ok)
	}
	if tier, ok := hits["letter of credit"]; !ok || tier != TierInfo {
		t.Fatalf("letter of credit should be info-tier, got %v (found=%v)", tier, ok)
	}
	if tier, ok := hits["bill of lading"]; !ok || tier != TierInfo {
		t.Fatalf("bill of lading should be info-tier, got %v (found=%v)", tier, ok)
	}
}

func TestScanInstruments_FiresOncePerRule(t *testing.T) {
	text := "SBLC then another SBLC and a third standby letter of credit"
	hits := ScanInstruments(text)
	count := 0
	for _, h := range hits {
		if h.Name == "standby letter of credit" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("rule fired %d times, want 1", count)
	}
}

func TestScanInstruments_EmptyAndClean(t *testing.T) {
	if got := ScanInstruments(""); got != nil {
		t.Fatalf("empty document should produce nil, got %v", got)
	}
	if got := ScanInstruments("commercial invoice for 40ft container of textiles"); len(got) != 0 {
		t.Fatalf("clean document should produce no hits, got %v", got)
	}
}

func TestExtractFields(t *testing.T) {
	text := `BILL OF LADING
Vessel: MV Ocean Star
IMO No. 9074729
Port of Loading: Bandar Abbas, Iran
Port of Discharge: Jebel Ali
Master: J. Petrov`

	fields := ExtractFields(text)

	cases := map[string]string{
		"vessel":          "MV Ocean Star",
		"imo":             "9074729",
		"portOfLoading":   "Bandar Abbas, Iran",
		"portOfDischarge": "Jebel Ali",
		"captain":         "J. Petrov",
	}
	for field, want := range cases {
		if got := fields[field]; got != want {
			t.Errorf("field %s = %q, want %q", field, got, want)
		}
	}
}

func TestExtractFields_FirstCaptureWins(t *testing.T) {
	text := "Vessel: First Ship\nVessel: Second Ship"
	fields := ExtractFields(text)
	if fields["vessel"] != "First Ship" {
		t.Fatalf("vessel = %q, want %q", fields["vessel"], "First Ship")
	}
}

func TestExtractFields_Empty(t *testing.T) {
	if got := ExtractFields(""); got != nil {
		t.Fatalf("empty document should produce nil, got %v", got)
	}
}
