package models

// RawParty is one party record exactly as supplied by the caller. Fields are
// free text; the normalizer is responsible for cleaning them up.
type RawParty struct {
	Company string `json:"company,omitempty"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Country string `json:"country,omitempty"`
	Email   string `json:"email,omitempty"`
}

// Case is the input aggregate for one screening run. Immutable once received:
// the engine reads it, never writes it.
type Case struct {
	CompanyName     string     `json:"companyName,omitempty"`
	Email           string     `json:"email,omitempty"`
	Country         string     `json:"country,omitempty"`
	Representative  string     `json:"representative,omitempty"`
	AllParties      []RawParty `json:"allParties,omitempty"`
	IBAN            string     `json:"iban,omitempty"`
	SWIFT           string     `json:"swift,omitempty"`
	VesselName      string     `json:"vesselName,omitempty"`
	VesselIMO       string     `json:"vesselIMO,omitempty"`
	DocumentText    string     `json:"documentText,omitempty"`
	PortOfLoading   string     `json:"portOfLoading,omitempty"`
	PortOfDischarge string     `json:"portOfDischarge,omitempty"`
	Captain         string     `json:"captain,omitempty"`
	Jurisdictions   []string   `json:"jurisdictions,omitempty"`
}

// HasIdentity reports whether the case carries at least one usable
// identifying field. Cases failing this are rejected before aggregation.
func (c *Case) HasIdentity() bool {
	if c.CompanyName != "" || c.Email != "" {
		return true
	}
	for _, p := range c.AllParties {
		if p.Company != "" || p.Name != "" {
			return true
		}
	}
	return false
}
