package providers

import "github.com/tradesentinel/screening-engine/internal/screening"

// Clients bundles the raw registry lookups supplied by the network-client
// layer. Any nil entry simply leaves that source out of the registry, so a
// deployment can run with whatever subset of sources it has credentials for.
type Clients struct {
	SanctionsSearch SearchFunc // consolidated sanctions/watchlist full-text search
	WantedNotices   SearchFunc // internationally wanted persons (Red Notice class)
	ExportControl   SearchFunc // consolidated export-control screening
	Debarment       SearchFunc // development-bank / government debarment lists
	OffshoreLeaks   SearchFunc // offshore-leaks entity database
	LEILookup       SearchFunc // Legal Entity Identifier registry
	RegistryUK      SearchFunc // national corporate registry, UK
	RegistryUS      SearchFunc // national corporate registries, US state filings
}

// Registry assembles the provider list the orchestrator dispatches over.
// Order is irrelevant: the aggregation fold is commutative.
func Registry(c Clients) []screening.Provider {
	var list []screening.Provider
	if c.SanctionsSearch != nil {
		list = append(list, &SanctionsSearch{SourceName: "consolidated-sanctions", Search: c.SanctionsSearch})
	}
	if c.WantedNotices != nil {
		list = append(list, &WantedNotices{SourceName: "wanted-notices", Search: c.WantedNotices})
	}
	if c.ExportControl != nil {
		list = append(list, &ExportControl{SourceName: "export-control", Search: c.ExportControl})
	}
	if c.Debarment != nil {
		list = append(list, &Debarment{SourceName: "debarment-lists", Search: c.Debarment})
	}
	if c.OffshoreLeaks != nil {
		list = append(list, &OffshoreLeaks{SourceName: "offshore-leaks", Search: c.OffshoreLeaks})
	}
	if c.LEILookup != nil {
		list = append(list, &LEIRegistry{SourceName: "lei-registry", Search: c.LEILookup})
	}
	if c.RegistryUK != nil {
		list = append(list, &CorporateRegistry{
			SourceName:    "corporate-registry-uk",
			Jurisdictions: []string{"united kingdom", "uk", "great britain", "england", "scotland", "wales"},
			Search:        c.RegistryUK,
		})
	}
	if c.RegistryUS != nil {
		list = append(list, &CorporateRegistry{
			SourceName:    "corporate-registry-us",
			Jurisdictions: []string{"united states", "usa", "us", "america"},
			Search:        c.RegistryUS,
		})
	}
	return list
}
