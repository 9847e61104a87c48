package models

import "time"

// RiskLevel is the terminal classification of a screening run. Levels are
// strictly ordered; once an override forces a higher level the run can never
// report a lower one.
type RiskLevel string

const (
	LevelGreen  RiskLevel = "GREEN"
	LevelYellow RiskLevel = "YELLOW"
	LevelRed    RiskLevel = "RED"
	LevelBlack  RiskLevel = "BLACK"
)

// Rank returns the severity order of a level (GREEN lowest). Unknown levels
// rank below GREEN so a corrupted value can never mask a real escalation.
func (l RiskLevel) Rank() int {
	switch l {
	case LevelGreen:
		return 1
	case LevelYellow:
		return 2
	case LevelRed:
		return 3
	case LevelBlack:
		return 4
	}
	return 0
}

// EntityView is the reported form of a normalized screening subject.
type EntityView struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	NormalizedName string `json:"normalizedName"`
	Kind           string `json:"kind"` // "company" or "person"
	Role           string `json:"role,omitempty"`
	Country        string `json:"country,omitempty"`
	Email          string `json:"email,omitempty"`
}

// FindingView is a confirmed registry hit as rendered in the report.
type FindingView struct {
	Entity     string   `json:"entity"`
	Provider   string   `json:"provider"`
	Label      string   `json:"label"`
	MatchScore float64  `json:"matchScore"`
	Severity   string   `json:"severity"` // low/medium/high/critical
	Datasets   []string `json:"datasets,omitempty"`
}

// IBANResult reports structural + mod-97 validation of an IBAN.
type IBANResult struct {
	Valid     bool   `json:"valid"`
	Country   string `json:"country,omitempty"`
	Formatted string `json:"formatted,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// SWIFTResult reports structural validation of a SWIFT/BIC code.
type SWIFTResult struct {
	Valid    bool   `json:"valid"`
	Bank     string `json:"bank,omitempty"`
	Country  string `json:"country,omitempty"`
	Location string `json:"location,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// IMOResult reports validation of an IMO vessel number.
type IMOResult struct {
	Valid  bool   `json:"valid"`
	Number string `json:"number,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Validations groups the structural checks performed on case identifiers.
type Validations struct {
	IBAN  *IBANResult  `json:"iban,omitempty"`
	SWIFT *SWIFTResult `json:"swift,omitempty"`
	IMO   *IMOResult   `json:"imo,omitempty"`
}

// Verdict is the sole output artifact of one screening run.
type Verdict struct {
	ReportID         string        `json:"reportId"`
	RiskLevel        RiskLevel     `json:"riskLevel"`
	RiskScore        int           `json:"riskScore"` // 0..100, higher is safer
	RedFlags         []string      `json:"redFlags"`
	PositiveSignals  []string      `json:"positiveSignals"`
	DatabasesChecked []string      `json:"databasesChecked"`
	Entities         []EntityView  `json:"entities"`
	Findings         []FindingView `json:"findings"`
	Validations      Validations   `json:"validations"`
	ScreenedAt       time.Time     `json:"screenedAt"`
	DurationMs       float64       `json:"durationMs"`
}
