package validate

import (
	"strings"

	"github.com/tradesentinel/screening-engine/pkg/models"
)

// SWIFT validates a SWIFT/BIC code: exactly 8 or 11 characters, decomposed as
// 4-letter bank code, 2-letter country code, 2-alphanumeric location code,
// and an optional 3-alphanumeric branch code.
func SWIFT(raw string) models.SWIFTResult {
	bic := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if len(bic) != 8 && len(bic) != 11 {
		return models.SWIFTResult{Valid: false, Reason: "must be 8 or 11 characters"}
	}

	bank := bic[:4]
	country := bic[4:6]
	location := bic[6:8]

	if !isLetters(bank) {
		return models.SWIFTResult{Valid: false, Reason: "bank code must be four letters"}
	}
	if !isLetters(country) {
		return models.SWIFTResult{Valid: false, Reason: "country code must be two letters"}
	}
	if !isAlnum(location) {
		return models.SWIFTResult{Valid: false, Reason: "location code must be alphanumeric"}
	}

	result := models.SWIFTResult{
		Valid:    true,
		Bank:     bank,
		Country:  country,
		Location: location,
	}
	if len(bic) == 11 {
		branch := bic[8:]
		if !isAlnum(branch) {
			return models.SWIFTResult{Valid: false, Reason: "branch code must be alphanumeric"}
		}
		result.Branch = branch
	}
	return result
}

func isAlnum(s string) bool {
	for _, r := range s {
		letter := r >= 'A' && r <= 'Z'
		digit := r >= '0' && r <= '9'
		if !letter && !digit {
			return false
		}
	}
	return s != ""
}
