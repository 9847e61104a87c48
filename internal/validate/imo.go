package validate

import (
	"strings"

	"github.com/tradesentinel/screening-engine/pkg/models"
)

// IMO validates an IMO vessel number: seven digits (with or without the
// "IMO" prefix) where the sum of the first six digits multiplied by weights
// 7 down to 2 ends in the seventh digit.
func IMO(raw string) models.IMOResult {
	num := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	num = strings.TrimPrefix(num, "IMO")

	if len(num) != 7 || !isDigits(num) {
		return models.IMOResult{Valid: false, Reason: "must be seven digits"}
	}

	sum := 0
	for i := 0; i < 6; i++ {
		sum += int(num[i]-'0') * (7 - i)
	}
	if sum%10 != int(num[6]-'0') {
		return models.IMOResult{Valid: false, Number: num, Reason: "checksum failed"}
	}
	return models.IMOResult{Valid: true, Number: num}
}
