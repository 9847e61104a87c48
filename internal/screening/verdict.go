package screening

import "github.com/tradesentinel/screening-engine/pkg/models"

// Risk Verdict Classifier
//
// Two-stage design: a continuous score band plus a discrete override table.
// A purely additive score can be offset by enough unrelated positive signals
// to mask a single disqualifying fact; the override guarantees monotonic
// severity for the findings that matter most.
//
// Score bands (score = clamp(100 - penaltyTotal, 0, 100)):
//
//	>= 86   GREEN
//	60..85  YELLOW
//	31..59  RED
//	< 31    BLACK
//
// Overrides, applied after banding and only ever escalating:
//
//	sanctions / wanted / crime / offshore-leaks / debarment  ->  at least RED
//	sanctions / wanted / crime                               ->  BLACK, score capped

// blackCeiling caps the reported score when a critical finding forces BLACK,
// so the number can never visually dilute the disqualifying fact.
const blackCeiling = 25

// forceRedMask lists flag bits that force at least a RED verdict.
const forceRedMask = criticalMask | FlagOffshoreLeak | FlagDebarred

// Clamp bounds a raw running total onto the reportable scale.
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Classify maps a finalized RiskState to its level and reported score.
func Classify(state RiskState) (models.RiskLevel, int) {
	score := Clamp(100 - state.PenaltyTotal())

	level := models.LevelBlack
	switch {
	case score >= 86:
		level = models.LevelGreen
	case score >= 60:
		level = models.LevelYellow
	case score >= 31:
		level = models.LevelRed
	}

	flags := state.Flags()
	if flags.Any(forceRedMask) && level.Rank() < models.LevelRed.Rank() {
		level = models.LevelRed
	}
	if flags.Any(criticalMask) {
		level = models.LevelBlack
		if score > blackCeiling {
			score = blackCeiling
		}
	}
	return level, score
}
