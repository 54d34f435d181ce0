package service

import "smart-invest-api/internal/entity"

// fundamentalScore scores a fundamentals snapshot. Each adjustment branches
// on field presence; an unknown field simply skips its term. The result is
// clamped to [0,1], so an empty snapshot yields the neutral 0.5.
func fundamentalScore(snap entity.FundamentalSnapshot) float64 {
	score := 0.5

	if snap.NetIncome != nil && *snap.NetIncome > 0 {
		score += 0.15
	}

	if snap.TrailingPE != nil {
		switch pe := *snap.TrailingPE; {
		case pe <= 25:
			score += 0.10
		case pe <= 50:
			score += 0.02
		default:
			score -= 0.15
		}
	}

	if snap.EPS != nil && *snap.EPS > 0 {
		score += 0.05
	}

	return clamp01(score)
}
