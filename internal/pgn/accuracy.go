package pgn

import "math"

// accuracyFromAvgCPLoss applies the cumulative-average-to-accuracy
// transform of §4.4. Returns nil for an empty/absent input.
func accuracyFromAvgCPLoss(avgCPLoss *float64) *float64 {
	if avgCPLoss == nil {
		return nil
	}
	acc := 100.0 * math.Exp(-*avgCPLoss/100.0)
	acc = math.Round(acc*100) / 100
	return &acc
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// ComputeAccuracy walks a game's moves in ply order and derives per-side
// centipawn-loss sequences, running accuracy trajectories, and overall
// accuracy scalars (§4.4). Even-indexed plies (0-based) are White's,
// odd-indexed are Black's. hasEval is true iff at least one Move carries a
// numeric eval.
func ComputeAccuracy(moves []Move) (AccuracyBundle, bool) {
	hasEval := false
	for _, m := range moves {
		if m.Eval != nil {
			hasEval = true
			break
		}
	}

	var lastWhite, lastBlack *float64
	var cpLossAll, cpLossWhite, cpLossBlack []float64
	var accPerMoveAll, accPerMoveWhite, accPerMoveBlack []float64

	for i, m := range moves {
		if m.Eval == nil {
			continue
		}
		white := i%2 == 0

		var prev *float64
		if white {
			prev = lastWhite
			lastWhite = m.Eval
		} else {
			prev = lastBlack
			lastBlack = m.Eval
		}

		if prev == nil {
			continue
		}

		cpLoss := math.Abs(*m.Eval-*prev) * 100.0
		cpLossAll = append(cpLossAll, cpLoss)

		avgAll := mean(cpLossAll)
		accAll := accuracyFromAvgCPLoss(&avgAll)
		accPerMoveAll = append(accPerMoveAll, valueOr(accAll, 0))

		if white {
			cpLossWhite = append(cpLossWhite, cpLoss)
			avgWhite := mean(cpLossWhite)
			accWhite := accuracyFromAvgCPLoss(&avgWhite)
			accPerMoveWhite = append(accPerMoveWhite, valueOr(accWhite, 0))
		} else {
			cpLossBlack = append(cpLossBlack, cpLoss)
			avgBlack := mean(cpLossBlack)
			accBlack := accuracyFromAvgCPLoss(&avgBlack)
			accPerMoveBlack = append(accPerMoveBlack, valueOr(accBlack, 0))
		}
	}

	bundle := AccuracyBundle{
		AverageAccuracyPerMove:  accPerMoveAll,
		AvgAccuracyPerMoveWhite: accPerMoveWhite,
		AvgAccuracyPerMoveBlack: accPerMoveBlack,
	}
	if len(cpLossAll) > 0 {
		avg := mean(cpLossAll)
		bundle.AverageAccuracy = accuracyFromAvgCPLoss(&avg)
	}
	if len(cpLossWhite) > 0 {
		avg := mean(cpLossWhite)
		bundle.AvgAccuracyWhite = accuracyFromAvgCPLoss(&avg)
	}
	if len(cpLossBlack) > 0 {
		avg := mean(cpLossBlack)
		bundle.AvgAccuracyBlack = accuracyFromAvgCPLoss(&avg)
	}

	return bundle, hasEval
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// ReconstructOpeningAccuracy recovers the opening-phase and after-opening
// average accuracy from a cumulative running-average trajectory, per
// §4.4. Requires len(trajectory) > openingMoves; returns ok=false
// otherwise.
func ReconstructOpeningAccuracy(trajectory []float64, openingMoves int) (openingAvg, afterAvg float64, ok bool) {
	n := len(trajectory)
	if n <= openingMoves {
		return 0, 0, false
	}

	openingAvg = trajectory[openingMoves-1]
	finalAvg := trajectory[n-1]

	totalSum := finalAvg * float64(n)
	openingSum := openingAvg * float64(openingMoves)
	nAfter := n - openingMoves
	if nAfter <= 0 {
		return 0, 0, false
	}

	afterAvg = (totalSum - openingSum) / float64(nAfter)
	return openingAvg, afterAvg, true
}
