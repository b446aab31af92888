package game

import "sort"

const (
	// roundTopScore is awarded to the closest guess of a round.
	roundTopScore = 100
	// roundScoreStep is the decrement between distinct distance groups.
	roundScoreStep = 10
)

// Guess is one player's submission for a round. Submitted=false means the
// player never answered and ranks below every numeric guess.
type Guess struct {
	ConnectionID string
	Index        int
	Submitted    bool
}

// sentinelDistance ranks absent guesses after any possible numeric distance.
const sentinelDistance = int(^uint(0) >> 1)

// ScoreRound maps a round's correct answer and guesses to per-player point
// deltas. Players are ranked by absolute distance from the correct index;
// the closest group earns 100 points and each following distinct distance
// earns 10 fewer, floored at 0. Equal distances earn equal points. The result
// is deterministic for any input and keyed by connection ID.
func ScoreRound(correctIndex int, guesses []Guess) map[string]int {
	deltas := make(map[string]int, len(guesses))
	if len(guesses) == 0 {
		return deltas
	}

	type ranked struct {
		connID   string
		distance int
	}
	order := make([]ranked, 0, len(guesses))
	for _, g := range guesses {
		d := sentinelDistance
		if g.Submitted {
			d = g.Index - correctIndex
			if d < 0 {
				d = -d
			}
		}
		order = append(order, ranked{connID: g.ConnectionID, distance: d})
	}

	// Stable keeps encounter order among exact ties.
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].distance < order[j].distance
	})

	points := roundTopScore
	prevDistance := order[0].distance
	for _, r := range order {
		if r.distance != prevDistance {
			points -= roundScoreStep
			if points < 0 {
				points = 0
			}
			prevDistance = r.distance
		}
		deltas[r.connID] = points
	}
	return deltas
}
