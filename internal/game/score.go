package game

// ComputeTotal values a hand against target. Non-aces are summed first, then
// each ace in hand order takes 11 if that keeps the running total within
// target and 1 otherwise. Greedy: with several aces near the target this is
// not always the best total reachable.
func ComputeTotal(cards []Card, target int) int {
	running := 0
	aces := make([]Card, 0, 4)

	for _, card := range cards {
		if card.IsAce() {
			aces = append(aces, card)
			continue
		}
		running += card.PointValues()[0]
	}

	for _, ace := range aces {
		values := ace.PointValues()
		low, high := values[0], values[1]

		if running+high <= target {
			running += high
		} else {
			running += low
		}
	}

	return running
}

func IsBust(total, target int) bool {
	return total > target
}

func IsExact(total, target int) bool {
	return total == target
}
