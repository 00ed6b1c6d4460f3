package game

import (
	"errors"
	"fmt"
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// Rules is the round-start configuration. DealerStop is independent of
// TargetScore: the variants disagree on how the two relate.
type Rules struct {
	TargetScore int
	DealerStop  int
}

var (
	Classic   = Rules{TargetScore: 21, DealerStop: 17}
	ThirtySix = Rules{TargetScore: 36, DealerStop: 32}
)

// Variants maps preset names to rules.
var Variants = map[string]Rules{
	"21": Classic,
	"36": ThirtySix,
}

func (r Rules) Validate() error {
	if r.TargetScore <= 0 {
		return fmt.Errorf("%w: target score must be positive, got %d", ErrInvalidConfiguration, r.TargetScore)
	}
	if r.DealerStop <= 0 {
		return fmt.Errorf("%w: dealer stop must be positive, got %d", ErrInvalidConfiguration, r.DealerStop)
	}
	if r.DealerStop > r.TargetScore {
		return fmt.Errorf("%w: dealer stop %d exceeds target score %d", ErrInvalidConfiguration, r.DealerStop, r.TargetScore)
	}
	return nil
}
