package animation

import (
	"math"

	"github.com/richmedia/richmedia/backend-go/internal/document"
)

// Phase is where a layer animation sits in its timeline.
type Phase string

const (
	// PhasePending is before the delay has elapsed.
	PhasePending Phase = "pending"
	// PhaseActive is while progress ramps from 0 to 1 over the duration.
	PhaseActive Phase = "active"
	// PhaseResting is the loopDelay pause between looping cycles.
	PhaseResting Phase = "resting"
	// PhaseSettled is the terminal pose of a non-looping animation.
	PhaseSettled Phase = "settled"
)

// MaxCycle caps State.Cycle so huge elapsed times stay representable in an
// int on every platform.
const MaxCycle = math.MaxInt32

// State is the phase and normalized progress at one instant.
type State struct {
	Phase    Phase   `json:"phase"`
	Progress float64 `json:"progress"`
	Cycle    int     `json:"cycle"`
}

// Loops reports whether the animation repeats. Path presets always loop.
func Loops(anim document.Animation) bool {
	return anim.Loop || anim.Preset.RequiresPath()
}

// StateAt resolves the timeline position of anim at elapsed seconds. Negative
// or NaN elapsed is Pending. Bad durations settle immediately.
func StateAt(anim document.Animation, elapsed float64) State {
	delay := nonNegative(anim.Delay)
	if !(elapsed >= delay) {
		return State{Phase: PhasePending}
	}

	duration := anim.Duration
	if !(duration > 0) || math.IsInf(duration, 0) {
		return State{Phase: PhaseSettled, Progress: 1}
	}

	local := elapsed - delay
	if !Loops(anim) {
		// Compare against the end time itself so elapsed == delay+duration
		// settles exactly, whatever rounding local picks up.
		if !(elapsed < delay+duration) {
			return State{Phase: PhaseSettled, Progress: 1}
		}
		return State{Phase: PhaseActive, Progress: min(local/duration, 1)}
	}

	if math.IsInf(local, 0) || math.IsNaN(local) {
		return State{Phase: PhaseResting, Progress: 1}
	}
	period := duration + nonNegative(anim.LoopDelay)
	cycle := math.Mod(local, period)
	n := int(min(math.Floor(local/period), MaxCycle))
	if cycle < duration {
		return State{Phase: PhaseActive, Progress: cycle / duration, Cycle: n}
	}
	return State{Phase: PhaseResting, Progress: 1, Cycle: n}
}

func nonNegative(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return v
}
