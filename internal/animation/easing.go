package animation

// Easing names a timing curve over normalized progress.
type Easing string

const (
	EasingLinear     Easing = "linear"
	EasingEaseIn     Easing = "easeIn"
	EasingEaseOut    Easing = "easeOut"
	EasingEaseInOut  Easing = "easeInOut"
	EasingCubicOut   Easing = "cubicOut"
	EasingCubicInOut Easing = "cubicInOut"
)

// Ease applies an easing function to t (0-1).
func Ease(t float64, easing Easing) float64 {
	switch easing {
	case EasingEaseIn:
		return t * t

	case EasingEaseOut:
		return t * (2 - t)

	case EasingEaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t

	case EasingCubicOut:
		t2 := 1 - t
		return 1 - t2*t2*t2

	case EasingCubicInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		t2 := -2*t + 2
		return 1 - t2*t2*t2/2

	default: // linear
		return t
	}
}

// key is one stop of a scalar keyframe track.
type key struct {
	at    float64
	value float64
}

// track interpolates a keyframe track at p with ease-in-out between stops.
// Stops must be sorted by at and span [0,1].
func track(p float64, keys ...key) float64 {
	if len(keys) == 0 {
		return 0
	}
	if p <= keys[0].at {
		return keys[0].value
	}
	if last := keys[len(keys)-1]; p >= last.at {
		return last.value
	}
	for i := 1; i < len(keys); i++ {
		prev, next := keys[i-1], keys[i]
		if p <= next.at {
			span := next.at - prev.at
			if span <= 0 {
				return next.value
			}
			f := Ease((p-prev.at)/span, EasingEaseInOut)
			return prev.value + (next.value-prev.value)*f
		}
	}
	return keys[len(keys)-1].value
}
