package fireworks

// Easing maps normalized time in [0,1] to normalized progress.
type Easing func(t float32) float32

func EaseLinear(t float32) float32 { return t }

func EaseOutCubic(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// remap linearly maps v from [inMin,inMax] to [outMin,outMax] without clamping.
func remap(v, inMin, inMax, outMin, outMax float32) float32 {
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}
