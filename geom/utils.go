package geom

import "math"

func Abs(v Element) Element {
	if v < 0 {
		return -v
	}
	return v
}

func Clamp(v, min, max Element) Element {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func Lerp(a, b, t Element) Element {
	return a + (b-a)*t
}

func Sqrt(v Element) Element {
	return Element(math.Sqrt(float64(v)))
}

// Acos is clamped to [-1, 1] and never returns NaN.
func Acos(v Element) Element {
	return Element(math.Acos(float64(Clamp(v, -1, 1))))
}
