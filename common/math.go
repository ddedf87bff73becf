package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	// PixelsPerUnit converts world units to screen pixels.
	PixelsPerUnit = 32.0
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
