package render

// Interleave writes left/right frames into dst as L,R,L,R... and returns the
// used portion. A nil right duplicates left into both channels. dst must have
// capacity for 2*len(left) samples.
func Interleave(dst, left, right []float64) []float64 {
	if right == nil {
		right = left
	}
	dst = dst[:2*len(left)]
	for i, l := range left {
		dst[2*i] = l
		dst[2*i+1] = right[i]
	}
	return dst
}
