package timesync

// Point is one anchor observation: a source-stream time X and the
// target-stream time Y it should map to.
type Point struct {
	X float64
	Y float64
}

// FitLine fits target ≈ slope·source + offset from anchor points using a
// two-point fit averaged over every distinct pair. A degenerate pair with
// equal source times contributes the identity mapping (1, 0), diluting the
// average rather than poisoning it. Fewer than two points yield the identity.
//
// Callers must treat a non-positive slope as invalid and either drop the
// weakest anchor and refit or skip rescaling entirely.
func FitLine(points []Point) (slope, offset float64) {
	if len(points) < 2 {
		return 1, 0
	}

	var slopeSum, offsetSum float64
	pairs := 0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			pairs++
			if points[j].X == points[i].X {
				slopeSum++
				continue
			}
			m := (points[j].Y - points[i].Y) / (points[j].X - points[i].X)
			slopeSum += m
			offsetSum += points[i].Y - m*points[i].X
		}
	}
	return slopeSum / float64(pairs), offsetSum / float64(pairs)
}
