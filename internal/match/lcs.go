package match

// LCS returns the length of the longest common subsequence of two strings,
// measured in runes.
func LCS(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	row := make([]int, len(rb)+1)
	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				row[j] = prev[j-1] + 1
			} else if prev[j] >= row[j-1] {
				row[j] = prev[j]
			} else {
				row[j] = row[j-1]
			}
		}
		prev, row = row, prev
	}
	return prev[len(rb)]
}

// LCSR is the longest common subsequence length divided by the length of
// the longer string, the similarity score used for cognate detection.
func LCSR(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	longer := la
	if lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 0
	}
	return float64(LCS(a, b)) / float64(longer)
}
