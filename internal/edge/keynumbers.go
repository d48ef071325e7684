package edge

import "math"

// Default key-number frequency table: final-margin values that occur often
// enough to warrant an edge premium when a bet's line and the market's line
// straddle them. Most of the weight sits on 3 and 7.
var DefaultKeyNumbers = map[int]float64{
	3:  0.08,
	7:  0.06,
	10: 0.03,
	6:  0.02,
	14: 0.015,
}

// keyPremium walks every integer strictly between the two absolute lines,
// inclusive of the far end, and accumulates the premium for each key number
// crossed. A line sitting exactly on a key number halves that number's
// contribution: sitting on a number is asymmetric with crossing it.
// Returns the premium as a fraction and the key numbers involved.
func keyPremium(ourLine, marketLine float64, keyNumbers map[int]float64) (float64, []int) {
	lo := math.Min(math.Abs(ourLine), math.Abs(marketLine))
	hi := math.Max(math.Abs(ourLine), math.Abs(marketLine))

	premium := 0.0
	var crossed []int

	for n := int(math.Floor(lo)) + 1; float64(n) <= hi; n++ {
		value, ok := keyNumbers[n]
		if !ok {
			continue
		}

		contribution := value
		if math.Abs(ourLine) == float64(n) || math.Abs(marketLine) == float64(n) {
			contribution /= 2
		}

		premium += contribution
		crossed = append(crossed, n)
	}

	return premium, crossed
}

// crossedMajorKey reports whether 3 or 7 is among the crossed numbers
func crossedMajorKey(crossed []int) bool {
	for _, n := range crossed {
		if n == 3 || n == 7 {
			return true
		}
	}
	return false
}
