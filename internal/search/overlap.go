package search

// Block is a run of runes shared by two strings: a[A:A+Size] == b[B:B+Size].
type Block struct {
	A    int
	B    int
	Size int
}

// LongestMatch finds the longest block common to a and b, measured in runes.
// Among equally long blocks it returns the one that ends first in a, then
// first in b. The zero Block means the strings share no character.
func LongestMatch(a, b string) Block {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return Block{}
	}

	// prev[j+1] is the length of the common suffix of ra[:i] and rb[:j+1]
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	var best Block
	for i := range ra {
		for j := range rb {
			if ra[i] != rb[j] {
				curr[j+1] = 0
				continue
			}
			k := prev[j] + 1
			curr[j+1] = k
			if k > best.Size {
				best = Block{A: i - k + 1, B: j - k + 1, Size: k}
			}
		}
		prev, curr = curr, prev
	}

	return best
}

// Overlap scores two strings by the length of their longest common block.
// No normalization is applied; callers decide case and whitespace handling.
func Overlap(a, b string) int {
	return LongestMatch(a, b).Size
}
