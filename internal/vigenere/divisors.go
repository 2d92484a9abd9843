package vigenere

// divisorFrequencies builds the divisor → occurrence-count table that drives
// key length inference. For each distance occurrence, every proper divisor —
// excluding the trivial divisor 1 and the distance itself — is counted once.
// A true key length divides many distances, so it accumulates frequency
// disproportionately versus spurious divisors; counting the distance itself
// would only restate that every number divides itself.
func divisorFrequencies(distances []int, cache factorCache) map[int]int {
	freqs := make(map[int]int)
	for _, distance := range distances {
		if distance < 2 {
			continue
		}
		for _, d := range properDivisors(distance, cache.factors(distance)) {
			freqs[d]++
		}
	}
	return freqs
}

// properDivisors enumerates the products of every nonempty proper sub-multiset
// of factors, i.e. the divisors of n other than 1 and n. Sub-multisets of the
// prime factorization correspond one-to-one with divisors, so enumerating them
// directly yields the same set as permuting factor subsets and deduplicating,
// without the combinatorial blow-up.
func properDivisors(n int, factors []int) []int {
	divisors := []int{1}
	for i := 0; i < len(factors); {
		p := factors[i]
		exp := 1
		for i+exp < len(factors) && factors[i+exp] == p {
			exp++
		}
		i += exp

		base := len(divisors)
		pk := 1
		for e := 1; e <= exp; e++ {
			pk *= p
			for j := 0; j < base; j++ {
				divisors = append(divisors, divisors[j]*pk)
			}
		}
	}

	proper := make([]int, 0, len(divisors))
	for _, d := range divisors {
		if d != 1 && d != n {
			proper = append(proper, d)
		}
	}
	return proper
}
