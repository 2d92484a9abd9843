package vigenere

// primeFactors returns the prime factors of n in ascending order with
// multiplicity, by trial division. n must be greater than 1.
func primeFactors(n int) []int {
	var factors []int
	d := 2
	for n > 1 {
		for n%d == 0 {
			factors = append(factors, d)
			n /= d
		}
		d++
		if d*d > n {
			if n > 1 {
				factors = append(factors, n)
			}
			break
		}
	}
	return factors
}

// factorCache memoizes factorizations per distinct distance value. Repeat
// distances recur constantly across a single analysis, so the cache pays for
// itself immediately. It never outlives one Crack call.
type factorCache map[int][]int

func (c factorCache) factors(n int) []int {
	if f, ok := c[n]; ok {
		return f
	}
	f := primeFactors(n)
	c[n] = f
	return f
}
