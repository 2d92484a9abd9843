package vigenere

// pairDistances flattens repeat occurrences into the distances between every
// pair of positions sharing an ngram. All pairs count, not just consecutive
// ones: any two occurrences separated by a multiple of the true key length
// exhibit the Kasiski coincidence, so an ngram with k positions contributes
// exactly k·(k-1)/2 distances.
func pairDistances(repeats map[string][]int) []int {
	var distances []int
	for _, positions := range repeats {
		for j := 1; j < len(positions); j++ {
			for i := 0; i < j; i++ {
				distances = append(distances, positions[j]-positions[i])
			}
		}
	}
	return distances
}
