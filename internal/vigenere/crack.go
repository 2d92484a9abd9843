package vigenere

import (
	"fmt"
	"log/slog"
	"strings"
)

// DefaultMostCommonLetter assumes the plaintext language's most frequent
// letter. 'E' holds for almost every language written in the Latin alphabet.
const DefaultMostCommonLetter = 'E'

// WarnTextLength is the ciphertext length above which Crack warns about the
// memory cost of the ngram scan. Longer inputs still run in full; nothing is
// truncated.
const WarnTextLength = 1 << 16

// Options tunes the cracking pipeline. The zero value selects ngrams of
// length 3 through 16, 'E' as the assumed most common plaintext letter, and
// the default slog logger. The logger controls diagnostics only; it never
// changes the computed result.
type Options struct {
	MinNgram         int
	MaxNgram         int
	MostCommonLetter byte
	Logger           *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MinNgram <= 0 {
		o.MinNgram = DefaultMinNgram
	}
	if o.MaxNgram <= 0 {
		o.MaxNgram = DefaultMaxNgram
	}
	if o.MostCommonLetter == 0 {
		o.MostCommonLetter = DefaultMostCommonLetter
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Report carries the diagnostic counters accumulated across the pipeline
// stages. It describes how strong the Kasiski signal was, not whether the
// recovered key is correct.
type Report struct {
	TextLength          int `json:"text_length"`
	RepeatedNgrams      int `json:"repeated_ngrams"`
	DistanceCount       int `json:"distance_count"`
	UniqueDivisors      int `json:"unique_divisors"`
	DivisorObservations int `json:"divisor_observations"`
	SelectedFrequency   int `json:"selected_frequency"`
}

// Result is the outcome of a successful crack.
type Result struct {
	Plaintext  string     `json:"plaintext"`
	Key        string     `json:"key"`
	KeyLength  int        `json:"key_length"`
	Confidence float64    `json:"confidence"`
	Advisories []Advisory `json:"advisories,omitempty"`
	Report     Report     `json:"report"`
}

// Crack recovers the key and plaintext of cipher without prior key knowledge.
//
// The pipeline runs to completion on the calling goroutine: normalize, find
// repeated ngrams, compute all pairwise occurrence distances, rank candidate
// key lengths by divisor frequency, then recover the key per column by
// frequency analysis. Each intermediate structure is dropped as soon as the
// next stage has consumed it.
//
// Crack fails with ErrInsufficientSignal when the text contains no usable
// repetition — too short, too random, or too low-redundancy to carry a
// Kasiski signal. Whenever any key length candidate exists, Crack returns its
// best guess; low confidence and per-column ambiguity are reported, not
// fatal.
func Crack(cipher string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger

	cipher = Normalize(cipher)
	if len(cipher) > WarnTextLength {
		log.Warn("long ciphertext; ngram analysis may use large amounts of memory",
			"length", len(cipher),
			"threshold", WarnTextLength,
		)
	}

	log.Debug("finding repeated ngrams", "length", len(cipher),
		"min_ngram", opts.MinNgram, "max_ngram", opts.MaxNgram)
	repeats := findRepeats(cipher, opts.MinNgram, opts.MaxNgram)

	log.Debug("computing occurrence distances", "repeated_ngrams", len(repeats))
	distances := pairDistances(repeats)
	report := Report{
		TextLength:     len(cipher),
		RepeatedNgrams: len(repeats),
		DistanceCount:  len(distances),
	}
	repeats = nil

	log.Debug("factoring distances and counting divisors", "distances", report.DistanceCount)
	freqs := divisorFrequencies(distances, make(factorCache))
	distances = nil

	sel, err := selectKeyLength(freqs, report.DistanceCount, log)
	if err != nil {
		return nil, fmt.Errorf("inferring key length from %d distances: %w", report.DistanceCount, err)
	}
	freqs = nil
	report.UniqueDivisors = sel.uniqueCount
	report.DivisorObservations = sel.observations
	report.SelectedFrequency = sel.frequency

	rawKey, advisories := columnLetters(cipher, sel.keyLength, log)

	// The raw key is itself a ciphertext: each column's most frequent letter
	// is the assumed plaintext letter shifted by that column's key offset.
	// Deciphering it against a constant key of the assumed letter applies the
	// per-column correction in one reuse of the shift primitive.
	key, err := Decrypt(rawKey, strings.Repeat(string(opts.MostCommonLetter), sel.keyLength))
	if err != nil {
		return nil, fmt.Errorf("correcting raw key: %w", err)
	}
	log.Info("key recovered", "key", key, "key_length", sel.keyLength, "confidence", sel.confidence)

	plaintext, err := Decrypt(cipher, key)
	if err != nil {
		return nil, fmt.Errorf("deciphering with recovered key: %w", err)
	}

	return &Result{
		Plaintext:  plaintext,
		Key:        key,
		KeyLength:  sel.keyLength,
		Confidence: sel.confidence,
		Advisories: advisories,
		Report:     report,
	}, nil
}
