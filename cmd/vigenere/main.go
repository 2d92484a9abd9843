// Command vigenere is the interactive cryptanalysis shell.
//
// It wraps the pipeline in a small REPL: encrypt or decrypt with a known
// key, crack a ciphertext without one, or hide a text under a random key.
// Text can be typed directly or loaded from a file with @path.
//
// Usage:
//
//	go run ./cmd/vigenere [-verbose|-quiet]
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/cipherworks/cipher-analysis-platform/internal/vigenere"
	apperrors "github.com/cipherworks/cipher-analysis-platform/pkg/errors"
	"github.com/cipherworks/cipher-analysis-platform/pkg/logger"
)

const banner = `vigenere - classical cipher analysis shell
Type "help" for the list of commands.`

const helpText = `Commands:
  encrypt   encrypt a text with a key you provide
  decrypt   decrypt a text with a key you provide
  crack     recover the key of a ciphertext through frequency analysis
  hide      encrypt a text with a random key that is thrown away
  verbose   show the pipeline's intermediate results
  silent    only show final results and errors
  help      show this message
  quit      leave the shell

When asked for a text you can type it directly, or enter @<path> to
load it from a file. Non-alphabetic characters are ignored.`

const (
	randomKeyMinLen = 4
	randomKeyMaxLen = 16
)

func main() {
	verbose := flag.Bool("verbose", false, "log the pipeline's intermediate results")
	quiet := flag.Bool("quiet", false, "only log errors")
	flag.Parse()

	level := "warn"
	switch {
	case *verbose:
		level = "debug"
	case *quiet:
		level = "error"
	}
	logger.Setup(level, "text")

	fmt.Println(banner)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		switch cmd := strings.ToLower(strings.TrimSpace(scanner.Text())); cmd {
		case "":
		case "help", "?":
			fmt.Println(helpText)
		case "encrypt":
			runCipher(scanner, vigenere.Encrypt, "plaintext")
		case "decrypt":
			runCipher(scanner, vigenere.Decrypt, "ciphertext")
		case "crack":
			runCrack(scanner)
		case "hide":
			runHide(scanner)
		case "verbose":
			logger.Setup("debug", "text")
			fmt.Println("verbose mode on")
		case "silent":
			logger.Setup("error", "text")
			fmt.Println("silent mode on")
		case "quit", "exit", "q":
			return
		default:
			fmt.Printf("unknown command %q, type \"help\"\n", cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "reading input: %v\n", err)
		os.Exit(1)
	}
}

func runCipher(scanner *bufio.Scanner, op func(text, key string) (string, error), kind string) {
	text, ok := readText(scanner, kind)
	if !ok {
		return
	}
	fmt.Print("key: ")
	if !scanner.Scan() {
		return
	}
	result, err := op(text, scanner.Text())
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println(result)
}

func runCrack(scanner *bufio.Scanner) {
	text, ok := readText(scanner, "ciphertext")
	if !ok {
		return
	}
	if len(vigenere.Normalize(text)) > vigenere.WarnTextLength {
		fmt.Println("warning: large text, analysis may use significant memory")
	}

	start := time.Now()
	result, err := vigenere.Crack(text, vigenere.Options{})
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientSignal) {
			fmt.Println("no repeated sequences found; the text is too short or the key too long to analyze")
		} else {
			fmt.Printf("error: %v\n", err)
		}
		return
	}

	fmt.Printf("key:        %s\n", result.Key)
	fmt.Printf("key length: %d\n", result.KeyLength)
	fmt.Printf("confidence: %.4f\n", result.Confidence)
	for _, adv := range result.Advisories {
		fmt.Printf("note: column %d: %s\n", adv.Column, adv.Message)
	}
	fmt.Printf("cracked in %s\n", elapsed.Round(time.Millisecond))
	fmt.Println(result.Plaintext)
}

// runHide encrypts with a random key that is never shown: the result can
// only be recovered by cracking it.
func runHide(scanner *bufio.Scanner) {
	text, ok := readText(scanner, "plaintext")
	if !ok {
		return
	}
	keyLen := randomKeyMinLen + rand.Intn(randomKeyMaxLen-randomKeyMinLen+1)
	key := make([]byte, keyLen)
	for i := range key {
		key[i] = vigenere.Alphabet[rand.Intn(len(vigenere.Alphabet))]
	}
	result, err := vigenere.Encrypt(text, string(key))
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("hidden under a discarded %d-letter key:\n", keyLen)
	fmt.Println(result)
}

// readText prompts for a text, loading it from a file when the input starts
// with @. It reports how many characters normalization will drop.
func readText(scanner *bufio.Scanner, kind string) (string, bool) {
	fmt.Printf("%s (or @<path> to load a file): ", kind)
	if !scanner.Scan() {
		return "", false
	}
	text := scanner.Text()
	if path, isFile := strings.CutPrefix(text, "@"); isFile {
		data, err := os.ReadFile(strings.TrimSpace(path))
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return "", false
		}
		text = string(data)
	}
	if dropped := len(text) - len(vigenere.Normalize(text)); dropped > 0 {
		fmt.Printf("ignoring %d non-alphabetic characters\n", dropped)
	}
	return text, true
}
