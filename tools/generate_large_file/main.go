// Large Corpus File Generator
//
// This tool generates a large text file for performance testing and profiling.
// The output mixes line terminators, comment styles, repeated identifiers and
// the occasional oversized line to stress-test the window and interner.
//
// Usage:
//
//	go run main.go > large.txt
//	go run main.go 20000000 > large.txt  # Specify target size in bytes
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	commonWords = []string{
		"the", "of", "and", "a", "to", "in", "is", "you", "that", "it",
		"he", "was", "for", "on", "are", "as", "with", "his", "they", "at",
		"be", "this", "have", "from", "or", "one", "had", "by", "word", "but",
	}

	identifiers = []string{
		"window", "buffer", "lexeme", "offset", "basis", "refill",
		"compaction", "interner", "sentinel", "terminator", "capacity",
		"scanner", "source", "position", "newline",
	}

	comments = []string{
		"//",
		"// ",
		"// keep in sync with the scanner",
		"// terminator handling below",
		"// measured on the large corpus",
	}

	cjkWords = []string{"漢字", "文字列", "テキスト", "走査"}
)

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	bytesWritten := 0
	lineCount := 0

	for bytesWritten < targetSize {
		var output string

		switch rand.Intn(10) {
		case 0, 1, 2, 3: // 40% - Plain word line (LF)
			output = generateWordLine("\n")

		case 4, 5: // 20% - Repeated identifier line, high intern hit rate
			output = generateIdentifierLine()

		case 6: // 10% - CRLF line
			output = generateWordLine("\r\n")

		case 7: // 10% - Comment line, includes the bare and padded forms
			output = comments[rand.Intn(len(comments))] + "\n"

		case 8: // 10% - Line with wide runes and a stray 0xFF byte
			output = generateNoisyLine()

		case 9: // 10% - CR-only line, or rarely an oversized one
			if rand.Intn(20) == 0 {
				output = generateLongLine()
			} else {
				output = generateWordLine("\r")
			}
		}

		fmt.Print(output)
		bytesWritten += len(output)
		lineCount++
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes across %d lines\n", bytesWritten, lineCount)
}

func generateWordLine(terminator string) string {
	n := rand.Intn(12) + 3
	words := make([]string, n)
	for i := range words {
		words[i] = commonWords[rand.Intn(len(commonWords))]
	}
	return strings.Join(words, " ") + terminator
}

func generateIdentifierLine() string {
	ident := identifiers[rand.Intn(len(identifiers))]
	n := rand.Intn(6) + 2
	words := make([]string, n)
	for i := range words {
		words[i] = ident
	}
	return strings.Join(words, "\t") + "\n"
}

func generateNoisyLine() string {
	var sb strings.Builder
	sb.WriteString(cjkWords[rand.Intn(len(cjkWords))])
	sb.WriteByte(' ')
	sb.WriteString(commonWords[rand.Intn(len(commonWords))])
	// A raw 0xFF never appears in UTF-8 text, so the scanner must tell
	// it apart from its own end-of-input marker.
	sb.WriteByte(0xFF)
	sb.WriteString(commonWords[rand.Intn(len(commonWords))])
	sb.WriteByte('\n')
	return sb.String()
}

func generateLongLine() string {
	n := rand.Intn(2048) + 4096
	words := make([]string, n)
	for i := range words {
		words[i] = identifiers[rand.Intn(len(identifiers))]
	}
	return strings.Join(words, " ") + "\n"
}
