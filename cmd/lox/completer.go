package main

import (
	"unicode/utf8"

	"lox/interpreter-go/pkg/driver"
	"lox/interpreter-go/pkg/scanner"
)

// isWordBoundary reports whether the rune delimits an identifier for
// completion purposes.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '.', ',', ';',
		'(', ')', '{', '}',
		'+', '-', '*', '/',
		'<', '>', '=', '!':
		return true
	}
	return false
}

// wordBounds returns the word under the cursor and its byte boundaries
// within input. An empty word means the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}
		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}
		end += size
	}

	return input[start:end], start, end
}

// completionCandidates lists everything the prompt can complete: reserved
// words plus every global defined so far in the session, natives included.
func completionCandidates(session *driver.Session) []string {
	candidates := scanner.Keywords()
	candidates = append(candidates, session.Globals().Names()...)
	return candidates
}
