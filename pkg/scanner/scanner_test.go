package scanner

import (
	"testing"

	"lox/interpreter-go/pkg/diag"
)

func scanAll(t *testing.T, source string) []Token {
	t.Helper()
	tokens, diags := New(source).Scan()
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", source, diags)
	}
	return tokens
}

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	return types
}

func TestScanOperatorsMaximalMunch(t *testing.T) {
	tokens := scanAll(t, "!= ! == = <= < >= >")
	want := []TokenType{BangEqual, Bang, EqualEqual, Equal, LessEqual, Less, GreaterEqual, Greater, EOF}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("token count: got %d want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestScanNumberLiterals(t *testing.T) {
	tokens := scanAll(t, "123 45.67")
	if tokens[0].Literal != 123.0 {
		t.Fatalf("integer literal: got %v", tokens[0].Literal)
	}
	if tokens[1].Literal != 45.67 {
		t.Fatalf("fractional literal: got %v", tokens[1].Literal)
	}
}

func TestScanTrailingDotIsNotFractional(t *testing.T) {
	tokens := scanAll(t, "123.m")
	want := []TokenType{Number, Dot, Identifier, EOF}
	got := tokenTypes(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
	if tokens[0].Literal != 123.0 {
		t.Fatalf("number before dot: got %v", tokens[0].Literal)
	}
}

func TestScanStringLiteral(t *testing.T) {
	tokens := scanAll(t, "\"hello there\" x")
	if tokens[0].Type != String || tokens[0].Literal != "hello there" {
		t.Fatalf("string token: %+v", tokens[0])
	}
	if tokens[1].Type != Identifier || tokens[1].Lexeme != "x" {
		t.Fatalf("token after string: %+v", tokens[1])
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	tokens := scanAll(t, "class classy _under if iffy")
	want := []TokenType{Class, Identifier, Identifier, If, Identifier, EOF}
	got := tokenTypes(tokens)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d (%q): got %v want %v", i, tokens[i].Lexeme, got[i], want[i])
		}
	}
}

func TestScanLineComments(t *testing.T) {
	tokens := scanAll(t, "// ignored ( } \"\nvar // also ignored\n")
	want := []TokenType{Var, EOF}
	got := tokenTypes(tokens)
	if len(got) != len(want) {
		t.Fatalf("token types: got %v want %v", got, want)
	}
	if tokens[0].Line != 2 {
		t.Fatalf("var on line %d, want 2", tokens[0].Line)
	}
}

func TestScanReportsAllUnterminatedStrings(t *testing.T) {
	// Two unterminated strings on different lines must produce two
	// diagnostics with the correct lines, not just the first.
	source := "\"first\nok;\n\"second"
	tokens, diags := New(source).Scan()
	if len(diags) != 2 {
		t.Fatalf("diagnostics: got %d, want 2 (%v)", len(diags), diags)
	}
	if diags[0].Line != 1 || diags[1].Line != 3 {
		t.Fatalf("diagnostic lines: got %d and %d, want 1 and 3", diags[0].Line, diags[1].Line)
	}
	for _, d := range diags {
		if d.Phase != diag.PhaseScan {
			t.Fatalf("phase: got %v want scan", d.Phase)
		}
		if d.Message != "Unterminated string." {
			t.Fatalf("message: got %q", d.Message)
		}
	}
	// Scanning resumed between the two errors.
	if tokens[0].Type != Identifier || tokens[0].Lexeme != "ok" {
		t.Fatalf("token after first error: %+v", tokens[0])
	}
}

func TestScanUnknownCharactersAreSkippedNotFatal(t *testing.T) {
	tokens, diags := New("var a = 1; @ # var b = 2;").Scan()
	if len(diags) != 2 {
		t.Fatalf("diagnostics: got %d want 2 (%v)", len(diags), diags)
	}
	for _, d := range diags {
		if d.Phase != diag.PhaseScan || d.Line != 1 {
			t.Fatalf("diagnostic: %+v", d)
		}
	}
	// Both declarations still tokenize around the bad characters.
	varCount := 0
	for _, tok := range tokens {
		if tok.Type == Var {
			varCount++
		}
	}
	if varCount != 2 {
		t.Fatalf("var tokens: got %d want 2", varCount)
	}
}

func TestScanLineNumbersAcrossNewlines(t *testing.T) {
	tokens := scanAll(t, "a\nb\n\nc")
	wantLines := []int{1, 2, 4}
	for i, want := range wantLines {
		if tokens[i].Line != want {
			t.Fatalf("token %q on line %d, want %d", tokens[i].Lexeme, tokens[i].Line, want)
		}
	}
}

func TestTokenStringFormat(t *testing.T) {
	tokens := scanAll(t, "(1234 \"hi\"")
	got := []string{tokens[0].String(), tokens[1].String(), tokens[2].String(), tokens[3].String()}
	want := []string{
		"LEFT_PAREN ( null",
		"NUMBER 1234 1234.0",
		"STRING \"hi\" hi",
		"EOF  null",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestFormatNumberLiteral(t *testing.T) {
	if got := FormatNumberLiteral(1234); got != "1234.0" {
		t.Fatalf("integral: got %q", got)
	}
	if got := FormatNumberLiteral(45.67); got != "45.67" {
		t.Fatalf("fractional: got %q", got)
	}
}
