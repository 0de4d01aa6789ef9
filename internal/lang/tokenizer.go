package lang

import "github.com/dshills/codepad/internal/engine/token"

// Builtin tokenizer names.
const (
	TokenizerCStyle = "c-style"
)

var tokenizers = map[string]Tokenizer{
	TokenizerCStyle: TokenizerFunc(TokenizeCStyle),
}

// TokenizeCStyle scans one token of a C-like language: string and
// character literals, identifiers, numbers and single punctuation bytes.
// Leading blanks are skipped. A run of blanks at the end of text yields an
// empty token at the end.
func TokenizeCStyle(text string) (int, int, token.Class, bool) {
	i := 0
	for i < len(text) && (text[i] == ' ' || text[i] == '\t') {
		i++
	}
	if i == len(text) {
		return i, i, token.Default, true
	}

	rest := text[i:]
	if n := scanCString(rest); n > 0 {
		return i, i + n, token.String, true
	}
	if n := scanCChar(rest); n > 0 {
		return i, i + n, token.CharLiteral, true
	}
	if n := scanIdentifier(rest); n > 0 {
		return i, i + n, token.Identifier, true
	}
	if n := scanCNumber(rest); n > 0 {
		return i, i + n, token.Number, true
	}
	if isPunctuation(rest[0]) {
		return i, i + 1, token.Punctuation, true
	}
	return 0, 0, token.Default, false
}

// scanCString returns the length of a double quoted string at the start of
// s, or 0 if the string is not terminated on this line.
func scanCString(s string) int {
	if s == "" || s[0] != '"' {
		return 0
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '"':
			return i + 1
		case '\\':
			i++
		}
	}
	return 0
}

func scanCChar(s string) int {
	if len(s) < 3 || s[0] != '\'' {
		return 0
	}
	i := 1
	if s[i] == '\\' {
		i++
	}
	i++
	if i < len(s) && s[i] == '\'' {
		return i + 1
	}
	return 0
}

func scanIdentifier(s string) int {
	if s == "" || !isIdentStart(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && (isIdentStart(s[i]) || isDigit(s[i])) {
		i++
	}
	return i
}

// scanCNumber accepts decimal, hex and binary integers and decimal floats
// with an optional exponent, followed by the usual C suffixes.
func scanCNumber(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i

	if i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		i += 2
		j := i
		for i < len(s) && isHexDigit(s[i]) {
			i++
		}
		if i == j {
			return 0
		}
		return i + intSuffix(s[i:])
	}
	if i+1 < len(s) && s[i] == '0' && (s[i+1] == 'b' || s[i+1] == 'B') {
		i += 2
		j := i
		for i < len(s) && (s[i] == '0' || s[i] == '1') {
			i++
		}
		if i == j {
			return 0
		}
		return i + intSuffix(s[i:])
	}

	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return 0
	}

	isFloat := false
	if i < len(s) && s[i] == '.' {
		isFloat = true
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			isFloat = true
			i = j
			for i < len(s) && isDigit(s[i]) {
				i++
			}
		}
	}
	if isFloat {
		if i < len(s) && (s[i] == 'f' || s[i] == 'F') {
			i++
		}
		return i
	}
	return i + intSuffix(s[i:])
}

func intSuffix(s string) int {
	n := 0
	for n < len(s) && n < 3 && (s[n] == 'u' || s[n] == 'U' || s[n] == 'l' || s[n] == 'L') {
		n++
	}
	return n
}

func isPunctuation(c byte) bool {
	switch c {
	case '[', ']', '{', '}', '!', '%', '^', '&', '*', '(', ')', '-', '+', '=', '~',
		'|', '<', '>', '?', ':', '/', ';', ',', '.':
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
