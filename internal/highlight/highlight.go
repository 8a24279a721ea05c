// Package highlight decorates C-like/JS-like source text for display.
//
// WHY A TOKENIZER AND NOT REGEX PASSES?
// An ordered chain of regex find-and-replace passes over the text is the
// tempting shortcut, but later passes happily re-match inside markup
// inserted by earlier passes ("class=" looks like an identifier followed
// by an operator), so correctness ends up depending on pass order and
// still breaks on edge cases.
//
// Instead, a single-pass tokenizer produces a flat stream of (kind, span) tokens
// covering the entire input exactly once. The renderer consumes that
// stream once and escapes each span independently — there is no markup in
// the text being scanned, so there is nothing to spuriously re-match.
//
// This is still a best-effort decorator, not a parser with a grammar:
// regex literals, nested template expressions and friends may
// mis-highlight, and that's acceptable. What it never does is emit
// broken markup.
package highlight

import "strings"

// Kind classifies a token for styling. KindText is unstyled filler
// (whitespace, plain identifiers, anything unrecognised) — it exists so
// the token stream covers every byte of the input.
type Kind int

const (
	KindText Kind = iota
	KindKeyword
	KindString
	KindComment
	KindNumber
	KindFunction
	KindProperty
	KindVariable
	KindClassName
	KindConstant
	KindOperator
	KindPunctuation
)

// Class returns the CSS class fragment for this kind, matching the
// stylesheet's `.token.<class>` selectors. Empty for KindText.
func (k Kind) Class() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindString:
		return "string"
	case KindComment:
		return "comment"
	case KindNumber:
		return "number"
	case KindFunction:
		return "function"
	case KindProperty:
		return "property"
	case KindVariable:
		return "variable"
	case KindClassName:
		return "class-name"
	case KindConstant:
		return "constant"
	case KindOperator:
		return "operator"
	case KindPunctuation:
		return "punctuation"
	default:
		return ""
	}
}

// Token is a classified span of the input: [Start, End) in bytes.
type Token struct {
	Kind  Kind   `json:"kind"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// keywords is the recognised keyword set (JS-flavoured, which covers the
// C-like overlap too). Literal-ish words (true, null, undefined …) are
// styled as keywords, as they always were.
var keywords = map[string]bool{
	"function": true, "const": true, "let": true, "var": true,
	"if": true, "else": true, "for": true, "while": true,
	"return": true, "class": true, "import": true, "export": true,
	"from": true, "async": true, "await": true, "try": true,
	"catch": true, "throw": true, "new": true, "this": true,
	"super": true, "extends": true, "static": true, "get": true,
	"set": true, "typeof": true, "instanceof": true, "delete": true,
	"void": true, "yield": true, "in": true, "of": true, "do": true,
	"switch": true, "case": true, "break": true, "continue": true,
	"default": true, "with": true, "debugger": true,
	"true": true, "false": true, "null": true, "undefined": true,
}

// Tokenize scans src into a flat token stream covering every byte.
// Concatenating the spans reproduces src exactly.
func Tokenize(src string) []Token {
	lx := &lexer{src: src}
	lx.run()
	return lx.tokens
}

type lexer struct {
	src    string
	pos    int
	tokens []Token

	// lastSig is the last significant (non-whitespace, non-comment) byte
	// emitted, used for the "identifier after a dot is a property" rule.
	lastSig byte

	// declNext / classNext flag that the next plain identifier follows a
	// declaration keyword (const/let/var) or the class keyword.
	declNext  bool
	classNext bool
}

func (lx *lexer) run() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.scanWhitespace()
		case c == '/' && lx.peek(1) == '/':
			lx.scanLineComment()
		case c == '/' && lx.peek(1) == '*':
			lx.scanBlockComment()
		case c == '"' || c == '\'' || c == '`':
			lx.scanString(c)
		case c >= '0' && c <= '9':
			lx.scanNumber()
		case isIdentStart(c):
			lx.scanIdent()
		case c == ',' || c == ';':
			lx.emit(KindPunctuation, lx.pos, lx.pos+1)
			lx.pos++
		case isOperator(c):
			// One token per operator byte. "===" becomes three operator
			// tokens — visually identical once styled, and it keeps the
			// scanner trivial.
			lx.emit(KindOperator, lx.pos, lx.pos+1)
			lx.pos++
		default:
			lx.emit(KindText, lx.pos, lx.pos+1)
			lx.pos++
		}
	}
}

func (lx *lexer) peek(ahead int) byte {
	if lx.pos+ahead < len(lx.src) {
		return lx.src[lx.pos+ahead]
	}
	return 0
}

// emit appends a token and updates lastSig. Adjacent KindText tokens are
// merged so whitespace runs and stray bytes don't fragment the stream.
func (lx *lexer) emit(kind Kind, start, end int) {
	if kind != KindText {
		lx.lastSig = lx.src[end-1]
	} else {
		for i := start; i < end; i++ {
			if b := lx.src[i]; b != ' ' && b != '\t' && b != '\n' && b != '\r' {
				lx.lastSig = b
			}
		}
	}

	if kind == KindText && len(lx.tokens) > 0 {
		last := &lx.tokens[len(lx.tokens)-1]
		if last.Kind == KindText && last.End == start {
			last.End = end
			return
		}
	}
	lx.tokens = append(lx.tokens, Token{Kind: kind, Start: start, End: end})
}

func (lx *lexer) scanWhitespace() {
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			break
		}
		lx.pos++
	}
	// Emit without touching lastSig or the decl flags — whitespace is
	// transparent to the "what comes next" rules.
	if len(lx.tokens) > 0 && lx.tokens[len(lx.tokens)-1].Kind == KindText &&
		lx.tokens[len(lx.tokens)-1].End == start {
		lx.tokens[len(lx.tokens)-1].End = lx.pos
		return
	}
	lx.tokens = append(lx.tokens, Token{Kind: KindText, Start: start, End: lx.pos})
}

func (lx *lexer) scanLineComment() {
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
	lx.tokens = append(lx.tokens, Token{Kind: KindComment, Start: start, End: lx.pos})
}

func (lx *lexer) scanBlockComment() {
	start := lx.pos
	lx.pos += 2 // consume "/*"
	for lx.pos < len(lx.src) {
		if lx.src[lx.pos] == '*' && lx.peek(1) == '/' {
			lx.pos += 2
			break
		}
		lx.pos++
	}
	// An unterminated block comment runs to EOF — still a comment.
	lx.tokens = append(lx.tokens, Token{Kind: KindComment, Start: start, End: lx.pos})
}

// scanString consumes a quoted literal. Backslash escapes the next byte;
// an unterminated literal runs to end of input. Template literals (`)
// are treated as plain strings — interpolation is not descended into,
// which is an accepted mis-highlight.
func (lx *lexer) scanString(quote byte) {
	start := lx.pos
	lx.pos++ // opening quote
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\\' && lx.pos+1 < len(lx.src) {
			lx.pos += 2
			continue
		}
		if c == quote {
			lx.pos++
			break
		}
		// A bare newline ends a normal string (it was malformed anyway)
		// but not a template literal.
		if c == '\n' && quote != '`' {
			break
		}
		lx.pos++
	}
	lx.emit(KindString, start, lx.pos)
	lx.declNext, lx.classNext = false, false
}

// scanNumber handles decimal (with optional fraction/exponent), hex,
// binary and octal literals.
func (lx *lexer) scanNumber() {
	start := lx.pos

	if lx.src[lx.pos] == '0' && lx.pos+1 < len(lx.src) {
		switch lx.src[lx.pos+1] {
		case 'x', 'X':
			lx.pos += 2
			for lx.pos < len(lx.src) && isHexDigit(lx.src[lx.pos]) {
				lx.pos++
			}
			lx.emit(KindNumber, start, lx.pos)
			return
		case 'b', 'B':
			lx.pos += 2
			for lx.pos < len(lx.src) && (lx.src[lx.pos] == '0' || lx.src[lx.pos] == '1') {
				lx.pos++
			}
			lx.emit(KindNumber, start, lx.pos)
			return
		case 'o', 'O':
			lx.pos += 2
			for lx.pos < len(lx.src) && lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '7' {
				lx.pos++
			}
			lx.emit(KindNumber, start, lx.pos)
			return
		}
	}

	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' && isDigit(lx.peek(1)) {
		lx.pos++
		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
		next := lx.peek(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(lx.peek(2))) {
			lx.pos++ // e
			if lx.src[lx.pos] == '+' || lx.src[lx.pos] == '-' {
				lx.pos++
			}
			for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
				lx.pos++
			}
		}
	}

	lx.emit(KindNumber, start, lx.pos)
}

// scanIdent consumes an identifier and classifies it. Precedence, most
// specific first:
//
//  1. keyword (and remember if it was const/let/var or class)
//  2. name following `class`            → class name
//  3. name following a declaration kw   → declared variable
//  4. name after a dot, then "("        → function (method call)
//  5. name after a dot                  → property
//  6. name followed by "("              → function
//  7. ALL_CAPS name                     → constant
//  8. anything else                     → plain text
func (lx *lexer) scanIdent() {
	start := lx.pos
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}
	word := lx.src[start:lx.pos]

	afterDot := lx.lastSig == '.'
	wasDecl, wasClass := lx.declNext, lx.classNext
	lx.declNext, lx.classNext = false, false

	if keywords[word] {
		switch word {
		case "const", "let", "var":
			lx.declNext = true
		case "class":
			lx.classNext = true
		}
		lx.emit(KindKeyword, start, lx.pos)
		return
	}

	switch {
	case wasClass:
		lx.emit(KindClassName, start, lx.pos)
	case wasDecl:
		lx.emit(KindVariable, start, lx.pos)
	case lx.nextSignificantIs('('):
		lx.emit(KindFunction, start, lx.pos)
	case afterDot:
		lx.emit(KindProperty, start, lx.pos)
	case isAllCaps(word):
		lx.emit(KindConstant, start, lx.pos)
	default:
		lx.emit(KindText, start, lx.pos)
	}
}

// nextSignificantIs reports whether the next non-whitespace byte is c.
func (lx *lexer) nextSignificantIs(c byte) bool {
	for i := lx.pos; i < len(lx.src); i++ {
		b := lx.src[i]
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		return b == c
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') ||
		c >= 0x80 // non-ASCII: treat as identifier, best effort
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isOperator(c byte) bool {
	return strings.IndexByte("+-*/%=!<>&|?:.[](){}~^", c) >= 0
}

// isAllCaps reports whether word looks like a conventional constant:
// an uppercase letter followed by uppercase letters, digits or
// underscores. Single letters qualify, matching the old behaviour.
func isAllCaps(word string) bool {
	if len(word) == 0 || word[0] < 'A' || word[0] > 'Z' {
		return false
	}
	for i := 1; i < len(word); i++ {
		c := word[i]
		if c != '_' && !isDigit(c) && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
