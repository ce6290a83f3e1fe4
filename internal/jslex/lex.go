// Package jslex is a small JavaScript lexer. It is not a parser: it produces a
// token stream and a comment-free line stream, which is all the structural
// heuristics in this module need.
package jslex

import "strings"

// Kind classifies a token.
type Kind int

const (
	Ident Kind = iota
	String
	Template
	Number
	Regex
	Punct
)

// Token is one lexical token. For String tokens Text holds the unquoted value.
type Token struct {
	Kind Kind
	Text string
	Line int // 1-based
}

// Is reports whether the token is the given punctuation or identifier.
func (t Token) Is(text string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Text == text
}

// Line is one source line with comments blanked out.
type Line struct {
	Number int // 1-based
	Text   string
}

// Lexed is the result of lexing one file.
type Lexed struct {
	Tokens []Token
	Lines  []Line
}

// Lex tokenizes src. Comments are dropped from the token stream and replaced
// by spaces in the line stream, so line numbers stay aligned with the source.
func Lex(src string) Lexed {
	s := &scanner{src: src, line: 1, stripped: []byte(src)}
	s.run()
	raw := strings.Split(string(s.stripped), "\n")
	lines := make([]Line, len(raw))
	for i, l := range raw {
		lines[i] = Line{Number: i + 1, Text: strings.TrimRight(l, "\r")}
	}
	return Lexed{Tokens: s.toks, Lines: lines}
}

type scanner struct {
	src      string
	pos      int
	line     int
	toks     []Token
	stripped []byte
}

func (s *scanner) peek(off int) byte {
	if s.pos+off < len(s.src) {
		return s.src[s.pos+off]
	}
	return 0
}

func (s *scanner) emit(k Kind, text string, line int) {
	s.toks = append(s.toks, Token{Kind: k, Text: text, Line: line})
}

func (s *scanner) run() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			s.pos++
		case c == '/' && s.peek(1) == '/':
			s.lineComment()
		case c == '/' && s.peek(1) == '*':
			s.blockComment()
		case c == '"' || c == '\'':
			s.str(c)
		case c == '`':
			s.template()
		case isIdentStart(c):
			s.ident()
		case isDigit(c) || (c == '.' && isDigit(s.peek(1))):
			s.number()
		case c == '/' && s.regexAllowed():
			s.regex()
		default:
			s.emit(Punct, string(c), s.line)
			s.pos++
		}
	}
}

func (s *scanner) blank(from, to int) {
	for i := from; i < to && i < len(s.stripped); i++ {
		if s.stripped[i] != '\n' {
			s.stripped[i] = ' '
		}
	}
}

func (s *scanner) lineComment() {
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
	s.blank(start, s.pos)
}

func (s *scanner) blockComment() {
	start := s.pos
	s.pos += 2
	for s.pos < len(s.src) {
		if s.src[s.pos] == '*' && s.peek(1) == '/' {
			s.pos += 2
			break
		}
		if s.src[s.pos] == '\n' {
			s.line++
		}
		s.pos++
	}
	s.blank(start, s.pos)
}

func (s *scanner) str(quote byte) {
	line := s.line
	s.pos++
	var b strings.Builder
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == quote {
			s.pos++
			break
		}
		if c == '\n' {
			// unterminated literal; stop at the line end
			break
		}
		if c == '\\' && s.pos+1 < len(s.src) {
			b.WriteByte(unescape(s.src[s.pos+1]))
			if s.src[s.pos+1] == '\n' {
				s.line++
			}
			s.pos += 2
			continue
		}
		b.WriteByte(c)
		s.pos++
	}
	s.emit(String, b.String(), line)
}

func (s *scanner) template() {
	line := s.line
	start := s.pos
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\\' {
			s.pos += 2
			continue
		}
		if c == '\n' {
			s.line++
		}
		s.pos++
		if c == '`' {
			break
		}
	}
	s.emit(Template, s.src[start:min(s.pos, len(s.src))], line)
}

func (s *scanner) ident() {
	start := s.pos
	for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
		s.pos++
	}
	s.emit(Ident, s.src[start:s.pos], s.line)
}

func (s *scanner) number() {
	start := s.pos
	for s.pos < len(s.src) && (isIdentPart(s.src[s.pos]) || s.src[s.pos] == '.') {
		s.pos++
	}
	s.emit(Number, s.src[start:s.pos], s.line)
}

func (s *scanner) regex() {
	start := s.pos
	s.pos++
	inClass := false
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c == '\n' {
			break
		}
		s.pos++
		switch {
		case c == '\\':
			s.pos++
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			for s.pos < len(s.src) && isIdentPart(s.src[s.pos]) {
				s.pos++
			}
			s.emit(Regex, s.src[start:s.pos], s.line)
			return
		}
	}
	s.emit(Regex, s.src[start:min(s.pos, len(s.src))], s.line)
}

// regexAllowed decides whether a '/' starts a regular expression literal
// rather than a division, based on the previous token.
func (s *scanner) regexAllowed() bool {
	if len(s.toks) == 0 {
		return true
	}
	prev := s.toks[len(s.toks)-1]
	switch prev.Kind {
	case Ident:
		switch prev.Text {
		case "return", "typeof", "instanceof", "in", "of", "new", "delete", "void", "throw", "case", "do", "else", "yield", "await":
			return true
		}
		return false
	case Punct:
		return prev.Text != ")" && prev.Text != "]" && prev.Text != "}"
	}
	return false
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	}
	return c
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
