package lex

import (
	"strings"

	"github.com/dekarrin/grouper/internal/ierrors"
)

// Lexer scans the textual grammar-file format.
type Lexer struct {
	src     []rune
	pos     int
	line    int
	col     int
	pragmas []string
}

// New returns a Lexer over source text.
func New(source string) *Lexer {
	return &Lexer{src: []rune(source), pos: 0, line: 1, col: 1}
}

// Pragmas returns every "%%"-prefixed line encountered so far, with the
// "%%" marker stripped, in source order. Scan must have completed (or at
// least reached past the last pragma line of interest) before this is
// meaningful.
func (lx *Lexer) Pragmas() []string {
	return lx.pragmas
}

func (lx *Lexer) peekCh() rune {
	if lx.pos >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *Lexer) peekAt(offset int) rune {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+offset]
}

func (lx *Lexer) advance() rune {
	ch := lx.src[lx.pos]
	lx.pos++
	if ch == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return ch
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9') || r == '_'
}

// Scan tokenizes the entire source, stopping at (and including) a trailing
// EOF token. Pragma lines are recorded (see Pragmas) and excluded from the
// returned token stream, since they are configuration, not grammar.
func (lx *Lexer) Scan() ([]Token, error) {
	var toks []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind != "" {
			toks = append(toks, tok)
		}
		if tok.Kind == KindEOF {
			break
		}
	}
	return toks, nil
}

// next scans and returns the next token, itself skipping whitespace,
// comment lines and pragma lines (recording the latter) before it.
func (lx *Lexer) next() (Token, error) {
	for {
		switch {
		case lx.pos >= len(lx.src):
			return Token{Kind: KindEOF, Line: lx.line, Column: lx.col}, nil

		case lx.peekCh() == ' ' || lx.peekCh() == '\t' || lx.peekCh() == '\r' || lx.peekCh() == '\n':
			lx.advance()
			continue

		case lx.peekCh() == '#':
			for lx.pos < len(lx.src) && lx.peekCh() != '\n' {
				lx.advance()
			}
			continue

		case lx.peekCh() == '%' && lx.peekAt(1) == '%':
			lx.advance()
			lx.advance()
			start := lx.pos
			for lx.pos < len(lx.src) && lx.peekCh() != '\n' {
				lx.advance()
			}
			line := strings.TrimSpace(string(lx.src[start:lx.pos]))
			lx.pragmas = append(lx.pragmas, line)
			continue

		default:
			return lx.scanToken()
		}
	}
}

func (lx *Lexer) scanToken() (Token, error) {
	line, col := lx.line, lx.col
	ch := lx.peekCh()

	switch ch {
	case '"':
		return lx.scanString(line, col)
	case '«':
		return lx.scanCodeBlock(line, col, '«', '»')
	case '⟪':
		return lx.scanCodeBlock(line, col, '⟪', '⟫')
	case '<':
		if lx.peekAt(1) == '<' {
			return lx.scanDelimitedCode(line, col, "<<", ">>")
		}
	case ':':
		lx.advance()
		return Token{Kind: KindColon, Lexeme: ":", Line: line, Column: col}, nil
	case '.':
		lx.advance()
		return Token{Kind: KindDot, Lexeme: ".", Line: line, Column: col}, nil
	case '|':
		lx.advance()
		return Token{Kind: KindPipe, Lexeme: "|", Line: line, Column: col}, nil
	case '(':
		lx.advance()
		return Token{Kind: KindLParen, Lexeme: "(", Line: line, Column: col}, nil
	case ')':
		lx.advance()
		return Token{Kind: KindRParen, Lexeme: ")", Line: line, Column: col}, nil
	case '[':
		lx.advance()
		return Token{Kind: KindLBrack, Lexeme: "[", Line: line, Column: col}, nil
	case ']':
		lx.advance()
		return Token{Kind: KindRBrack, Lexeme: "]", Line: line, Column: col}, nil
	case '{':
		lx.advance()
		if lx.peekCh() == '+' {
			lx.advance()
			return Token{Kind: KindLOnePlus, Lexeme: "{+", Line: line, Column: col}, nil
		}
		if lx.peekCh() == '*' {
			lx.advance()
			return Token{Kind: KindLInf, Lexeme: "{*", Line: line, Column: col}, nil
		}
		return Token{Kind: KindLBrace, Lexeme: "{", Line: line, Column: col}, nil
	case '}':
		lx.advance()
		return Token{Kind: KindRBrace, Lexeme: "}", Line: line, Column: col}, nil
	case '+':
		if lx.peekAt(1) == '}' {
			lx.advance()
			lx.advance()
			return Token{Kind: KindROnePlus, Lexeme: "+}", Line: line, Column: col}, nil
		}
	case '*':
		if lx.peekAt(1) == '}' {
			lx.advance()
			lx.advance()
			return Token{Kind: KindRInf, Lexeme: "*}", Line: line, Column: col}, nil
		}
	case '\'':
		lx.advance()
		return Token{Kind: KindQuote, Lexeme: "'", Line: line, Column: col}, nil
	case '=':
		lx.advance()
		return Token{Kind: KindEq, Lexeme: "=", Line: line, Column: col}, nil
	case '@':
		lx.advance()
		return Token{Kind: KindAt, Lexeme: "@", Line: line, Column: col}, nil
	case '!':
		lx.advance()
		return Token{Kind: KindBang, Lexeme: "!", Line: line, Column: col}, nil
	}

	if isIdentStart(ch) {
		return lx.scanIdent(line, col)
	}

	return Token{}, ierrors.NewSyntaxError(
		"unexpected character",
		ierrors.Token{Kind: "?", Lexeme: string(ch), Line: line, Column: col},
		nil,
	)
}

func (lx *Lexer) scanIdent(line, col int) (Token, error) {
	start := lx.pos
	for lx.pos < len(lx.src) && isIdentCont(lx.peekCh()) {
		lx.advance()
	}
	text := string(lx.src[start:lx.pos])
	switch text {
	case "break":
		return Token{Kind: KindBreak, Lexeme: text, Line: line, Column: col}, nil
	case "continue":
		return Token{Kind: KindContinue, Lexeme: text, Line: line, Column: col}, nil
	default:
		return Token{Kind: KindIdent, Lexeme: text, Line: line, Column: col}, nil
	}
}

func (lx *Lexer) scanString(line, col int) (Token, error) {
	lx.advance() // opening quote
	start := lx.pos
	for lx.pos < len(lx.src) && lx.peekCh() != '"' {
		lx.advance()
	}
	if lx.pos >= len(lx.src) {
		return Token{}, ierrors.NewSyntaxError(
			"unterminated string literal",
			ierrors.Token{Kind: "string", Line: line, Column: col},
			[]string{`"`},
		)
	}
	text := string(lx.src[start:lx.pos])
	lx.advance() // closing quote
	return Token{Kind: KindString, Lexeme: text, Line: line, Column: col}, nil
}

// scanCodeBlock scans a single-rune-delimited code block, «...» or ⟪...⟫.
func (lx *Lexer) scanCodeBlock(line, col int, open, close rune) (Token, error) {
	lx.advance() // opening delimiter
	start := lx.pos
	for lx.pos < len(lx.src) && lx.peekCh() != close {
		lx.advance()
	}
	if lx.pos >= len(lx.src) {
		return Token{}, ierrors.NewSyntaxError(
			"unterminated code block",
			ierrors.Token{Kind: "code", Line: line, Column: col},
			[]string{string(close)},
		)
	}
	text := string(lx.src[start:lx.pos])
	lx.advance() // closing delimiter
	return Token{Kind: KindCode, Lexeme: strings.TrimSpace(text), Line: line, Column: col}, nil
}

// scanDelimitedCode scans a multi-rune-delimited code block, "<<...>>".
func (lx *Lexer) scanDelimitedCode(line, col int, open, close string) (Token, error) {
	lx.advance()
	lx.advance()
	start := lx.pos
	closeRunes := []rune(close)
	for lx.pos < len(lx.src) {
		if lx.peekCh() == closeRunes[0] && lx.peekAt(1) == closeRunes[1] {
			break
		}
		lx.advance()
	}
	if lx.pos >= len(lx.src) {
		return Token{}, ierrors.NewSyntaxError(
			"unterminated code block",
			ierrors.Token{Kind: "code", Line: line, Column: col},
			[]string{close},
		)
	}
	text := string(lx.src[start:lx.pos])
	lx.advance()
	lx.advance()
	return Token{Kind: KindCode, Lexeme: strings.TrimSpace(text), Line: line, Column: col}, nil
}
