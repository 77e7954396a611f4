// Package parse builds a gram.Spec from the token stream produced by
// package lex, by recursive descent over the
// surface EBNF:
//
//	preamble    := ( code-block )*
//	production  := IDENT ":" alternation "."
//	alternation := sequence ( "|" sequence )*
//	sequence    := term*
//	term        := [ "=" ] base [ "!" ] [ "'" IDENT ] { code-block }
//	base        := "(" alternation ")" | "{" alternation "}"
//	             | "[" alternation "]" | "{+" alternation "+}"
//	             | "{*" alternation "*}"
//	             | IDENT | STRING | code-block
//	             | "break" | "continue"
package parse

import (
	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/gram/lex"
	"github.com/dekarrin/grouper/internal/ierrors"
)

// termStartKinds is FIRST(term): every token kind a term may begin with.
var termStartKinds = map[lex.Kind]bool{
	lex.KindEq:       true,
	lex.KindIdent:    true,
	lex.KindString:   true,
	lex.KindCode:     true,
	lex.KindLParen:   true,
	lex.KindLBrace:   true,
	lex.KindLBrack:   true,
	lex.KindLOnePlus: true,
	lex.KindLInf:     true,
	lex.KindBreak:    true,
	lex.KindContinue: true,
}

// Parser consumes a token stream and produces the raw (unmerged)
// productions of a grammar file.
type Parser struct {
	toks []lex.Token
	pos  int
}

// New returns a Parser over an already-scanned token stream.
func New(toks []lex.Token) *Parser {
	return &Parser{toks: toks}
}

// ParseString scans and parses source in one step, merging same-named
// productions and decoding pragma lines into the returned
// Spec.
func ParseString(source string) (*gram.Spec, error) {
	lx := lex.New(source)
	toks, err := lx.Scan()
	if err != nil {
		return nil, err
	}
	p := New(toks)
	preamble, raw, err := p.Parse()
	if err != nil {
		return nil, err
	}
	pragmas, err := gram.ParsePragmas(lx.Pragmas())
	if err != nil {
		return nil, err
	}
	return &gram.Spec{
		Preamble:    preamble,
		Pragmas:     pragmas,
		Productions: gram.MergeProductions(raw),
	}, nil
}

func (p *Parser) peek() lex.Token {
	return p.toks[p.pos]
}

func (p *Parser) errTok(tok lex.Token) ierrors.Token {
	return ierrors.Token{Kind: string(tok.Kind), Lexeme: tok.Lexeme, Line: tok.Line, Column: tok.Column}
}

func (p *Parser) match(kind lex.Kind) (lex.Token, error) {
	tok := p.peek()
	if tok.Kind != kind {
		return lex.Token{}, ierrors.NewSyntaxError(
			"unexpected token",
			p.errTok(tok),
			[]string{string(kind)},
		)
	}
	p.pos++
	return tok, nil
}

// Parse consumes the full token stream: the preamble code blocks, then one
// or more productions, then requires EOF.
func (p *Parser) Parse() ([]string, []gram.Production, error) {
	var preamble []string
	for p.peek().Kind == lex.KindCode {
		tok, _ := p.match(lex.KindCode)
		preamble = append(preamble, tok.Lexeme)
	}

	var prods []gram.Production
	for p.peek().Kind == lex.KindIdent {
		prod, err := p.production()
		if err != nil {
			return nil, nil, err
		}
		prods = append(prods, prod)
	}
	if len(prods) == 0 {
		return nil, nil, ierrors.NewSyntaxError("grammar file defines no productions", p.errTok(p.peek()), []string{"IDENT"})
	}

	if _, err := p.match(lex.KindEOF); err != nil {
		return nil, nil, err
	}
	return preamble, prods, nil
}

func (p *Parser) production() (gram.Production, error) {
	lhs, err := p.match(lex.KindIdent)
	if err != nil {
		return gram.Production{}, err
	}
	if _, err := p.match(lex.KindColon); err != nil {
		return gram.Production{}, err
	}
	rhs, err := p.alternation()
	if err != nil {
		return gram.Production{}, err
	}
	if _, err := p.match(lex.KindDot); err != nil {
		return gram.Production{}, err
	}
	return gram.Production{LHS: lhs.Lexeme, RHS: rhs}, nil
}

func (p *Parser) alternation() (gram.Expr, error) {
	first, err := p.sequence()
	if err != nil {
		return nil, err
	}
	vals := []gram.Expr{first}
	for p.peek().Kind == lex.KindPipe {
		p.pos++
		seq, err := p.sequence()
		if err != nil {
			return nil, err
		}
		vals = append(vals, seq)
	}
	if len(vals) == 1 {
		return vals[0], nil
	}
	return gram.NewAlts(vals), nil
}

func (p *Parser) sequence() (gram.Expr, error) {
	if !termStartKinds[p.peek().Kind] {
		// Empty alternative (epsilon), e.g. the second arm of
		// `S : "a" S | .`: no term starts here, so the sequence's term
		// list is the empty Lambda directly, not a Cons chain of one.
		return gram.NewSequence(gram.NewLambda()), nil
	}
	head, err := p.term()
	if err != nil {
		return nil, err
	}
	root := gram.NewCons(head, gram.NewLambda())
	last := root
	for termStartKinds[p.peek().Kind] {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		next := gram.NewCons(t, gram.NewLambda())
		last.Tail = next
		last = next
	}
	return gram.NewSequence(root), nil
}

func (p *Parser) term() (gram.Expr, error) {
	keep := false
	if p.peek().Kind == lex.KindEq {
		p.pos++
		keep = true
	}

	base, err := p.base()
	if err != nil {
		return nil, err
	}
	attrs := base.Attrs()
	attrs.Keep = keep

	if p.peek().Kind == lex.KindBang {
		p.pos++
		attrs.Simple = true
	}
	if p.peek().Kind == lex.KindQuote {
		p.pos++
		name, err := p.match(lex.KindIdent)
		if err != nil {
			return nil, err
		}
		attrs.Name = name.Lexeme
	}
	for p.peek().Kind == lex.KindCode {
		tok, _ := p.match(lex.KindCode)
		attrs.Stmts = append(attrs.Stmts, tok.Lexeme)
	}
	return base, nil
}

func (p *Parser) base() (gram.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case lex.KindLParen:
		p.pos++
		e, err := p.alternation()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(lex.KindRParen); err != nil {
			return nil, err
		}
		return gram.NewParens(e), nil

	case lex.KindLBrace:
		p.pos++
		e, err := p.alternation()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(lex.KindRBrace); err != nil {
			return nil, err
		}
		return gram.NewRep(e), nil

	case lex.KindLBrack:
		p.pos++
		e, err := p.alternation()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(lex.KindRBrack); err != nil {
			return nil, err
		}
		return gram.NewOpt(e), nil

	case lex.KindLOnePlus:
		p.pos++
		e, err := p.alternation()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(lex.KindROnePlus); err != nil {
			return nil, err
		}
		return gram.NewOnePlus(e), nil

	case lex.KindLInf:
		p.pos++
		e, err := p.alternation()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(lex.KindRInf); err != nil {
			return nil, err
		}
		return gram.NewInfinite(e), nil

	case lex.KindIdent:
		p.pos++
		return gram.NewSym(tok.Lexeme), nil

	case lex.KindString:
		p.pos++
		return gram.NewSym(tok.Lexeme), nil

	case lex.KindCode:
		p.pos++
		return gram.NewValue(tok.Lexeme), nil

	case lex.KindBreak:
		p.pos++
		return gram.NewBreak(), nil

	case lex.KindContinue:
		p.pos++
		return gram.NewContinue(), nil

	default:
		return nil, ierrors.NewSyntaxError(
			"expected a term",
			p.errTok(tok),
			[]string{"(", "{", "[", "{+", "{*", "IDENT", "STRING", "code-block", "break", "continue"},
		)
	}
}
