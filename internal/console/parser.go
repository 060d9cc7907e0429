package console

import (
	"fmt"

	"github.com/srenevey/EarthGRAM2016-Matlab-Wrapper/domain/entities"
)

// Expr is one argument: a literal or a reference to a workspace variable.
type Expr struct {
	Value *entities.Argument
	Ref   string
}

// Statement is one parsed line.
//
//	[a, b] = f(x, 2);   Targets [a b], Name f, Args [x 2], Call, Silent
//	h = 20              Targets [h], Value 20
//	f                   Name f
type Statement struct {
	Targets []string
	Name    string
	Args    []Expr
	Value   *Expr
	// Call is set when the name was followed by parentheses.
	Call bool
	// Silent is set by a trailing semicolon.
	Silent bool
}

// Nargout is the number of outputs the statement asks for.
func (s *Statement) Nargout() int {
	return len(s.Targets)
}

// Resolve substitutes workspace variables and returns the call arguments.
func (s *Statement) Resolve(vars map[string]entities.Argument) ([]entities.Argument, error) {
	args := make([]entities.Argument, len(s.Args))
	for i, e := range s.Args {
		v, err := e.resolve(vars)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (e Expr) resolve(vars map[string]entities.Argument) (entities.Argument, error) {
	if e.Value != nil {
		return *e.Value, nil
	}
	v, ok := vars[e.Ref]
	if !ok {
		return entities.Argument{}, fmt.Errorf("Undefined variable '%s'.", e.Ref) //nolint:revive,stylecheck // host wording
	}
	return v, nil
}

// Parse reads one statement. Blank input and comments yield nil.
func Parse(src string) (*Statement, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.atEnd() {
		return nil, nil
	}
	return p.statement()
}

type parser struct {
	toks  []Token
	i     int
	depth int
}

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekN(n int) Token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) match(tt ...TokenType) bool {
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

func (p *parser) need(t TokenType) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	return Token{}, p.unexpected(t.String())
}

func (p *parser) unexpected(want string) error {
	got := p.peek()
	if got.Type == EOF {
		return &Error{Col: got.Col, Msg: "expected " + want + " before end of input", Incomplete: p.depth > 0}
	}
	return &Error{Col: got.Col, Msg: fmt.Sprintf("expected %s, got %q", want, got.Lexeme)}
}

func (p *parser) statement() (*Statement, error) {
	st := &Statement{}

	switch {
	case p.peek().Type == LSQUARE:
		targets, err := p.targetList()
		if err != nil {
			return nil, err
		}
		st.Targets = targets
	case p.peek().Type == IDENT && p.peekN(1).Type == ASSIGN:
		st.Targets = []string{p.peek().Lexeme}
		p.i += 2
	}

	if p.peek().Type == IDENT && !isKeywordLiteral(p.peek().Lexeme) {
		st.Name = p.peek().Lexeme
		p.i++
		if p.match(LPAREN) {
			st.Call = true
			args, err := p.args()
			if err != nil {
				return nil, err
			}
			st.Args = args
		}
	} else {
		if len(st.Targets) != 1 {
			return nil, p.unexpected("function name")
		}
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		st.Value = &v
	}

	st.Silent = p.match(SEMICOLON)
	if !p.atEnd() {
		return nil, p.unexpected("end of statement")
	}
	return st, nil
}

// targetList reads "[a, b] =" or "[a b] =".
func (p *parser) targetList() ([]string, error) {
	p.i++
	p.depth++
	var names []string
	for !p.match(RSQUARE) {
		if len(names) > 0 {
			p.match(COMMA)
		}
		tok, err := p.need(IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Lexeme)
	}
	p.depth--
	if _, err := p.need(ASSIGN); err != nil {
		return nil, err
	}
	return names, nil
}

// args reads the arguments after '(' through the closing ')'.
func (p *parser) args() ([]Expr, error) {
	p.depth++
	defer func() { p.depth-- }()

	var out []Expr
	if p.match(RPAREN) {
		return out, nil
	}
	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if p.match(RPAREN) {
			return out, nil
		}
		if _, err := p.need(COMMA); err != nil {
			return nil, err
		}
	}
}

func (p *parser) expr() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case CHAR:
		p.i++
		return literal(entities.CharArgument(tok.Literal.(string))), nil
	case STRING:
		p.i++
		return literal(entities.StringArgument(tok.Literal.(string))), nil
	case LSQUARE:
		return p.row()
	case IDENT:
		p.i++
		switch tok.Lexeme {
		case "true":
			return literal(entities.LogicalArgument(true)), nil
		case "false":
			return literal(entities.LogicalArgument(false)), nil
		}
		return Expr{Ref: tok.Lexeme}, nil
	}
	return p.number()
}

// number reads a signed real, a signed imaginary, or re+imi.
func (p *parser) number() (Expr, error) {
	re, isImag, err := p.signed()
	if err != nil {
		return Expr{}, err
	}
	if isImag {
		return literal(entities.ComplexArgument(0, re)), nil
	}

	if (p.peek().Type == PLUS || p.peek().Type == MINUS) && p.peekN(1).Type == IMAGINARY {
		im, _, err := p.signed()
		if err != nil {
			return Expr{}, err
		}
		return literal(entities.ComplexArgument(re, im)), nil
	}
	return literal(entities.ScalarArgument(re)), nil
}

func (p *parser) signed() (v float64, imaginary bool, err error) {
	sign := 1.0
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		if p.peek().Type == MINUS {
			sign = -sign
		}
		p.i++
	}
	tok := p.peek()
	switch tok.Type {
	case NUMBER, IMAGINARY:
		p.i++
		return sign * tok.Literal.(float64), tok.Type == IMAGINARY, nil
	}
	return 0, false, p.unexpected("a value")
}

// row reads a real row vector such as [1, 2 3].
func (p *parser) row() (Expr, error) {
	p.i++
	p.depth++
	defer func() { p.depth-- }()

	vals := []float64{}
	for !p.match(RSQUARE) {
		if len(vals) > 0 {
			p.match(COMMA)
		}
		v, imag, err := p.signed()
		if err != nil {
			return Expr{}, err
		}
		if imag {
			return Expr{}, &Error{Col: p.prev().Col, Msg: "complex elements are not supported in vectors"}
		}
		vals = append(vals, v)
	}
	return literal(entities.ArrayArgument(vals...)), nil
}

func literal(a entities.Argument) Expr {
	return Expr{Value: &a}
}

func isKeywordLiteral(s string) bool {
	return s == "true" || s == "false"
}
