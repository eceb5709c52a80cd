package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// maxDepth bounds nested parentheses and unary signs.
const maxDepth = 1000

// evalArithmetic evaluates numeric literals joined by + - * / and
// parentheses. Identifiers of any kind are rejected.
func evalArithmetic(expr string) (float64, error) {
	p := parser{input: expr}

	val, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, p.unexpected()
	}
	return val, nil
}

type parser struct {
	input string
	pos   int
	depth int
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrParse, maxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

func (p *parser) skipSpaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) unexpected() error {
	if p.pos >= len(p.input) {
		return fmt.Errorf("%w: unexpected end of expression", ErrParse)
	}
	return fmt.Errorf("%w: unexpected %q at position %d", ErrParse, p.input[p.pos], p.pos)
}

func (p *parser) parseExpr() (float64, error) {
	return p.parseAddSub()
}

func (p *parser) parseAddSub() (float64, error) {
	val, err := p.parseMulDiv()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			break
		}
		op := p.input[p.pos]
		if op != '+' && op != '-' {
			break
		}
		p.pos++
		right, err := p.parseMulDiv()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			val += right
		} else {
			val -= right
		}
		if err := checkFinite(val); err != nil {
			return 0, err
		}
	}
	return val, nil
}

func (p *parser) parseMulDiv() (float64, error) {
	val, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpaces()
		if p.pos >= len(p.input) {
			break
		}
		op := p.input[p.pos]
		if op != '*' && op != '/' {
			break
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			val *= right
		} else {
			if right == 0 {
				return 0, ErrDivisionByZero
			}
			val /= right
		}
		if err := checkFinite(val); err != nil {
			return 0, err
		}
	}
	return val, nil
}

func (p *parser) parseFactor() (float64, error) {
	p.skipSpaces()
	if p.pos < len(p.input) {
		switch op := p.input[p.pos]; op {
		case '+', '-':
			if err := p.enter(); err != nil {
				return 0, err
			}
			defer p.leave()
			p.pos++
			v, err := p.parseFactor()
			if err != nil {
				return 0, err
			}
			if op == '-' {
				v = -v
			}
			return v, nil
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, p.unexpected()
	}
	ch := p.input[p.pos]
	if ch == '(' {
		if err := p.enter(); err != nil {
			return 0, err
		}
		defer p.leave()
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		p.skipSpaces()
		if p.pos >= len(p.input) || p.input[p.pos] != ')' {
			return 0, fmt.Errorf("%w: missing closing parenthesis", ErrParse)
		}
		p.pos++
		return v, nil
	}
	if isDigit(ch) || ch == '.' {
		return p.parseNumber()
	}
	return 0, p.unexpected()
}

// parseNumber scans digits with an optional fraction and exponent.
func (p *parser) parseNumber() (float64, error) {
	start := p.pos
	j := p.pos
	seenDot := false
	seenE := false
	for j < len(p.input) {
		c := p.input[j]
		if isDigit(c) {
			j++
			continue
		}
		if c == '.' {
			if seenDot || seenE {
				break
			}
			seenDot = true
			j++
			continue
		}
		if c == 'e' || c == 'E' {
			if seenE {
				break
			}
			seenE = true
			j++
			if j < len(p.input) && (p.input[j] == '+' || p.input[j] == '-') {
				j++
			}
			continue
		}
		break
	}
	numStr := p.input[start:j]
	v, err := strconv.ParseFloat(numStr, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %s", ErrNonFinite, numStr)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrParse, numStr)
	}
	p.pos = j
	return v, nil
}

func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNonFinite
	}
	return nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
