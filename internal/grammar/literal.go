package grammar

import (
	"fmt"
	"strconv"
)

// parseLiteral parses a JSON-shaped literal used both as a field/parameter
// default value and as an annotation's parenthesised value: null, true,
// false, a (possibly negative) number, a string, an array, or an object.
// Results are the same Go shapes encoding/json would produce (map[string]any,
// []any, string, float64/int64, bool, nil), matching what
// [go.jacobcolvin.com/avdl/schema.IsValidDefault] expects.
func (p *parser) parseLiteral() (any, error) {
	tok := p.cur()

	switch {
	case tok.Kind == KindKeyword && tok.Text == "null":
		p.advance()

		return nil, nil

	case tok.Kind == KindKeyword && tok.Text == "true":
		p.advance()

		return true, nil

	case tok.Kind == KindKeyword && tok.Text == "false":
		p.advance()

		return false, nil

	case tok.Kind == KindString:
		p.advance()

		return tok.Text, nil

	case tok.Kind == KindInt:
		p.advance()

		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q: %w", tok.Text, err)
		}

		return n, nil

	case tok.Kind == KindFloat:
		p.advance()

		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q: %w", tok.Text, err)
		}

		return f, nil

	case tok.Kind == KindPunct && tok.Text == "-":
		p.advance()

		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}

		switch n := v.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		default:
			return nil, fmt.Errorf("'-' must precede a number, got %v", v)
		}

	case tok.Kind == KindPunct && tok.Text == "[":
		return p.parseArrayLiteral()

	case tok.Kind == KindPunct && tok.Text == "{":
		return p.parseObjectLiteral()

	default:
		return nil, fmt.Errorf("unexpected token %q while parsing a literal", tok.Text)
	}
}

func (p *parser) parseArrayLiteral() (any, error) {
	if err := p.expectPunct("["); err != nil {
		return nil, err
	}

	var out []any

	for !p.atPunct("]") {
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}

		out = append(out, v)

		if p.atPunct(",") {
			p.advance()

			continue
		}

		break
	}

	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}

	if out == nil {
		out = []any{}
	}

	return out, nil
}

func (p *parser) parseObjectLiteral() (any, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	out := map[string]any{}

	for !p.atPunct("}") {
		keyTok := p.cur()
		if keyTok.Kind != KindString {
			return nil, fmt.Errorf("expected string key in object literal, got %q", keyTok.Text)
		}

		p.advance()

		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}

		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}

		out[keyTok.Text] = v

		if p.atPunct(",") {
			p.advance()

			continue
		}

		break
	}

	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}

	return out, nil
}
