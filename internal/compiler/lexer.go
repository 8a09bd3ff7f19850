package compiler

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/aretw0/zonecheck/pkg/domain"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// operators are matched longest first.
var operators = []string{"&&", "||", "<=", ">=", "==", "!=", ":=", "<", ">", "=", "!", "(", ")", "+", "-", ",", ";"}

func lex(src string) ([]token, error) {
	var toks []token
	for i := 0; i < len(src); {
		r := rune(src[i])
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(src) && unicode.IsDigit(rune(src[j])) {
				j++
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:j], pos: i})
			i = j
		case r == '_' || unicode.IsLetter(r):
			j := i
			for j < len(src) && (src[j] == '_' || src[j] == '.' || unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j]))) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j], pos: i})
			i = j
		default:
			matched := false
			for _, op := range operators {
				if strings.HasPrefix(src[i:], op) {
					toks = append(toks, token{kind: tokOp, text: op, pos: i})
					i += len(op)
					matched = true
					break
				}
			}
			if !matched {
				return nil, fmt.Errorf("%w: unexpected %q at %d in %q", domain.ErrInvalidExpression, r, i, src)
			}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}
