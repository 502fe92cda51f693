package main

import (
	"fmt"
	"strconv"
	"strings"
)

var predeclared = map[string]bool{
	"bool": true, "string": true, "any": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true, "uintptr": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
	"byte": true, "rune": true,
}

// ParseType parses a type written with full import paths, such as
// "map[string]Provider[github.com/acme/app/handlers.Handler]". Bare
// Provider and MembersInjector name the runtime's types.
func ParseType(s string, rt RuntimeSurface) (*Type, error) {
	p := &typeParser{src: s, rt: rt}
	t, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", s, err)
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("parse type %q: unexpected %q", s, p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
	rt  RuntimeSurface
}

func (p *typeParser) parse() (*Type, error) {
	p.skipSpace()
	switch {
	case p.consume("*"):
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return PointerTo(elem), nil
	case p.consume("[]"):
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return SliceOf(elem), nil
	case p.consume("["):
		end := strings.IndexByte(p.src[p.pos:], ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated array length")
		}
		n, err := strconv.ParseInt(strings.TrimSpace(p.src[p.pos:p.pos+end]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("array length: %w", err)
		}
		p.pos += end + 1
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return ArrayOf(n, elem), nil
	case p.consume("map["):
		key, err := p.parse()
		if err != nil {
			return nil, err
		}
		if !p.consume("]") {
			return nil, fmt.Errorf("expected ] after map key at %d", p.pos)
		}
		elem, err := p.parse()
		if err != nil {
			return nil, err
		}
		return MapOf(key, elem), nil
	}
	return p.named()
}

func (p *typeParser) named() (*Type, error) {
	start := p.pos
	for p.pos < len(p.src) && isTypeNameByte(p.src[p.pos]) {
		p.pos++
	}
	word := p.src[start:p.pos]
	if word == "" {
		return nil, fmt.Errorf("expected a type at %d", start)
	}

	var args []*Type
	if p.consume("[") {
		for {
			a, err := p.parse()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			p.skipSpace()
			if p.consume("]") {
				break
			}
			if !p.consume(",") {
				return nil, fmt.Errorf("expected , or ] at %d", p.pos)
			}
		}
	}

	slash := strings.LastIndexByte(word, '/')
	dot := strings.LastIndexByte(word, '.')
	if dot > slash {
		return Named(word[:dot], word[dot+1:], args...), nil
	}
	if slash >= 0 {
		return nil, fmt.Errorf("%s has no type name", word)
	}
	switch {
	case predeclared[word] && len(args) == 0:
		return Basic(word), nil
	case word == "error" && len(args) == 0:
		return &Type{Kind: KindNamed, Name: "error"}, nil
	case word == p.rt.Provider, word == p.rt.MembersInjector:
		t := Named(p.rt.PkgPath, word, args...)
		t.PkgName = p.rt.PkgName
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %s; qualify it with its import path", word)
}

func (p *typeParser) consume(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func isTypeNameByte(c byte) bool {
	return c == '_' || c == '.' || c == '/' || c == '-' || c == '~' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
