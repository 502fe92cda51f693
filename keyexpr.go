package main

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
)

// MapKeyExpression returns Go source building the map key contributed by b.
// Unwrapped keys render the member value itself; other keys call the key
// type's creator function with every member, defaults included.
func MapKeyExpression(b *Binding, imports *ImportSet) (string, error) {
	kx := &keyExpression{imports: imports}
	return kx.mapKey(b)
}

func (k *keyExpression) mapKey(b *Binding) (string, error) {
	a, err := MapKey(b)
	if err != nil {
		return "", err
	}
	if a == nil {
		return "", &MissingMapKeyError{Binding: b}
	}
	unwrap, err := UnwrapValue(a)
	if err != nil {
		return "", err
	}
	if !unwrap {
		return k.VisitAnnotation(a)
	}
	v, err := UnwrappedValue(a)
	if err != nil {
		return "", err
	}
	if _, ok := v.(ArrayValue); ok {
		return "", &CannotUnwrapArrayError{Binding: b}
	}
	return v.Accept(k)
}

// keyExpression renders annotation values as Go expressions. Creators lists
// every definition whose creator function the output calls.
type keyExpression struct {
	imports  *ImportSet
	Creators []*KeyDefinition
}

func (k *keyExpression) VisitBool(v BoolValue) (string, error) {
	return strconv.FormatBool(bool(v)), nil
}

func (k *keyExpression) VisitInt(v IntValue) (string, error) {
	lit := strconv.FormatInt(v.V, 10)
	if v.Kind == "" || v.Kind == "int" {
		return lit, nil
	}
	return v.Kind + "(" + lit + ")", nil
}

func (k *keyExpression) VisitUint(v UintValue) (string, error) {
	return conversion(v.Kind, strconv.FormatUint(v.V, 10)), nil
}

func (k *keyExpression) VisitFloat(v FloatValue) (string, error) {
	bits := 64
	if v.Kind == "float32" {
		bits = 32
	}
	return conversion(v.Kind, strconv.FormatFloat(v.V, 'g', -1, bits)), nil
}

// conversion wraps lit in an explicit conversion unless kind is empty, as it
// is for members of named types.
func conversion(kind, lit string) string {
	if kind == "" {
		return lit
	}
	return kind + "(" + lit + ")"
}

func (k *keyExpression) VisitRune(v RuneValue) (string, error) {
	return strconv.QuoteRune(rune(v)), nil
}

func (k *keyExpression) VisitString(v StringValue) (string, error) {
	return strconv.Quote(string(v)), nil
}

func (k *keyExpression) VisitType(v TypeValue) (string, error) {
	return k.imports.Qualify("reflect") + ".TypeFor[" + k.imports.TypeString(v.Type) + "]()", nil
}

func (k *keyExpression) VisitEnum(v EnumValue) (string, error) {
	prefix := k.imports.QualifyNamed(v.Type.PkgPath, v.Type.PkgName)
	if prefix == "" {
		return v.Name, nil
	}
	return prefix + "." + v.Name, nil
}

func (k *keyExpression) VisitAnnotation(a *Annotation) (string, error) {
	vals, err := ValuesWithDefaults(a)
	if err != nil {
		return "", err
	}
	args := make([]string, 0, len(vals))
	for i, mv := range vals {
		s, err := mv.Value.Accept(k)
		if err != nil {
			return "", err
		}
		args = append(args, k.arrayLiteralPrefix(a.Def.Members[i].Type, s))
	}
	k.addCreator(a.Def)
	fn := CreatorFunc(a.Def)
	if prefix := k.imports.QualifyNamed(a.Def.Type.PkgPath, a.Def.Type.PkgName); prefix != "" {
		fn = prefix + "." + fn
	}
	return fn + "(" + strings.Join(args, ", ") + ")", nil
}

// VisitArray renders the elements only; the element type is added by
// arrayLiteralPrefix where the literal is not nested in another array.
func (k *keyExpression) VisitArray(v ArrayValue) (string, error) {
	elems := make([]string, 0, len(v.Values))
	for _, e := range v.Values {
		s, err := e.Accept(k)
		if err != nil {
			return "", err
		}
		elems = append(elems, s)
	}
	return "{" + strings.Join(elems, ", ") + "}", nil
}

// arrayLiteralPrefix prefixes an array literal with its explicit type.
func (k *keyExpression) arrayLiteralPrefix(t *Type, expr string) string {
	if !t.IsArrayLike() {
		return expr
	}
	return k.imports.TypeString(t) + expr
}

func (k *keyExpression) addCreator(def *KeyDefinition) {
	for _, c := range k.Creators {
		if c == def {
			return
		}
	}
	k.Creators = append(k.Creators, def)
}

// CreatorSource returns the Go declaration of def's creator function. The
// function takes every member positionally in declaration order.
func CreatorSource(def *KeyDefinition, imports *ImportSet) string {
	typeName := imports.TypeString(def.Type)
	params := make([]string, 0, len(def.Members))
	fields := make([]string, 0, len(def.Members))
	for _, m := range def.Members {
		p := paramName(m.Name)
		params = append(params, p+" "+imports.TypeString(m.Type))
		fields = append(fields, m.Name+": "+p)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "// %s returns a %s with the given members.\n", CreatorFunc(def), def.Type.Name)
	fmt.Fprintf(&b, "func %s(%s) %s {\n", CreatorFunc(def), strings.Join(params, ", "), typeName)
	fmt.Fprintf(&b, "\treturn %s{%s}\n}\n", typeName, strings.Join(fields, ", "))
	return b.String()
}

// paramName lower-cases the first letter of a member name, avoiding keywords.
func paramName(member string) string {
	if member == "" {
		return "_"
	}
	p := strings.ToLower(member[:1]) + member[1:]
	if token.IsKeyword(p) {
		p += "_"
	}
	return p
}
