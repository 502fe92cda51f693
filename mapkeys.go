package main

import (
	"fmt"
	"go/constant"
	"strconv"
	"strings"
)

// MapKeys returns every annotation on b whose definition is a map key.
func MapKeys(b *Binding) []*Annotation {
	var out []*Annotation
	for _, a := range b.Annotations {
		if a.Def != nil && a.Def.MapKey {
			out = append(out, a)
		}
	}
	return out
}

// MapKey returns the map key annotation on b, or nil when there is none.
func MapKey(b *Binding) (*Annotation, error) {
	keys := MapKeys(b)
	switch len(keys) {
	case 0:
		return nil, nil
	case 1:
		return keys[0], nil
	default:
		return nil, &MultipleMapKeysError{Binding: b, Keys: keys}
	}
}

// UnwrapValue reports whether a's definition is declared with unwrap.
func UnwrapValue(a *Annotation) (bool, error) {
	if a.Def == nil || !a.Def.MapKey {
		var t *Type
		if a.Def != nil {
			t = a.Def.Type
		}
		return false, &NotAMapKeyError{Type: t}
	}
	return a.Def.Unwrap, nil
}

// UnwrappedValue returns the value of the sole member of an unwrapped key.
func UnwrappedValue(a *Annotation) (Value, error) {
	unwrap, err := UnwrapValue(a)
	if err != nil {
		return nil, err
	}
	if !unwrap {
		return nil, nil
	}
	if len(a.Def.Members) != 1 {
		return nil, &MemberCountError{Type: a.Def.Type, Count: len(a.Def.Members)}
	}
	vals, err := ValuesWithDefaults(a)
	if err != nil {
		return nil, err
	}
	return vals[0].Value, nil
}

// KeyType returns the map key type produced by def: the sole member's type
// when unwrapped, the definition type otherwise.
func KeyType(def *KeyDefinition) (*Type, error) {
	if !def.MapKey {
		return nil, &NotAMapKeyError{Type: def.Type}
	}
	if !def.Unwrap {
		return def.Type, nil
	}
	if len(def.Members) != 1 {
		return nil, &MemberCountError{Type: def.Type, Count: len(def.Members)}
	}
	m := def.Members[0]
	if m.Type.IsArrayLike() {
		return nil, &ArrayKeyTypeError{Type: def.Type, Member: m.Name}
	}
	return m.Type, nil
}

// ValuesWithDefaults returns a value for every member of a's definition, in
// declaration order, filling in defaults the use site left out.
func ValuesWithDefaults(a *Annotation) ([]MemberValue, error) {
	out := make([]MemberValue, 0, len(a.Def.Members))
	for _, m := range a.Def.Members {
		v, ok := a.Lookup(m.Name)
		if !ok {
			if m.Default == nil {
				return nil, &MissingMemberError{Type: a.Def.Type, Member: m.Name}
			}
			v = m.Default
		}
		out = append(out, MemberValue{Name: m.Name, Value: v})
	}
	return out, nil
}

// CreatorFunc names the generated function building instances of def.
func CreatorFunc(def *KeyDefinition) string {
	return "Create" + def.Type.Name
}

// MultibindingKey is the canonical identity of one map entry. Keys compare
// equal exactly when the Go values they denote are equal: constants compare
// by value whatever name or literal spells them.
type MultibindingKey struct {
	canonical string
}

func (k MultibindingKey) String() string {
	return k.canonical
}

// KeyOf computes the key a contributes. Unwrapped keys compare by the member
// value alone; other keys by every member, defaults included.
func KeyOf(a *Annotation) (MultibindingKey, error) {
	unwrap, err := UnwrapValue(a)
	if err != nil {
		return MultibindingKey{}, err
	}
	var (
		v Value = a
		t       = a.Def.Type
	)
	if unwrap {
		if v, err = UnwrappedValue(a); err != nil {
			return MultibindingKey{}, err
		}
		t = a.Def.Members[0].Type
	}
	s, err := v.Accept(canonicalizer{want: t})
	if err != nil {
		return MultibindingKey{}, err
	}
	return MultibindingKey{canonical: t.String() + ":" + s}, nil
}

// canonicalizer renders a value assigned to want into an unambiguous,
// order-stable string. Integers of every spelling share one decimal form.
type canonicalizer struct {
	want *Type
}

func (canonicalizer) VisitBool(v BoolValue) (string, error) {
	return strconv.FormatBool(bool(v)), nil
}

func (canonicalizer) VisitInt(v IntValue) (string, error) {
	return strconv.FormatInt(v.V, 10), nil
}

func (canonicalizer) VisitUint(v UintValue) (string, error) {
	return strconv.FormatUint(v.V, 10), nil
}

func (c canonicalizer) VisitFloat(v FloatValue) (string, error) {
	return c.float(v.V), nil
}

func (canonicalizer) VisitRune(v RuneValue) (string, error) {
	return strconv.FormatInt(int64(v), 10), nil
}

func (canonicalizer) VisitString(v StringValue) (string, error) {
	return strconv.Quote(string(v)), nil
}

func (canonicalizer) VisitType(v TypeValue) (string, error) {
	return "type " + v.Type.String(), nil
}

// VisitEnum uses the constant's value when known. Constants declared in a
// manifest carry no value and compare by name.
func (c canonicalizer) VisitEnum(v EnumValue) (string, error) {
	if v.Const == nil {
		return "const " + v.Type.String() + "." + v.Name, nil
	}
	switch v.Const.Kind() {
	case constant.Bool:
		return strconv.FormatBool(constant.BoolVal(v.Const)), nil
	case constant.String:
		return strconv.Quote(constant.StringVal(v.Const)), nil
	case constant.Int:
		return v.Const.ExactString(), nil
	case constant.Float:
		f, _ := constant.Float64Val(v.Const)
		return c.float(f), nil
	}
	return "", fmt.Errorf("constant %s.%s of kind %s cannot be a map key", v.Type, v.Name, v.Const.Kind())
}

func (c canonicalizer) VisitAnnotation(a *Annotation) (string, error) {
	vals, err := ValuesWithDefaults(a)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(vals))
	for i, mv := range vals {
		s, err := mv.Value.Accept(canonicalizer{want: a.Def.Members[i].Type})
		if err != nil {
			return "", err
		}
		parts = append(parts, mv.Name+"="+s)
	}
	return "@" + a.Def.Type.String() + "(" + strings.Join(parts, ";") + ")", nil
}

func (c canonicalizer) VisitArray(v ArrayValue) (string, error) {
	parts := make([]string, 0, len(v.Values))
	for _, e := range v.Values {
		s, err := e.Accept(canonicalizer{want: v.Elem})
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

// float rounds to the precision of the target type and folds -0 into 0.
func (c canonicalizer) float(f float64) string {
	if c.want != nil && c.want.Kind == KindBasic && c.want.Name == "float32" {
		f = float64(float32(f))
	}
	if f == 0 {
		f = 0
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
