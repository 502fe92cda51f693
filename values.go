package main

import "go/constant"

// Value is a value supplied to a key annotation member. The set of value
// kinds is closed: every kind has exactly one method on ValueVisitor, so a new
// kind cannot be added without every renderer handling it.
type Value interface {
	Accept(v ValueVisitor) (string, error)
}

// ValueVisitor renders annotation values to text.
type ValueVisitor interface {
	VisitBool(v BoolValue) (string, error)
	VisitInt(v IntValue) (string, error)
	VisitUint(v UintValue) (string, error)
	VisitFloat(v FloatValue) (string, error)
	VisitRune(v RuneValue) (string, error)
	VisitString(v StringValue) (string, error)
	VisitType(v TypeValue) (string, error)
	VisitEnum(v EnumValue) (string, error)
	VisitAnnotation(v *Annotation) (string, error)
	VisitArray(v ArrayValue) (string, error)
}

type BoolValue bool

// IntValue is a signed integer; Kind is the Go type name (int, int8, ..., int64).
type IntValue struct {
	Kind string
	V    int64
}

// UintValue is an unsigned integer; Kind is the Go type name (uint, byte, uint8, ...).
type UintValue struct {
	Kind string
	V    uint64
}

// FloatValue is a float32 or float64.
type FloatValue struct {
	Kind string
	V    float64
}

type RuneValue rune

type StringValue string

// TypeValue is a type literal, written reflect.TypeFor[T]() in Go source.
type TypeValue struct {
	Type *Type
}

// EnumValue references a typed constant of a named type. Const is the
// constant's value when the declaration source knows it.
type EnumValue struct {
	Type  *Type
	Name  string
	Const constant.Value
}

// ArrayValue is a slice literal. Elem is the element type.
type ArrayValue struct {
	Elem   *Type
	Values []Value
}

func (v BoolValue) Accept(vis ValueVisitor) (string, error)   { return vis.VisitBool(v) }
func (v IntValue) Accept(vis ValueVisitor) (string, error)    { return vis.VisitInt(v) }
func (v UintValue) Accept(vis ValueVisitor) (string, error)   { return vis.VisitUint(v) }
func (v FloatValue) Accept(vis ValueVisitor) (string, error)  { return vis.VisitFloat(v) }
func (v RuneValue) Accept(vis ValueVisitor) (string, error)   { return vis.VisitRune(v) }
func (v StringValue) Accept(vis ValueVisitor) (string, error) { return vis.VisitString(v) }
func (v TypeValue) Accept(vis ValueVisitor) (string, error)   { return vis.VisitType(v) }
func (v EnumValue) Accept(vis ValueVisitor) (string, error)   { return vis.VisitEnum(v) }
func (v ArrayValue) Accept(vis ValueVisitor) (string, error)  { return vis.VisitArray(v) }
func (a *Annotation) Accept(vis ValueVisitor) (string, error) { return vis.VisitAnnotation(a) }

var (
	_ Value = BoolValue(false)
	_ Value = IntValue{}
	_ Value = UintValue{}
	_ Value = FloatValue{}
	_ Value = RuneValue(0)
	_ Value = StringValue("")
	_ Value = TypeValue{}
	_ Value = EnumValue{}
	_ Value = ArrayValue{}
	_ Value = (*Annotation)(nil)
)
