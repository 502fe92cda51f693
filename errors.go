package main

import (
	"errors"
	"fmt"
	"go/token"
	"sort"
	"strings"
)

// Anchor is an element a diagnostic is reported against.
type Anchor struct {
	Element  string
	Position token.Position
}

// Diagnostic is a structured error record handed to the diagnostics sink.
type Diagnostic struct {
	Kind    string
	Message string
	Anchors []Anchor
}

func (d Diagnostic) String() string {
	if len(d.Anchors) > 0 && d.Anchors[0].Position.IsValid() {
		return d.Anchors[0].Position.String() + ": " + d.Message
	}
	return d.Message
}

// diagnosticError is implemented by every error the engine reports.
type diagnosticError interface {
	error
	Kind() string
	Anchors() []Anchor
}

// NewDiagnostic converts err into a diagnostic record.
func NewDiagnostic(err error) Diagnostic {
	var de diagnosticError
	if errors.As(err, &de) {
		return Diagnostic{Kind: de.Kind(), Message: de.Error(), Anchors: de.Anchors()}
	}
	return Diagnostic{Kind: "Error", Message: err.Error()}
}

// Diagnostics converts errs into records, dropping exact repeats and keeping
// first-reported order.
func Diagnostics(errs []error) []Diagnostic {
	seen := make(map[string]bool)
	var out []Diagnostic
	for _, err := range errs {
		d := NewDiagnostic(err)
		k := d.Kind + "\x00" + d.Message
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}

func bindingAnchor(b *Binding) Anchor {
	return Anchor{Element: b.Identity(), Position: b.Position}
}

func bindingAnchors(bs []*Binding) []Anchor {
	out := make([]Anchor, 0, len(bs))
	for _, b := range bs {
		out = append(out, bindingAnchor(b))
	}
	return out
}

// MultipleMapKeysError reports a binding carrying more than one key annotation.
type MultipleMapKeysError struct {
	Binding *Binding
	Keys    []*Annotation
}

func (e *MultipleMapKeysError) Error() string {
	names := make([]string, 0, len(e.Keys))
	for _, k := range e.Keys {
		names = append(names, k.Def.Type.String())
	}
	return fmt.Sprintf("%s may not have more than one map key annotation: %s",
		e.Binding.Identity(), strings.Join(names, ", "))
}

func (e *MultipleMapKeysError) Kind() string      { return "MultipleMapKeys" }
func (e *MultipleMapKeysError) Anchors() []Anchor { return []Anchor{bindingAnchor(e.Binding)} }

// NotAMapKeyError reports an annotation whose definition is not marked as a map key.
type NotAMapKeyError struct {
	Type *Type
}

func (e *NotAMapKeyError) Error() string {
	return fmt.Sprintf("%s is not marked with //multibind:mapkey", e.Type)
}

func (e *NotAMapKeyError) Kind() string      { return "NotAMapKey" }
func (e *NotAMapKeyError) Anchors() []Anchor { return []Anchor{{Element: e.Type.String()}} }

// MemberCountError reports an unwrapped key definition without exactly one member.
type MemberCountError struct {
	Type  *Type
	Count int
}

func (e *MemberCountError) Error() string {
	return fmt.Sprintf("unwrapped map key %s must have exactly one member, found %d", e.Type, e.Count)
}

func (e *MemberCountError) Kind() string      { return "MemberCount" }
func (e *MemberCountError) Anchors() []Anchor { return []Anchor{{Element: e.Type.String()}} }

// MissingMemberError reports a member with neither a supplied nor a default value.
type MissingMemberError struct {
	Type   *Type
	Member string
}

func (e *MissingMemberError) Error() string {
	return fmt.Sprintf("%s.%s has no value and no default", e.Type, e.Member)
}

func (e *MissingMemberError) Kind() string      { return "MissingMember" }
func (e *MissingMemberError) Anchors() []Anchor { return []Anchor{{Element: e.Type.String()}} }

// ArrayKeyTypeError reports an unwrapped key definition whose member is an array.
type ArrayKeyTypeError struct {
	Type   *Type
	Member string
}

func (e *ArrayKeyTypeError) Error() string {
	return fmt.Sprintf("%s.%s cannot be an array", e.Type, e.Member)
}

func (e *ArrayKeyTypeError) Kind() string      { return "ArrayKeyType" }
func (e *ArrayKeyTypeError) Anchors() []Anchor { return []Anchor{{Element: e.Type.String()}} }

// CannotUnwrapArrayError reports an attempt to use an array value as an unwrapped key.
type CannotUnwrapArrayError struct {
	Binding *Binding
}

func (e *CannotUnwrapArrayError) Error() string {
	if e.Binding == nil {
		return "cannot unwrap arrays"
	}
	return fmt.Sprintf("%s: cannot unwrap arrays", e.Binding.Identity())
}

func (e *CannotUnwrapArrayError) Kind() string { return "CannotUnwrapArray" }
func (e *CannotUnwrapArrayError) Anchors() []Anchor {
	if e.Binding == nil {
		return nil
	}
	return []Anchor{bindingAnchor(e.Binding)}
}

// MissingMapKeyError reports a map contribution without a key annotation.
type MissingMapKeyError struct {
	Binding *Binding
}

func (e *MissingMapKeyError) Error() string {
	return fmt.Sprintf("%s contributes to a map but has no map key annotation", e.Binding.Identity())
}

func (e *MissingMapKeyError) Kind() string      { return "MissingMapKey" }
func (e *MissingMapKeyError) Anchors() []Anchor { return []Anchor{bindingAnchor(e.Binding)} }

// InconsistentMultibindingShapeError reports a contribution whose output shape
// (V versus Provider[V]) disagrees with the others of the same aggregate.
type InconsistentMultibindingShapeError struct {
	Aggregate *Type
	Binding   *Binding
	Expected  *Type
}

func (e *InconsistentMultibindingShapeError) Error() string {
	return fmt.Sprintf("%s contributes %s to %s, but other contributions produce %s",
		e.Binding.Identity(), e.Binding.Output, e.Aggregate, e.Expected)
}

func (e *InconsistentMultibindingShapeError) Kind() string { return "InconsistentMultibindingShape" }
func (e *InconsistentMultibindingShapeError) Anchors() []Anchor {
	return []Anchor{bindingAnchor(e.Binding)}
}

// DuplicateMapKeyError reports contributions computing equal keys for one map.
// Groups holds the contributions of every duplicated key.
type DuplicateMapKeyError struct {
	Map    *Type
	Groups [][]*Binding
}

func (e *DuplicateMapKeyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: The same map key is bound more than once", e.Map)
	for _, g := range e.Groups {
		for _, binding := range g {
			b.WriteString("\n    ")
			b.WriteString(binding.Identity())
		}
	}
	return b.String()
}

func (e *DuplicateMapKeyError) Kind() string { return "DuplicateMapKey" }
func (e *DuplicateMapKeyError) Anchors() []Anchor {
	var out []Anchor
	for _, g := range e.Groups {
		out = append(out, bindingAnchors(g)...)
	}
	return out
}

// KeyTypeGroup is the set of contributions using one key annotation type.
type KeyTypeGroup struct {
	Type     *Type
	Bindings []*Binding
}

// InconsistentMapKeyAnnotationTypeError reports contributions to one map using
// different key annotation types.
type InconsistentMapKeyAnnotationTypeError struct {
	Map    *Type
	Groups []KeyTypeGroup
}

func (e *InconsistentMapKeyAnnotationTypeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s uses more than one //multibind:mapkey type", e.Map)
	for _, g := range e.Groups {
		fmt.Fprintf(&b, "\n  %s:", g.Type)
		for _, binding := range g.Bindings {
			b.WriteString("\n    ")
			b.WriteString(binding.Identity())
		}
	}
	return b.String()
}

func (e *InconsistentMapKeyAnnotationTypeError) Kind() string {
	return "InconsistentMapKeyAnnotationType"
}

func (e *InconsistentMapKeyAnnotationTypeError) Anchors() []Anchor {
	var out []Anchor
	for _, g := range e.Groups {
		out = append(out, bindingAnchors(g.Bindings)...)
	}
	return out
}

// ConflictingBindingKindsError reports a type bound both uniquely and as a multibinding.
type ConflictingBindingKindsError struct {
	Type          *Type
	Unique        []*Binding
	Contributions []*Binding
}

func (e *ConflictingBindingKindsError) Error() string {
	var names []string
	for _, b := range e.Unique {
		names = append(names, b.Identity())
	}
	return fmt.Sprintf("%s is bound by %s and also has %d multibinding contributions",
		e.Type, strings.Join(names, ", "), len(e.Contributions))
}

func (e *ConflictingBindingKindsError) Kind() string { return "ConflictingBindingKinds" }
func (e *ConflictingBindingKindsError) Anchors() []Anchor {
	return append(bindingAnchors(e.Unique), bindingAnchors(e.Contributions)...)
}

// DuplicateBindingError reports a type with more than one unique provider.
type DuplicateBindingError struct {
	Type     *Type
	Bindings []*Binding
}

func (e *DuplicateBindingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is bound multiple times:", e.Type)
	for i, binding := range e.Bindings {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, binding.Identity())
		if binding.Position.IsValid() {
			fmt.Fprintf(&b, " (%s)", binding.Position)
		}
	}
	return b.String()
}

func (e *DuplicateBindingError) Kind() string      { return "DuplicateBinding" }
func (e *DuplicateBindingError) Anchors() []Anchor { return bindingAnchors(e.Bindings) }

// MissingBindingError reports a requested type nothing provides.
type MissingBindingError struct {
	Type        *Type
	RequestedBy string
}

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("%s cannot be provided; requested by %s", e.Type, e.RequestedBy)
}

func (e *MissingBindingError) Kind() string      { return "MissingBinding" }
func (e *MissingBindingError) Anchors() []Anchor { return []Anchor{{Element: e.RequestedBy}} }

// UnknownModuleError reports a component or include naming an undeclared module.
type UnknownModuleError struct {
	Module      string
	RequestedBy string
}

func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("%s installs unknown module %s", e.RequestedBy, e.Module)
}

func (e *UnknownModuleError) Kind() string      { return "UnknownModule" }
func (e *UnknownModuleError) Anchors() []Anchor { return []Anchor{{Element: e.RequestedBy}} }

// DependencyCycleError reports a cycle among bindings.
type DependencyCycleError struct {
	Cycle []string
}

func (e *DependencyCycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Cycle, " → ")
}

func (e *DependencyCycleError) Kind() string { return "DependencyCycle" }
func (e *DependencyCycleError) Anchors() []Anchor {
	out := make([]Anchor, 0, len(e.Cycle))
	for _, c := range e.Cycle {
		out = append(out, Anchor{Element: c})
	}
	return out
}

// sortedKinds lists the distinct kinds of errs, for logging.
func sortedKinds(errs []error) []string {
	set := make(map[string]bool)
	for _, err := range errs {
		set[NewDiagnostic(err).Kind] = true
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DeclarationError reports a malformed declaration found by a declaration
// source.
type DeclarationError struct {
	Element  string
	Position token.Position
	Message  string
}

func (e *DeclarationError) Error() string {
	if e.Element == "" {
		return e.Message
	}
	return e.Element + ": " + e.Message
}

func (e *DeclarationError) Kind() string { return "Declaration" }
func (e *DeclarationError) Anchors() []Anchor {
	return []Anchor{{Element: e.Element, Position: e.Position}}
}
