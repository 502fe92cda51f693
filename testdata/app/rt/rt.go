// Package rt provides the factories generated components call.
package rt

import (
	"fmt"
	"sync"
)

// Provider yields a value on demand.
type Provider[T any] interface {
	Get() T
}

// AnyProvider is a Provider whose type argument cannot be named.
type AnyProvider interface {
	Get() any
}

// MembersInjector fills the injectable members of an existing value.
type MembersInjector[T any] interface {
	InjectMembers(T)
}

// AnyMembersInjector is a MembersInjector whose type argument cannot be named.
type AnyMembersInjector interface {
	InjectMembers(any)
}

type providerFunc[T any] func() T

func (f providerFunc[T]) Get() T { return f() }

type anyProviderFunc func() any

func (f anyProviderFunc) Get() any { return f() }

// Provide returns a Provider calling f once and reusing the result.
func Provide[T any](f func() T) Provider[T] {
	return providerFunc[T](sync.OnceValue(f))
}

// Flatten unwraps a provider of providers.
func Flatten[T any](p Provider[Provider[T]]) Provider[T] {
	return providerFunc[T](func() T { return p.Get().Get() })
}

// MapProviderFactoryBuilder collects the entries of a map of providers.
type MapProviderFactoryBuilder[K comparable, V any] struct {
	entries map[K]Provider[V]
}

// NewMapProviderFactoryBuilder returns a builder sized for n entries.
func NewMapProviderFactoryBuilder[K comparable, V any](n int) *MapProviderFactoryBuilder[K, V] {
	return &MapProviderFactoryBuilder[K, V]{entries: make(map[K]Provider[V], n)}
}

// Put adds an entry. Keys are unique.
func (b *MapProviderFactoryBuilder[K, V]) Put(key K, p Provider[V]) *MapProviderFactoryBuilder[K, V] {
	if _, ok := b.entries[key]; ok {
		panic(fmt.Sprintf("rt: duplicate map key %v", key))
	}
	b.entries[key] = p
	return b
}

// Build returns a provider of the collected map.
func (b *MapProviderFactoryBuilder[K, V]) Build() Provider[map[K]Provider[V]] {
	entries := b.entries
	return providerFunc[map[K]Provider[V]](func() map[K]Provider[V] { return entries })
}

// NewMapFactory resolves every provider of the map on each call.
func NewMapFactory[K comparable, V any](p Provider[map[K]Provider[V]]) Provider[map[K]V] {
	return providerFunc[map[K]V](func() map[K]V {
		in := p.Get()
		out := make(map[K]V, len(in))
		for k, v := range in {
			out[k] = v.Get()
		}
		return out
	})
}

// NewSetFactory resolves every provider on each call.
func NewSetFactory[T any](ps ...Provider[T]) Provider[[]T] {
	return providerFunc[[]T](func() []T {
		out := make([]T, 0, len(ps))
		for _, p := range ps {
			out = append(out, p.Get())
		}
		return out
	})
}

// NewSetOfProviderFactory returns the providers themselves.
func NewSetOfProviderFactory[T any](ps ...Provider[T]) Provider[[]Provider[T]] {
	return providerFunc[[]Provider[T]](func() []Provider[T] { return ps })
}

func EmptyMapProviderFactory[K comparable, V any]() Provider[map[K]Provider[V]] {
	return providerFunc[map[K]Provider[V]](func() map[K]Provider[V] { return map[K]Provider[V]{} })
}

func EmptyMapFactory[K comparable, V any]() Provider[map[K]V] {
	return providerFunc[map[K]V](func() map[K]V { return map[K]V{} })
}

func EmptySetFactory[T any]() Provider[[]T] {
	return providerFunc[[]T](func() []T { return nil })
}

func EmptySetOfProviderFactory[T any]() Provider[[]Provider[T]] {
	return providerFunc[[]Provider[T]](func() []Provider[T] { return nil })
}

type noOpInjector[T any] struct{}

func (noOpInjector[T]) InjectMembers(T) {}

// NoOpMembersInjector injects nothing.
func NoOpMembersInjector[T any]() MembersInjector[T] {
	return noOpInjector[T]{}
}

func EmptyMapProviderFactoryRaw() AnyProvider {
	return anyProviderFunc(func() any { return map[any]any{} })
}

func EmptyMapFactoryRaw() AnyProvider {
	return anyProviderFunc(func() any { return map[any]any{} })
}

func EmptySetFactoryRaw() AnyProvider {
	return anyProviderFunc(func() any { return []any(nil) })
}

func EmptySetOfProviderFactoryRaw() AnyProvider {
	return anyProviderFunc(func() any { return []any(nil) })
}

type anyInjector struct{}

func (anyInjector) InjectMembers(any) {}

func NoOpMembersInjectorRaw() AnyMembersInjector {
	return anyInjector{}
}
