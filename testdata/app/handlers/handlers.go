// Package handlers contributes HTTP handlers.
//
//multibind:include example.com/app/plugins
package handlers

import "example.com/app/keys"

// DefaultPath is served when no route matches.
const DefaultPath = keys.Admin

type Handler interface {
	Name() string
}

type named string

func (n named) Name() string { return string(n) }

// ProvideAdminHandler serves the admin route.
//
//multibind:into map
//multibind:key keys.PathKey{Value: keys.Admin}
func ProvideAdminHandler() Handler { return named("admin") }

// ProvideLoginHandler serves the login route.
//
//multibind:into map
//multibind:key keys.PathKey{keys.Login}
func ProvideLoginHandler() Handler { return named("login") }

// ProvideIndex serves GET /.
//
//multibind:into map
//multibind:key keys.RouteKey{Path: "/"}
func ProvideIndex(prefix string) Handler { return named(prefix + "index") }

//multibind:provides
//multibind:scope singleton
func ProvidePrefix() string { return "/" }

//multibind:ignore
//multibind:provides
func Unused() int { return 0 }
