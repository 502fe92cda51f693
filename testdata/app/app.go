package app

import (
	"example.com/app/handlers"
	"example.com/app/keys"
	"example.com/app/rt"
)

// AppComponent exposes the aggregated handlers.
//
//multibind:component example.com/app/handlers
type AppComponent interface {
	Handlers() map[keys.PathEnum]handlers.Handler
	HandlerProviders() map[keys.PathEnum]rt.Provider[handlers.Handler]
	Routes() map[keys.RouteKey]handlers.Handler
	Plugins() []string
	// Extra returns qualified plugins.
	//
	//multibind:qualifier extra
	Extra() []string
	Fallbacks() []handlers.Handler
}
