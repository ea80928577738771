// Package middlewares implementa la cebolla HTTP de staffdesk.
//
// Cada middleware es un func(http.Handler) http.Handler, componible
// tanto con Chain como con el Use de chi. El orden importa: Recover
// siempre va primero para atrapar pánicos del resto de la cadena.
package middlewares

import "net/http"

// Middleware envuelve un handler con comportamiento adicional.
type Middleware func(http.Handler) http.Handler

// Chain aplica los middlewares en orden de lectura: el primero de la
// lista es el más externo.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// ChainFunc es Chain para http.HandlerFunc.
func ChainFunc(h http.HandlerFunc, mws ...Middleware) http.Handler {
	return Chain(h, mws...)
}
