package polyfill

import "errors"

var (
	// ErrDependencyCycle is returned when the catalog's dependency graph
	// contains a cycle among the features of a bundle. No output is written.
	ErrDependencyCycle = errors.New("polyfill: dependency cycle")

	// ErrNilProvider is the panic value of New when given no provider.
	ErrNilProvider = errors.New("polyfill: nil provider")
)
