package apkres

// Resolver returns the symbolic name of the resource entry ref points to.
// Implementations must be safe for concurrent use and return stable names
// for the lifetime of a Session. Resolve may block.
type Resolver interface {
	Resolve(ref Reference) (name string, ok bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ref Reference) (string, bool)

func (f ResolverFunc) Resolve(ref Reference) (string, bool) {
	return f(ref)
}

// MapResolver resolves references from a fixed map. It must not be modified
// after it is handed to a Session.
type MapResolver map[Reference]string

func (m MapResolver) Resolve(ref Reference) (string, bool) {
	name, ok := m[ref]
	return name, ok
}
