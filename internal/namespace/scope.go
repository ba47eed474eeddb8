package namespace

// Scope identifies a namespace, either directly or by its name in a
// root namespace.
type Scope interface {
	Resolve(root Namespace) (Namespace, bool)

	// String names the scope for logs and errors.
	String() string
}

// Named is a scope naming a root-level namespace.
type Named string

// Resolve implements Scope.
func (n Named) Resolve(root Namespace) (Namespace, bool) {
	if root == nil {
		return nil, false
	}
	v, ok := root.Lookup(string(n))
	if !ok {
		return nil, false
	}
	return AsNamespace(v)
}

// String implements Scope.
func (n Named) String() string { return string(n) }

type direct struct {
	ns Namespace
}

// Direct returns a scope for a namespace handle.
func Direct(ns Namespace) Scope {
	return direct{ns: ns}
}

// Resolve implements Scope.
func (d direct) Resolve(Namespace) (Namespace, bool) {
	return d.ns, d.ns != nil
}

// String implements Scope.
func (d direct) String() string {
	if s, ok := d.ns.(interface{ String() string }); ok {
		return s.String()
	}
	return "<namespace>"
}
