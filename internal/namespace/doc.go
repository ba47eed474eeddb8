// Package namespace provides the namespace capability the alias engine
// writes into and reads from.
//
// A namespace is any mutable container mapping names to values. The
// engine never reflects over concrete host structures; it only uses the
// Namespace interface, so a plain Go map, a Lua global table or any other
// host store can be aliased once it has an adapter.
//
// Values are addressed by dotted paths such as "editor.commands.save".
// Resolver.Get walks the path and reports absence instead of failing.
// Resolver.Set creates placeholder namespaces for missing intermediate
// segments so that deep writes always have a parent to attach to.
//
// Example:
//
//	root := namespace.NewTable()
//	r := namespace.NewResolver(root)
//	_ = r.Set(namespace.Direct(root), "ui.status.show", fn)
//	v, ok := r.Get(namespace.Named("ui"), "status.show")
package namespace
