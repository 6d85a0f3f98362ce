// Package sema binds a parsed compilation unit against the reference
// assemblies.
//
// Binding is declaration-level: namespaces, using directives, type
// references, attributes, members and local declarations are resolved and
// checked; expression types are not inferred. The outcome is a Model that
// answers "which symbol does this type syntax denote".
package sema
