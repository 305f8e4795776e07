// Package members builds and caches the script-facing member tables of host
// types.
//
// # Overview
//
// A Table is what a script sees of a host type: named fields, method
// families, synthesized bean properties and the constructor group, split into
// a static and an instance side. Tables are built once per (type, trust
// context) by a Cache and are immutable afterwards.
//
// # Building
//
// Build runs in a fixed order:
//
//   - The VisibilityGate is asked first; a rejection fails with ErrTypeNotVisible.
//   - Methods are discovered over the type, its interfaces and its
//     superclasses. Methods of a non-public class are taken from the nearest
//     accessible ancestor with the same signature. Two methods differing only
//     in return type collapse to the one with the most specific return type.
//   - Fields are discovered along the superclass chain. A field declared in a
//     subclass shadows the ancestor's field of the same name. A field sharing
//     its name with a method family becomes a FieldAndMethods composite.
//   - Bean properties are synthesized from get/is/set accessors, static side
//     first.
//   - Constructors form one CallableGroup named after the type's simple name.
//
// The Strategy decides how public methods are enumerated and whether
// non-public members may be opened. SelectStrategy picks Permissive or
// Restricted once at startup.
//
// # Querying
//
//	cache := members.NewCache(members.Options{Coercer: c, Wrapper: w})
//	table, err := cache.Lookup(calcType, nil, nil)
//	if err != nil {
//		return err
//	}
//
//	add, _ := table.Get(scope, "add", calc, false)           // both overloads
//	addInt, _ := table.Get(scope, "add(int,int)", calc, false) // one overload
//	err = table.Put(scope, "label", calc, "total", false)      // bean setter
//
// Instance lookups that miss fall back to the static side. Get returns
// NotFound when nothing matches. Put errors are *Error values carrying an
// ErrorCode; match them with errors.Is against the package sentinels.
//
// # Concurrency
//
// Builds take no locks and run on private state. The finished table is
// published with a single Store call, so readers never observe a partially
// built table. Concurrent misses on one key may build twice; the last
// publication wins.
//
// Tables are keyed by trust context identity. A context whose privileges
// change after a table was built keeps seeing that table until Reset.
package members
