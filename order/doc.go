// Package order recovers the source-declaration order of a type's methods.
//
// # Overview
//
// Runtime introspection does not preserve declaration order: reflect
// enumerates methods alphabetically. This package reconstructs the original
// order by correlating member descriptors with the compiled artifacts of the
// running program, using two independent strategies with per-class fallback.
//
// The line-table strategy asks the runtime's function line table for each
// method's declaration line. The byte-scan strategy is the fallback: it
// locates the line-table region inside the raw artifact bytes and finds each
// method's name (and descriptor text, for overloads) as a byte offset. Both
// orders agree with declaration order for code produced by the standard
// toolchain; the byte scan is an explicitly best-effort heuristic, not a
// binary-format parser.
//
// # Core Types
//
//   - Class: identity of a declaring type (import path plus type name)
//   - Member: one method descriptor with encoded parameter and result types
//   - Recoverer: the coordinator owning strategies, caches, and logging
//   - Result: the reordered members plus an overall resolution flag
//   - LineTable / ArtifactSource / AncestorSource: injectable strategy seams
//
// # Example Usage
//
// Recovering the method order of a live value:
//
//	rec := order.NewRecoverer(order.Config{})
//	res, err := rec.Methods(&Widget{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, m := range res.Members {
//		fmt.Println(m.Name) // declaration order, not alphabetical
//	}
//
// Supplying members and facilities explicitly:
//
//	lt := order.NewRuntimeLineTable()
//	lt.Register(reflect.TypeOf(&Widget{}))
//
//	rec := order.NewRecoverer(order.Config{
//		Lines:     lt,
//		Artifacts: order.DirSource{Root: "build/pkg"},
//		Logger:    logger,
//	})
//
//	members, _ := order.Describe(&Widget{})
//	res, err := rec.Recover(members)
//
// # Resolution Semantics
//
// Recovery always degrades instead of aborting. Members whose position
// cannot be determined sort after the resolved members of their class and
// keep their input order; Result.Resolved reports whether everything was
// placed. The only error Recover returns is an artifact read failure, which
// signals an environment problem rather than a normal "cannot determine
// order" outcome. Each unresolved signature is warned about once per
// Recoverer through the configured logger.
//
// # Caching
//
// Per-class line maps and trimmed scan regions are computed once and kept
// for the life of the Recoverer. A loaded class's artifact cannot change, so
// nothing is ever invalidated; failed lookups are not cached and are retried
// on the next call.
package order
