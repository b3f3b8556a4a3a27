// Package gopkgres is the dependency-resolution core of a package
// management layer: given an index of available distributions and a set of
// requirements, it decides which distribution satisfies each requirement,
// follows transitive dependencies, and detects irreconcilable version
// conflicts.
//
// # Overview
//
// The package provides three tightly coupled pieces:
//
//   - version.Key: a legacy, tolerant total order over arbitrary
//     human-written version strings ("1.3a4", "2.1-1", "0.80.1-3")
//   - Requirement: the "Name[extra1,extra2]op1 ver1, op2 ver2" grammar
//     with normalized equality, hashing and containment
//   - Index: a registry of distributions keyed by normalized project name
//     that performs best-match selection and iterative, conflict-detecting
//     resolution
//
// # Quick Start
//
// Build an index and resolve a requirement set:
//
//	ix := gopkgres.NewIndex()
//	dist, err := gopkgres.DistributionFromFilename("/plugins/FooPkg-1.2.egg",
//	    gopkgres.WithMetadata(metadata))
//	if err != nil { ... }
//	ix.Add(dist)
//
//	reqs, err := gopkgres.ParseRequirements("FooPkg[bar]>=1.0")
//	if err != nil { ... }
//	dists, err := ix.Resolve(reqs, nil)
//
// The second argument to Resolve and BestMatch is the search path: the
// ordered locations of already-selected distributions. A path entry that
// names a distribution of the requested project always wins: satisfying
// the requirement it is returned as-is, failing it the call is a
// VersionConflictError. Only otherwise is the index consulted.
//
// Distributions read their dependency declarations through the
// MetadataProvider capability; MapMetadata (in-memory) and DirMetadata
// (EGG-INFO-style directory) are provided, and any backend implementing
// the three-method interface plugs in.
//
// # Thread Safety
//
// Requirements, version keys and constructed Distributions are immutable
// and safe to share. The Index is a single mutable resource: resolution
// ordering guarantees are order-sensitive, so concurrent callers must
// serialize Add/Remove/Resolve sequences around one index.
package gopkgres
