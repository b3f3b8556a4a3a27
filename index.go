package gopkgres

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Index is a registry of the distributions available for resolution,
// keyed by normalized project name. Each project's distributions are kept
// in descending version order, ties broken by insertion order, so the
// first satisfying entry in a bucket is the best match.
//
// The index is a single mutable resource with no internal locking: the
// resolution algorithm is order-sensitive ("first path match wins", "first
// resolution per key wins"), so callers sharing an index across goroutines
// must serialize Add/Remove/Resolve sequences themselves.
type Index struct {
	buckets map[string][]*Distribution
	logger  zerolog.Logger
}

// NewIndex creates a distribution index, optionally seeded and configured.
func NewIndex(opts ...Option) *Index {
	cfg := indexConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	ix := &Index{
		buckets: make(map[string][]*Distribution),
		logger:  cfg.logger,
	}
	for _, d := range cfg.dists {
		ix.Add(d)
	}
	return ix
}

// Add inserts a distribution into its project's bucket, keeping the
// bucket sorted by descending version with first-inserted-first ties.
// Adding a duplicate (same key, version and location) is a no-op.
func (ix *Index) Add(dist *Distribution) {
	key := dist.Key()
	bucket := ix.buckets[key]

	for _, existing := range bucket {
		if existing.Version() == dist.Version() && existing.Location() == dist.Location() {
			return
		}
	}

	// Insert after any entries of equal version so earlier adds win ties.
	pos := len(bucket)
	for i, existing := range bucket {
		if existing.ParsedVersion().Less(dist.ParsedVersion()) {
			pos = i
			break
		}
	}

	bucket = append(bucket, nil)
	copy(bucket[pos+1:], bucket[pos:])
	bucket[pos] = dist
	ix.buckets[key] = bucket

	ix.logger.Debug().Str("key", key).Str("version", dist.Version()).
		Str("location", dist.Location()).Msg("distribution added")
}

// Remove deletes the exact entry for a distribution, leaving the rest of
// its bucket in order. Removing a distribution that is not in the index
// fails with ErrNotFound.
func (ix *Index) Remove(dist *Distribution) error {
	key := dist.Key()
	bucket := ix.buckets[key]

	for i, existing := range bucket {
		if existing == dist ||
			(existing.Version() == dist.Version() && existing.Location() == dist.Location()) {
			bucket = append(bucket[:i], bucket[i+1:]...)
			if len(bucket) == 0 {
				delete(ix.buckets, key)
			} else {
				ix.buckets[key] = bucket
			}
			return nil
		}
	}
	return ErrNotFound
}

// Get returns the ordered distributions for a project name, or nil when
// the project is unknown. The name is normalized before lookup.
func (ix *Index) Get(name string) []*Distribution {
	return ix.buckets[strings.ToLower(name)]
}

// Lookup is Get for callers that need an error: it fails with a
// KeyNotFoundError (matching ErrKeyNotFound) when the project is unknown.
func (ix *Index) Lookup(name string) ([]*Distribution, error) {
	key := strings.ToLower(name)
	bucket, ok := ix.buckets[key]
	if !ok {
		return nil, &KeyNotFoundError{Key: key}
	}
	return bucket, nil
}

// Has reports whether any distribution is indexed under the name.
func (ix *Index) Has(name string) bool {
	_, ok := ix.buckets[strings.ToLower(name)]
	return ok
}

// Len returns the number of distinct project keys in the index.
func (ix *Index) Len() int {
	return len(ix.buckets)
}

// Keys returns the normalized project keys, sorted for determinism.
func (ix *Index) Keys() []string {
	keys := make([]string, 0, len(ix.buckets))
	for key := range ix.buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// BestMatch selects the distribution to use for a requirement given a
// search path of already-selected locations.
//
// The path always wins: its first entry that is the location of an
// indexed distribution of the requirement's project is the path
// candidate. A satisfying path candidate is returned as-is; an
// unsuitable one fails with VersionConflictError; the index is never
// consulted behind an already-selected distribution. Only when no path
// entry matches the project does the bucket's descending order decide,
// and the first satisfying entry is returned; nil means nothing matched.
func (ix *Index) BestMatch(req Requirement, path []string) (*Distribution, error) {
	bucket := ix.buckets[req.Key()]

	byLocation := make(map[string]*Distribution, len(bucket))
	for _, dist := range bucket {
		if _, ok := byLocation[dist.Location()]; !ok {
			byLocation[dist.Location()] = dist
		}
	}

	for _, entry := range path {
		dist, ok := byLocation[entry]
		if !ok {
			continue
		}
		if req.MatchesDistribution(dist) {
			ix.logger.Debug().Stringer("requirement", req).Stringer("selected", dist).
				Msg("best match on path")
			return dist, nil
		}
		ix.logger.Debug().Stringer("requirement", req).Stringer("selected", dist).
			Msg("path candidate conflicts")
		return nil, &VersionConflictError{Requirement: req, Distribution: dist}
	}

	for _, dist := range bucket {
		if req.MatchesDistribution(dist) {
			ix.logger.Debug().Stringer("requirement", req).Stringer("selected", dist).
				Msg("best match in index")
			return dist, nil
		}
	}
	return nil, nil
}

// Resolve turns requirements into the ordered, conflict-free set of
// distributions needed to satisfy them, following transitive dependencies
// through each chosen distribution's depends.txt (with the requirement's
// extras applied). The result lists newly chosen distributions in
// first-resolved order, each project at most once.
//
// It fails with DistributionNotFoundError when no candidate satisfies a
// requirement, and VersionConflictError when a requirement contradicts a
// path entry or an earlier choice in the same call. A failure aborts the
// whole call; no partial result is returned.
//
// A requirement for an already-resolved project that the chosen
// distribution satisfies is a no-op; in particular, its extras are NOT
// re-merged, so extras first requested after the project was resolved
// contribute no additional dependencies.
func (ix *Index) Resolve(reqs []Requirement, path []string) ([]*Distribution, error) {
	res, err := ix.resolve(reqs, path)
	if err != nil {
		return nil, err
	}
	dists := make([]*Distribution, len(res.Distributions))
	for i := range res.Distributions {
		dists[i] = res.Distributions[i].Distribution
	}
	return dists, nil
}

// ResolveReport is Resolve returning the full resolution report: the same
// ordered choices annotated with which projects demanded them, plus
// aggregate counts. Failure semantics are identical to Resolve.
func (ix *Index) ResolveReport(reqs []Requirement, path []string) (*Resolution, error) {
	return ix.resolve(reqs, path)
}

// workItem is one queued requirement plus the project that demanded it
// (rootRequirer for the caller's own requirements).
type workItem struct {
	req        Requirement
	requiredBy string
}

func (ix *Index) resolve(reqs []Requirement, path []string) (*Resolution, error) {
	queue := make([]workItem, 0, len(reqs))
	for _, req := range reqs {
		queue = append(queue, workItem{req: req, requiredBy: rootRequirer})
	}

	res := &Resolution{}
	resolved := make(map[string]int) // key -> index into res.Distributions

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		req := item.req

		ix.logger.Debug().Stringer("requirement", req).Str("required_by", item.requiredBy).
			Msg("resolving requirement")

		if idx, ok := resolved[req.Key()]; ok {
			chosen := &res.Distributions[idx]
			if !req.MatchesDistribution(chosen.Distribution) {
				return nil, &VersionConflictError{Requirement: req, Distribution: chosen.Distribution}
			}
			chosen.addRequirer(item.requiredBy)
			continue
		}

		dist, err := ix.BestMatch(req, path)
		if err != nil {
			return nil, err
		}
		if dist == nil {
			return nil, &DistributionNotFoundError{Requirement: req}
		}

		res.Distributions = append(res.Distributions, ResolvedDistribution{
			Name:         dist.Name(),
			Version:      dist.Version(),
			Location:     dist.Location(),
			RequiredBy:   []string{item.requiredBy},
			Distribution: dist,
		})
		resolved[req.Key()] = len(res.Distributions) - 1

		deps, err := dist.Depends(req.Extras()...)
		if err != nil {
			return nil, err
		}
		for _, dep := range deps {
			queue = append(queue, workItem{req: dep, requiredBy: req.Key()})
		}
	}

	res.summarize()
	return res, nil
}

// Scan walks directories for distribution archives ("*.egg" entries) and
// adds every one whose filename parses. It is fail-open like the rest of
// discovery: unreadable directories and unparseable filenames are skipped
// with a debug log rather than aborting the scan.
func (ix *Index) Scan(dirs ...string) {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			ix.logger.Debug().Err(err).Str("dir", dir).Msg("skipping unreadable directory")
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".egg") {
				continue
			}
			location := filepath.Join(dir, entry.Name())
			dist, err := DistributionFromFilename(location)
			if err != nil {
				ix.logger.Debug().Err(err).Str("file", location).Msg("skipping unparseable filename")
				continue
			}
			ix.Add(dist)
		}
	}
}
