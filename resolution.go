package gopkgres

// rootRequirer marks a distribution demanded directly by the caller's own
// requirements rather than by another project's depends.txt.
const rootRequirer = "<root>"

// ResolvedDistribution is one distribution chosen by resolution, with the
// projects that demanded it.
type ResolvedDistribution struct {
	// Name is the distribution's declared project name.
	Name string `json:"name"`

	// Version is the chosen version.
	Version string `json:"version"`

	// Location is where the chosen distribution lives.
	Location string `json:"location"`

	// RequiredBy lists the project keys whose requirements demanded this
	// distribution, in first-demand order; "<root>" stands for the
	// caller's own requirements.
	RequiredBy []string `json:"required_by"`

	// Distribution is the chosen distribution itself.
	Distribution *Distribution `json:"-"`
}

// addRequirer records another demanding project, keeping RequiredBy
// duplicate-free.
func (rd *ResolvedDistribution) addRequirer(key string) {
	for _, existing := range rd.RequiredBy {
		if existing == key {
			return
		}
	}
	rd.RequiredBy = append(rd.RequiredBy, key)
}

// Resolution is the full result of a resolve call: the chosen
// distributions in first-resolved order plus aggregate statistics.
type Resolution struct {
	// Distributions lists the chosen distributions, each project at most
	// once, in the order they were first resolved.
	Distributions []ResolvedDistribution `json:"distributions"`

	// Summary provides aggregate statistics about the resolution.
	Summary ResolutionSummary `json:"summary"`
}

// ResolutionSummary provides statistics about a resolution result.
type ResolutionSummary struct {
	// TotalDistributions is the count of chosen distributions.
	TotalDistributions int `json:"total_distributions"`

	// RootDistributions is the count demanded directly by the caller's
	// requirements.
	RootDistributions int `json:"root_distributions"`

	// TransitiveDistributions is the count pulled in only as dependencies.
	TransitiveDistributions int `json:"transitive_distributions"`
}

// summarize fills in the summary from the chosen distributions.
func (r *Resolution) summarize() {
	r.Summary.TotalDistributions = len(r.Distributions)
	for _, rd := range r.Distributions {
		root := false
		for _, by := range rd.RequiredBy {
			if by == rootRequirer {
				root = true
				break
			}
		}
		if root {
			r.Summary.RootDistributions++
		} else {
			r.Summary.TransitiveDistributions++
		}
	}
}
