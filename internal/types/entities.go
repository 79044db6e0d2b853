package types

import "time"

// Catalog entity identifiers. The store assigns them in insertion order,
// which also serves as the deterministic tie-break during equivalence
// ranking.
type (
	LayerSourceID  int
	BranchID       int
	LayerID        int
	LayerVersionID int
	ProjectID      int
	BuildID        int
	RecipeID       int
	MachineID      int
)

// LayerSource is an origin from which layers and layer versions are
// discovered: a local checkout, a remote layer index, or an on-disk
// import. Identity is the (Name, Sourcetype) pair; the store rejects
// duplicates.
type LayerSource struct {
	ID         LayerSourceID
	Name       string
	Sourcetype SourceType

	// APIURL locates the backing origin. For layerindex sources it is the
	// index API base URL; for imported sources the manifest file path; for
	// local sources the checkout root directory.
	APIURL string
}

// Branch is a named branch known to one layer source.
type Branch struct {
	ID               BranchID
	LayerSource      LayerSourceID
	Name             string
	ShortDescription string
}

// BitbakeVersion identifies one version of the build tool a release pins.
type BitbakeVersion struct {
	Name    string
	GitURL  string
	Branch  string
	DirPath string
}

// Release is a named distribution line. Projects pin exactly one release;
// the release's prioritized layer sources decide which catalog versions
// the project can see.
type Release struct {
	Name           string
	BitbakeVersion string
	BranchName     string
	Description    string
}

// ReleaseLayerSourcePriority attaches a layer source to a release with an
// integer rank. Lower values take precedence.
type ReleaseLayerSourcePriority struct {
	Release     string
	LayerSource LayerSourceID
	Priority    int
}

// Layer is a named logical unit of build configuration and recipes,
// scoped to the source that discovered it. The same logical layer may
// exist under several sources; equivalence resolution reconciles them.
type Layer struct {
	ID          LayerID
	Name        string
	LayerSource LayerSourceID
	VCSURL      string
	Summary     string
}

// LayerVersion is one concrete, buildable instance of a layer. Catalog
// versions carry a non-zero LayerSource; build-derived versions carry a
// non-zero Build instead (and may have neither source nor branch). A
// version with neither violates the data model and is rejected on
// creation.
type LayerVersion struct {
	ID          LayerVersionID
	Layer       LayerID
	LayerSource LayerSourceID
	UpBranch    BranchID
	Build       BuildID
	Commit      string
	DirPath     string

	// BitbakeRequires optionally constrains the build-tool version this
	// layer version works with, e.g. ">=1.40". Empty means unconstrained.
	BitbakeRequires string
}

// BuildDerived reports whether this version was produced by a build
// rather than discovered through a catalog source.
func (v LayerVersion) BuildDerived() bool { return v.Build != 0 }

// LayerVersionDependency is a directed edge between layer versions.
// Nothing in the data model forbids cycles; consumers walking the graph
// must detect them.
type LayerVersionDependency struct {
	LayerVersion LayerVersionID
	DependsOn    LayerVersionID
}

// Project pins one release and owns a set of added layer versions.
type Project struct {
	ID      ProjectID
	Name    string
	Release string
}

// ProjectLayer marks one layer version as currently added to a project.
type ProjectLayer struct {
	Project     ProjectID
	LayerCommit LayerVersionID
}

// Build is one build run of a project. Completed builds may contribute
// build-derived layer versions back into the catalog.
type Build struct {
	ID          BuildID
	Project     ProjectID
	StartedOn   time.Time
	CompletedOn time.Time
	Outcome     BuildOutcome
}

// Recipe is one buildable recipe provided by a layer version.
type Recipe struct {
	ID           RecipeID
	Name         string
	Version      string
	Summary      string
	FilePath     string
	LayerVersion LayerVersionID
}

// Machine is one target machine definition provided by a layer version.
type Machine struct {
	ID           MachineID
	Name         string
	Description  string
	LayerVersion LayerVersionID
}
