package ports

import "toaster/internal/types"

// CatalogQueryPort is the read surface the resolver and the project views
// depend on. Implementations are expected to return entities in stable
// insertion order so that equivalence ranking stays deterministic.
type CatalogQueryPort interface {
	LayerSources() ([]types.LayerSource, error)
	LayerSourceByID(id types.LayerSourceID) (types.LayerSource, error)
	LayerSourceByName(name string, sourcetype types.SourceType) (types.LayerSource, error)

	BranchesBySource(source types.LayerSourceID) ([]types.Branch, error)

	LayerByID(id types.LayerID) (types.Layer, error)
	LayerByName(name string, source types.LayerSourceID) (types.Layer, error)
	LayersBySource(source types.LayerSourceID) ([]types.Layer, error)

	LayerVersions() ([]types.LayerVersion, error)
	LayerVersionByID(id types.LayerVersionID) (types.LayerVersion, error)
	LayerVersionsByLayerName(name string) ([]types.LayerVersion, error)

	ReleaseByName(name string) (types.Release, error)
	BitbakeVersionByName(name string) (types.BitbakeVersion, error)
	PrioritiesForRelease(release string) ([]types.ReleaseLayerSourcePriority, error)

	ProjectByName(name string) (types.Project, error)
	ProjectLayers(project types.ProjectID) ([]types.ProjectLayer, error)
	BuildByID(id types.BuildID) (types.Build, error)

	DependenciesOf(version types.LayerVersionID) ([]types.LayerVersionID, error)
	Recipes() ([]types.Recipe, error)
	Machines() ([]types.Machine, error)
}

// CatalogWritePort is used by source sync, fixtures, and the build
// subsystem to populate the catalog. Create methods enforce the data
// model's uniqueness and presence constraints and return the stored
// entity with its assigned ID.
type CatalogWritePort interface {
	CreateLayerSource(src types.LayerSource) (types.LayerSource, error)
	CreateBranch(branch types.Branch) (types.Branch, error)
	CreateBitbakeVersion(bbv types.BitbakeVersion) error
	CreateRelease(release types.Release) error
	CreatePriority(priority types.ReleaseLayerSourcePriority) error
	CreateLayer(layer types.Layer) (types.Layer, error)
	CreateLayerVersion(version types.LayerVersion) (types.LayerVersion, error)
	CreateProject(project types.Project) (types.Project, error)
	CreateProjectLayer(link types.ProjectLayer) error
	CreateBuild(build types.Build) (types.Build, error)
	CreateRecipe(recipe types.Recipe) (types.Recipe, error)
	CreateMachine(machine types.Machine) (types.Machine, error)
	CreateDependency(dep types.LayerVersionDependency) error
}

// CatalogPort combines the read and write surfaces.
type CatalogPort interface {
	CatalogQueryPort
	CatalogWritePort
}
