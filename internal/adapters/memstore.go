package adapters

import (
	"fmt"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"toaster/internal/types"
)

// MemStore is an in-memory catalog store. It assigns insertion-order IDs,
// enforces the data model's uniqueness and presence constraints, and
// returns entities in insertion order. It backs the CLI and the test
// suites; a persistent store is an external collaborator implementing
// the same port.
type MemStore struct {
	mu sync.Mutex

	sources    []types.LayerSource
	branches   []types.Branch
	bitbakes   []types.BitbakeVersion
	releases   []types.Release
	priorities []types.ReleaseLayerSourcePriority
	layers     []types.Layer
	versions   []types.LayerVersion
	projects   []types.Project
	links      []types.ProjectLayer
	builds     []types.Build
	recipes    []types.Recipe
	machines   []types.Machine
	deps       []types.LayerVersionDependency
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func notFound(what string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(what)
}

func conflict(what string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeAlreadyExists).
		WithMsg(what)
}

func (s *MemStore) CreateLayerSource(src types.LayerSource) (types.LayerSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src.Name == "" {
		return types.LayerSource{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("layer source name is empty")
	}
	for _, existing := range s.sources {
		if existing.Name == src.Name && existing.Sourcetype == src.Sourcetype {
			return types.LayerSource{}, conflict(fmt.Sprintf("layer source already exists: %s (%s)", src.Name, src.Sourcetype))
		}
	}
	src.ID = types.LayerSourceID(len(s.sources) + 1)
	s.sources = append(s.sources, src)
	return src, nil
}

func (s *MemStore) LayerSources() ([]types.LayerSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.LayerSource, len(s.sources))
	copy(out, s.sources)
	return out, nil
}

func (s *MemStore) LayerSourceByID(id types.LayerSourceID) (types.LayerSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		if src.ID == id {
			return src, nil
		}
	}
	return types.LayerSource{}, notFound(fmt.Sprintf("layer source %d not found", id))
}

func (s *MemStore) LayerSourceByName(name string, sourcetype types.SourceType) (types.LayerSource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		if src.Name == name && src.Sourcetype == sourcetype {
			return src, nil
		}
	}
	return types.LayerSource{}, notFound(fmt.Sprintf("layer source %s (%s) not found", name, sourcetype))
}

func (s *MemStore) CreateBranch(branch types.Branch) (types.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.branches {
		if existing.LayerSource == branch.LayerSource && existing.Name == branch.Name {
			return existing, nil
		}
	}
	branch.ID = types.BranchID(len(s.branches) + 1)
	s.branches = append(s.branches, branch)
	return branch, nil
}

func (s *MemStore) BranchesBySource(source types.LayerSourceID) ([]types.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Branch
	for _, branch := range s.branches {
		if branch.LayerSource == source {
			out = append(out, branch)
		}
	}
	return out, nil
}

func (s *MemStore) CreateBitbakeVersion(bbv types.BitbakeVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bitbakes {
		if existing.Name == bbv.Name {
			return conflict(fmt.Sprintf("bitbake version already exists: %s", bbv.Name))
		}
	}
	s.bitbakes = append(s.bitbakes, bbv)
	return nil
}

func (s *MemStore) BitbakeVersionByName(name string) (types.BitbakeVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bbv := range s.bitbakes {
		if bbv.Name == name {
			return bbv, nil
		}
	}
	return types.BitbakeVersion{}, notFound(fmt.Sprintf("bitbake version %s not found", name))
}

func (s *MemStore) CreateRelease(release types.Release) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.releases {
		if existing.Name == release.Name {
			return conflict(fmt.Sprintf("release already exists: %s", release.Name))
		}
	}
	s.releases = append(s.releases, release)
	return nil
}

func (s *MemStore) ReleaseByName(name string) (types.Release, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, release := range s.releases {
		if release.Name == name {
			return release, nil
		}
	}
	return types.Release{}, notFound(fmt.Sprintf("release %s not found", name))
}

func (s *MemStore) CreatePriority(priority types.ReleaseLayerSourcePriority) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.priorities {
		if existing.Release == priority.Release && existing.LayerSource == priority.LayerSource {
			return conflict(fmt.Sprintf("priority already set for source %d in release %s", priority.LayerSource, priority.Release))
		}
	}
	s.priorities = append(s.priorities, priority)
	return nil
}

func (s *MemStore) PrioritiesForRelease(release string) ([]types.ReleaseLayerSourcePriority, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.ReleaseLayerSourcePriority
	for _, priority := range s.priorities {
		if priority.Release == release {
			out = append(out, priority)
		}
	}
	return out, nil
}

func (s *MemStore) CreateLayer(layer types.Layer) (types.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.layers {
		if existing.Name == layer.Name && existing.LayerSource == layer.LayerSource {
			return types.Layer{}, conflict(fmt.Sprintf("layer already exists: %s (source %d)", layer.Name, layer.LayerSource))
		}
	}
	layer.ID = types.LayerID(len(s.layers) + 1)
	s.layers = append(s.layers, layer)
	return layer, nil
}

func (s *MemStore) LayerByID(id types.LayerID) (types.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, layer := range s.layers {
		if layer.ID == id {
			return layer, nil
		}
	}
	return types.Layer{}, notFound(fmt.Sprintf("layer %d not found", id))
}

func (s *MemStore) LayerByName(name string, source types.LayerSourceID) (types.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, layer := range s.layers {
		if layer.Name == name && layer.LayerSource == source {
			return layer, nil
		}
	}
	return types.Layer{}, notFound(fmt.Sprintf("layer %s not found in source %d", name, source))
}

func (s *MemStore) LayersBySource(source types.LayerSourceID) ([]types.Layer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Layer
	for _, layer := range s.layers {
		if layer.LayerSource == source {
			out = append(out, layer)
		}
	}
	return out, nil
}

func (s *MemStore) CreateLayerVersion(version types.LayerVersion) (types.LayerVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if version.LayerSource == 0 && version.Build == 0 {
		return types.LayerVersion{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("layer version needs a layer source or a build")
	}
	if !s.layerExists(version.Layer) {
		return types.LayerVersion{}, notFound(fmt.Sprintf("layer %d not found", version.Layer))
	}
	version.ID = types.LayerVersionID(len(s.versions) + 1)
	s.versions = append(s.versions, version)
	return version, nil
}

func (s *MemStore) layerExists(id types.LayerID) bool {
	for _, layer := range s.layers {
		if layer.ID == id {
			return true
		}
	}
	return false
}

func (s *MemStore) LayerVersions() ([]types.LayerVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.LayerVersion, len(s.versions))
	copy(out, s.versions)
	return out, nil
}

func (s *MemStore) LayerVersionByID(id types.LayerVersionID) (types.LayerVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, version := range s.versions {
		if version.ID == id {
			return version, nil
		}
	}
	return types.LayerVersion{}, notFound(fmt.Sprintf("layer version %d not found", id))
}

func (s *MemStore) LayerVersionsByLayerName(name string) ([]types.LayerVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := map[types.LayerID]types.Layer{}
	for _, layer := range s.layers {
		byID[layer.ID] = layer
	}
	var out []types.LayerVersion
	for _, version := range s.versions {
		if layer, ok := byID[version.Layer]; ok && layer.Name == name {
			out = append(out, version)
		}
	}
	return out, nil
}

func (s *MemStore) CreateProject(project types.Project) (types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if project.Release == "" {
		return types.Project{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("project needs a release")
	}
	for _, existing := range s.projects {
		if existing.Name == project.Name {
			return types.Project{}, conflict(fmt.Sprintf("project already exists: %s", project.Name))
		}
	}
	project.ID = types.ProjectID(len(s.projects) + 1)
	s.projects = append(s.projects, project)
	return project, nil
}

func (s *MemStore) ProjectByName(name string) (types.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, project := range s.projects {
		if project.Name == name {
			return project, nil
		}
	}
	return types.Project{}, notFound(fmt.Sprintf("project %s not found", name))
}

func (s *MemStore) CreateProjectLayer(link types.ProjectLayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.links {
		if existing.Project == link.Project && existing.LayerCommit == link.LayerCommit {
			return conflict(fmt.Sprintf("layer version %d already added to project %d", link.LayerCommit, link.Project))
		}
	}
	s.links = append(s.links, link)
	return nil
}

func (s *MemStore) ProjectLayers(project types.ProjectID) ([]types.ProjectLayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.ProjectLayer
	for _, link := range s.links {
		if link.Project == project {
			out = append(out, link)
		}
	}
	return out, nil
}

func (s *MemStore) CreateBuild(build types.Build) (types.Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	build.ID = types.BuildID(len(s.builds) + 1)
	s.builds = append(s.builds, build)
	return build, nil
}

func (s *MemStore) BuildByID(id types.BuildID) (types.Build, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, build := range s.builds {
		if build.ID == id {
			return build, nil
		}
	}
	return types.Build{}, notFound(fmt.Sprintf("build %d not found", id))
}

func (s *MemStore) CreateRecipe(recipe types.Recipe) (types.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recipe.ID = types.RecipeID(len(s.recipes) + 1)
	s.recipes = append(s.recipes, recipe)
	return recipe, nil
}

func (s *MemStore) Recipes() ([]types.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out, nil
}

func (s *MemStore) CreateMachine(machine types.Machine) (types.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	machine.ID = types.MachineID(len(s.machines) + 1)
	s.machines = append(s.machines, machine)
	return machine, nil
}

func (s *MemStore) Machines() ([]types.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Machine, len(s.machines))
	copy(out, s.machines)
	return out, nil
}

func (s *MemStore) CreateDependency(dep types.LayerVersionDependency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.deps {
		if existing == dep {
			return nil
		}
	}
	s.deps = append(s.deps, dep)
	return nil
}

func (s *MemStore) DependenciesOf(version types.LayerVersionID) ([]types.LayerVersionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.LayerVersionID
	for _, dep := range s.deps {
		if dep.LayerVersion == version {
			out = append(out, dep.DependsOn)
		}
	}
	return out, nil
}
