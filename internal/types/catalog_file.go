package types

// File formats consumed by the catalog-file and manifest adapters. Both
// are plain YAML. The catalog file seeds a whole store for the CLI and
// for fixtures; the manifest file describes the layers an imported
// source provides.

// ManifestLayerVersion is one concrete version entry in a manifest.
type ManifestLayerVersion struct {
	// Branch names the branch this version was taken from. The sync
	// creates the branch under the source on first use.
	Branch string `yaml:"branch"`

	Commit  string `yaml:"commit,omitempty"`
	DirPath string `yaml:"dirpath,omitempty"`

	// BitbakeRequires is an optional build-tool version specifier such
	// as ">=1.40".
	BitbakeRequires string `yaml:"bitbake_requires,omitempty"`

	Recipes  []ManifestRecipe  `yaml:"recipes,omitempty"`
	Machines []ManifestMachine `yaml:"machines,omitempty"`

	// Depends lists layer names this version depends on. Each name is
	// resolved against the same source after all layers are created.
	Depends []string `yaml:"depends,omitempty"`
}

type ManifestRecipe struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version,omitempty"`
	Summary  string `yaml:"summary,omitempty"`
	FilePath string `yaml:"file_path,omitempty"`
}

type ManifestMachine struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// ManifestLayer describes one layer an imported source provides.
type ManifestLayer struct {
	Name     string                 `yaml:"name"`
	VCSURL   string                 `yaml:"vcs_url,omitempty"`
	Summary  string                 `yaml:"summary,omitempty"`
	Versions []ManifestLayerVersion `yaml:"versions"`
}

// ManifestFile is the top-level structure of an imported-source layer
// manifest.
type ManifestFile struct {
	Layers []ManifestLayer `yaml:"layers"`
}

// CatalogSource is a layer source entry in a catalog file, with its
// branches and layers inlined.
type CatalogSource struct {
	Name       string          `yaml:"name"`
	Sourcetype SourceType      `yaml:"sourcetype"`
	APIURL     string          `yaml:"apiurl,omitempty"`
	Branches   []string        `yaml:"branches,omitempty"`
	Layers     []ManifestLayer `yaml:"layers,omitempty"`
}

// CatalogReleaseSource attaches a source to a release with a priority.
type CatalogReleaseSource struct {
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"`
}

type CatalogRelease struct {
	Name           string                 `yaml:"name"`
	BitbakeVersion string                 `yaml:"bitbake_version"`
	BranchName     string                 `yaml:"branch_name"`
	Description    string                 `yaml:"description,omitempty"`
	Sources        []CatalogReleaseSource `yaml:"sources,omitempty"`
}

type CatalogBitbakeVersion struct {
	Name    string `yaml:"name"`
	GitURL  string `yaml:"giturl,omitempty"`
	Branch  string `yaml:"branch,omitempty"`
	DirPath string `yaml:"dirpath,omitempty"`
}

// CatalogProject is a project entry. Layers references added layer
// versions as "layer@source" pairs.
type CatalogProject struct {
	Name    string   `yaml:"name"`
	Release string   `yaml:"release"`
	Layers  []string `yaml:"layers,omitempty"`
}

// CatalogFile is the top-level structure of a catalog seed file.
type CatalogFile struct {
	BitbakeVersions []CatalogBitbakeVersion `yaml:"bitbake_versions,omitempty"`
	Releases        []CatalogRelease        `yaml:"releases,omitempty"`
	Sources         []CatalogSource         `yaml:"layer_sources,omitempty"`
	Projects        []CatalogProject        `yaml:"projects,omitempty"`
}
