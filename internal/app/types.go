package app

import "toaster/internal/types"

// LayerRow is one entry in the project layers listing: the winning
// layer version per layer name, annotated for display.
type LayerRow struct {
	LayerVersion types.LayerVersionID
	Name         string
	Summary      string
	VCSURL       string
	Source       string
	Commit       string
	InProject    bool
}

// MachineRow is one entry in the project machines listing.
type MachineRow struct {
	LayerVersion types.LayerVersionID
	Name         string
	Description  string
	Layer        string
}

// RecipeRow is one entry in the project recipes listing. Newest marks
// the highest version among same-name recipes in the compatible set.
type RecipeRow struct {
	LayerVersion types.LayerVersionID
	Name         string
	Version      string
	Summary      string
	Layer        string
	FilePath     string
	Newest       bool
}

// EquivalentRow describes one member of an equivalence class for
// display.
type EquivalentRow struct {
	LayerVersion types.LayerVersionID
	Layer        string
	Source       string
	Commit       string
	BuildDerived bool
}

// DependencyRow is one resolved dependency of a layer version: the
// dependency collapsed to the head of its equivalence class for the
// project.
type DependencyRow struct {
	LayerVersion types.LayerVersionID
	Layer        string
}
