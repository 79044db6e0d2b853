package types

// Payload types for the remote layer index API. The index exposes three
// JSON collections; a layerindex source sync fetches all three and folds
// them into local Branch/Layer/LayerVersion rows.

// IndexBranch is one branch record from the index.
type IndexBranch struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"short_description"`
}

// IndexLayer is one logical layer record from the index.
type IndexLayer struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	VCSURL  string `json:"vcs_url"`
}

// IndexLayerBranch joins a layer to a branch and carries the concrete
// checkout data for that combination.
type IndexLayerBranch struct {
	ID                int    `json:"id"`
	Layer             int    `json:"layer"`
	Branch            int    `json:"branch"`
	Commit            string `json:"vcs_last_rev"`
	DirPath           string `json:"vcs_subdir"`
	MinBitbakeVersion string `json:"min_bitbake_version"`
}
