package types

type SourceType string

const (
	SourceTypeLocal      SourceType = "local"
	SourceTypeLayerIndex SourceType = "layerindex"
	SourceTypeImported   SourceType = "imported"
)

type BuildOutcome string

const (
	BuildOutcomeInProgress BuildOutcome = "in-progress"
	BuildOutcomeSucceeded  BuildOutcome = "succeeded"
	BuildOutcomeFailed     BuildOutcome = "failed"
)
