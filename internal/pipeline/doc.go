// Package pipeline runs the analysis of an audit dataset as a sequence of steps.
//
// The standard pipeline is:
//
//	load → extract → classify → aggregate → rank
//
// Each step receives the *model.AnalysisReport filled in by the steps before
// it. Loading validates the dataset header, so a dataset missing a required
// column fails before anything is extracted.
//
// Design decision: We keep the pipeline pattern rather than one large
// function so that each stage logs and fails under its own name, and so that
// cancellation is observed between stages. Analyses of different datasets
// share nothing and run concurrently through BatchProcessor, which bounds
// the number of in-flight analyses with errgroup.SetLimit.
package pipeline
