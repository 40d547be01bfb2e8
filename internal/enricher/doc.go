// Package enricher fills in link titles, descriptions and preview images in
// the background.
//
// Links are saved with only a URL. A Run picks up to BatchSize links whose
// metadata was never fetched, fetches each through a metadata.Fetcher on a
// bounded worker pool and stores the result. A link whose fetch fails is still
// marked as attempted so it is not picked again, and the failure is counted in
// the run's Statistics rather than returned. Only storage failures abort a run.
//
// Runs never overlap: a second Run while one is active returns ErrAlreadyRunning.
package enricher
