// Package dataset loads the telemetry file and holds the currently active
// Dataset. A Dataset is immutable once built; the Store swaps whole datasets
// under an RWMutex and Watch reloads the file when it changes on disk, so
// request handlers never observe a partially loaded dataset.
package dataset
