// Package sink persists collected samples into the shared JSON dataset file.
//
// Writes are read-merge-replace: the existing array is decoded, new samples
// are appended, regions over the per-region cap lose their oldest samples,
// and the whole file is replaced via temp file + rename. The rename keeps
// the write atomic for a regionpulse-server watching the same path. A file
// that no longer parses as a sample array aborts the write so hand-edited
// or foreign content is never silently destroyed.
package sink
