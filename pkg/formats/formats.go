// Package formats provides parsers for 3D model file formats.
//
// Parsers work on in-memory bytes so callers decide where data comes from
// (disk, a file watcher, drag and drop). Index values are converted to
// 0-based on the way in; range checking is left to the consumer.
package formats
