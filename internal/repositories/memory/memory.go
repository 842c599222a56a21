// Package memory provides in-memory implementations of the repository
// interfaces. They back the engine in tests and when the server runs without a
// database. Not-found conditions return mongo.ErrNoDocuments so callers handle
// both backends identically.
package memory
