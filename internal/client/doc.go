// Package client wires the dataset sync engine together: configuration,
// logger, local SQLite cache (with migrations), identity binding, remote
// storage adapter, and the sync manager. It is the composition root used by
// cmd binaries and embedding applications.
package client
