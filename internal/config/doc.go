// Package config provides configuration loading, merging, and validation
// facilities for the dataset sync engine.
//
// Configuration is assembled from multiple sources in the following priority
// order (first non-zero value wins during the merge):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [GetConfig].
package config
