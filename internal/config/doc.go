// Package config loads the run configuration of census-reconciler.
//
// Configuration comes from a YAML file layered over DefaultConfig; the
// reviewer API key is read from the environment, optionally seeded from a
// .env file.
package config
