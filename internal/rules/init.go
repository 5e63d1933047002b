// Package rules registers the GTFS validator units with the default validator
// registry. Import this package for its side effects.
package rules

// Each rule file registers its units from init(). Units run in registration
// order, which follows file name order within this package.
