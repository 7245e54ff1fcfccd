// Package utils provides common utility functions for stationwatch.
// It mainly covers tolerant type conversion for the loosely typed "extra"
// blocks returned by bike-share providers, where the same field may arrive
// as a number, a string or a boolean depending on the network.
package utils
