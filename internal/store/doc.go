// Package store defines the persistence interfaces used by the service and
// reminder layers, along with the sentinel errors all implementations map
// their backend failures onto.
package store
