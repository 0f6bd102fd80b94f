// Package services defines the contract shared by provider-backed services
// and the error taxonomy surfaced at command boundaries.
package services
