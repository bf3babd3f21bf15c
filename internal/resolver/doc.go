// Package resolver maps a classified field to the value it receives from the
// synthetic record of the current pass.
package resolver
