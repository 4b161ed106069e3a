// SPDX-License-Identifier: MIT

package store

import "errors"

var (
	// ErrConfiguration indicates inconsistent shapes or channel dimensions.
	ErrConfiguration = errors.New("store: invalid configuration")

	// ErrReinitialized is returned when an initialised store is created again.
	ErrReinitialized = errors.New("store: already initialised")

	// ErrNotInitialized is returned when data is accessed before creation.
	ErrNotInitialized = errors.New("store: not initialised")

	// ErrLookup indicates a key with no matching slot, a wrong arity or an
	// index outside the slot's shape.
	ErrLookup = errors.New("store: lookup failed")
)
