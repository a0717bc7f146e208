package archecs

import "fmt"

// ErrInvalidEntity is returned by World.AddBundle and
// World.RemoveComponents when given a stale or out-of-range Entity handle.
// Other World operations report a stale handle as false or nil.
var ErrInvalidEntity = fmt.Errorf("archecs: invalid entity")

// ErrDuplicateComponent names the condition of a bundle declaring the same
// component type more than once. No operation returns it: bundle
// registration panics on a duplicate component instead.
var ErrDuplicateComponent = fmt.Errorf("archecs: duplicate component in bundle")
