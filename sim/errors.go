package sim

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is matching.
var (
	// ErrLookup is matched by every *LookupError.
	ErrLookup = errors.New("catalog lookup failed")
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("invalid simulation configuration")
	// ErrDataRange marks demand records dated outside the simulation window.
	// Such records are filtered before a run starts and never surface from Run.
	ErrDataRange = errors.New("demand record outside simulation window")
)

// LookupKind names the kind of entity a LookupError failed to find.
type LookupKind string

const (
	LookupProduct   LookupKind = "product"
	LookupSupplier  LookupKind = "supplier"
	LookupWarehouse LookupKind = "warehouse"
	LookupPosition  LookupKind = "position"
)

// LookupError reports a decision or record that references an id absent from the catalog.
// It fails the single offending order or record, never the run.
type LookupError struct {
	Kind LookupKind
	ID   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.ID)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrLookup
}

// ConfigurationError reports an invalid run configuration. It is raised eagerly
// by NewSimulator, before any simulation state exists.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
