// SPDX-License-Identifier: MPL-2.0

package format

import (
	"errors"
	"fmt"
)

const (
	// InstallStandard bundles build artifacts only.
	InstallStandard InstallFormat = iota
	// InstallExtended additionally bundles sidecar files from the project root.
	InstallExtended
)

const (
	// KindCargo is the Rust/cargo ecosystem.
	KindCargo Kind = "cargo"

	// MarkerFile is the sentinel whose presence selects InstallExtended.
	MarkerFile = ".jellyfish"
	// SidecarPattern matches the auxiliary files bundled for InstallExtended.
	SidecarPattern = "*.jfx"
)

var (
	// ErrMalformedDescriptor is the sentinel error wrapped by MalformedDescriptorError.
	ErrMalformedDescriptor = errors.New("malformed project descriptor")
	// ErrDescriptorNotFound is returned when a format is forced but its descriptor is absent.
	ErrDescriptorNotFound = errors.New("project descriptor not found")
	// ErrUnknownFormat is the sentinel error wrapped by UnknownFormatError.
	ErrUnknownFormat = errors.New("unknown project format")
)

type (
	// Kind names a build ecosystem.
	Kind string

	// InstallFormat selects the packaging target. The zero value is InstallStandard.
	InstallFormat int

	// ProjectFormat is the detected identity of a project root.
	// Implementations are None and Native; the set is closed.
	ProjectFormat interface {
		// Kind returns the ecosystem of the format, or "" for None.
		Kind() Kind
		isProjectFormat()
	}

	// None means no recognized descriptor was found.
	None struct{}

	// Native is a project recognized through an ecosystem descriptor.
	// Name and Version are never empty.
	Native struct {
		Format  Kind
		Name    string
		Version string
	}

	// MalformedDescriptorError is returned when a descriptor exists but does
	// not have the expected shape.
	MalformedDescriptorError struct {
		Path   string
		Reason string
		Cause  error
	}

	// UnknownFormatError is returned when a Kind is not in the registry.
	UnknownFormatError struct {
		Value Kind
	}
)

// Kind implements ProjectFormat.
func (None) Kind() Kind { return "" }

func (None) isProjectFormat() {}

// Kind implements ProjectFormat.
func (n Native) Kind() Kind { return n.Format }

func (Native) isProjectFormat() {}

// String returns a "name@version (kind)" label.
func (n Native) String() string {
	return fmt.Sprintf("%s@%s (%s)", n.Name, n.Version, n.Format)
}

// AsNative returns the Native variant of pf, if it is one.
func AsNative(pf ProjectFormat) (Native, bool) {
	n, ok := pf.(Native)
	return n, ok
}

// String returns the lower-case name of the install format.
func (f InstallFormat) String() string {
	switch f {
	case InstallStandard:
		return "standard"
	case InstallExtended:
		return "extended"
	default:
		return fmt.Sprintf("InstallFormat(%d)", int(f))
	}
}

// Error implements the error interface.
func (e *MalformedDescriptorError) Error() string {
	msg := fmt.Sprintf("malformed descriptor %s: %s", e.Path, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrMalformedDescriptor so callers can use errors.Is for programmatic detection.
func (e *MalformedDescriptorError) Unwrap() error { return ErrMalformedDescriptor }

// Error implements the error interface.
func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown project format %q (known: %s)", e.Value, knownKinds())
}

// Unwrap returns ErrUnknownFormat so callers can use errors.Is for programmatic detection.
func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }

// ParseKind validates a user-supplied format name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := Lookup(k); !ok {
		return "", &UnknownFormatError{Value: k}
	}
	return k, nil
}
