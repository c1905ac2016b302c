// SPDX-License-Identifier: MPL-2.0

// Package manifest derives and encodes the package descriptor consumed by
// installers.
//
// A manifest is TOML:
//
//	name = "foo"
//	friendly_name = "foo"
//	version = "1.2.0"
//
//	[install]
//	url = "https://example.com/foo.jpkg"
//	type = "standard"
package manifest

import (
	"bytes"
	"errors"
	"fmt"

	"jellypack-cli/pkg/format"

	"github.com/pelletier/go-toml/v2"
)

const (
	// InstallTypeStandard is emitted for format.InstallStandard.
	InstallTypeStandard InstallType = "standard"
	// InstallTypeJellyfish is emitted for format.InstallExtended.
	InstallTypeJellyfish InstallType = "jellyfish"

	// PlaceholderURL marks a download URL that still needs to be filled in.
	PlaceholderURL = "<download-url>"
)

var (
	// ErrNoProjectFormat is returned when Compile is called with format.None.
	ErrNoProjectFormat = errors.New("no project format to describe")
	// ErrSerializationFailed is the sentinel error wrapped by SerializationFailedError.
	ErrSerializationFailed = errors.New("manifest serialization failed")
	// ErrInvalidInstallType is the sentinel error wrapped by InvalidInstallTypeError.
	ErrInvalidInstallType = errors.New("invalid install type")
)

type (
	// InstallType is the closed set of install tags understood by installers.
	InstallType string

	// InvalidInstallTypeError is returned when an InstallType value is not recognized.
	InvalidInstallTypeError struct {
		Value InstallType
	}

	// PackageManifest is the serialized package descriptor.
	PackageManifest struct {
		Name         string      `toml:"name"`
		FriendlyName string      `toml:"friendly_name"`
		Version      string      `toml:"version"`
		Install      InstallInfo `toml:"install"`
	}

	// InstallInfo tells an installer where to fetch the package and how to install it.
	InstallInfo struct {
		URL  string      `toml:"url"`
		Type InstallType `toml:"type"`
	}

	// Overrides are caller-supplied values that take precedence over derived ones.
	Overrides struct {
		// DownloadURL replaces PlaceholderURL when non-nil.
		DownloadURL *string
	}

	// SerializationFailedError wraps a TOML encoding or decoding failure.
	SerializationFailedError struct {
		Cause error
	}
)

// Error implements the error interface.
func (e *InvalidInstallTypeError) Error() string {
	return fmt.Sprintf("invalid install type %q (valid: %s, %s)", e.Value, InstallTypeStandard, InstallTypeJellyfish)
}

// Unwrap returns ErrInvalidInstallType so callers can use errors.Is for programmatic detection.
func (e *InvalidInstallTypeError) Unwrap() error { return ErrInvalidInstallType }

// Error implements the error interface.
func (e *SerializationFailedError) Error() string {
	return fmt.Sprintf("manifest serialization failed: %v", e.Cause)
}

// Unwrap returns ErrSerializationFailed so callers can use errors.Is for programmatic detection.
func (e *SerializationFailedError) Unwrap() error { return ErrSerializationFailed }

// Validate returns an error if t is not one of the known install types.
func (t InstallType) Validate() error {
	switch t {
	case InstallTypeStandard, InstallTypeJellyfish:
		return nil
	default:
		return &InvalidInstallTypeError{Value: t}
	}
}

// MarshalText implements encoding.TextMarshaler and rejects unknown values.
func (t InstallType) MarshalText() ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return []byte(t), nil
}

// UnmarshalText implements encoding.TextUnmarshaler and rejects unknown values.
func (t *InstallType) UnmarshalText(text []byte) error {
	v := InstallType(text)
	if err := v.Validate(); err != nil {
		return err
	}
	*t = v
	return nil
}

// InstallTypeFor maps an install format to its manifest tag.
func InstallTypeFor(f format.InstallFormat) (InstallType, error) {
	switch f {
	case format.InstallStandard:
		return InstallTypeStandard, nil
	case format.InstallExtended:
		return InstallTypeJellyfish, nil
	default:
		return "", fmt.Errorf("no install type for install format %s", f)
	}
}

// Compile derives a manifest from a detected project.
func Compile(pf format.ProjectFormat, install format.InstallFormat, overrides Overrides) (*PackageManifest, error) {
	native, ok := format.AsNative(pf)
	if !ok {
		return nil, ErrNoProjectFormat
	}

	installType, err := InstallTypeFor(install)
	if err != nil {
		return nil, err
	}

	url := PlaceholderURL
	if overrides.DownloadURL != nil {
		url = *overrides.DownloadURL
	}

	return &PackageManifest{
		Name:         native.Name,
		FriendlyName: native.Name,
		Version:      native.Version,
		Install: InstallInfo{
			URL:  url,
			Type: installType,
		},
	}, nil
}

// Marshal encodes m as TOML in declaration order.
func Marshal(m *PackageManifest) ([]byte, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, &SerializationFailedError{Cause: err}
	}
	return data, nil
}

// Parse decodes a TOML manifest. Unknown fields and install types are rejected.
func Parse(data []byte) (*PackageManifest, error) {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var m PackageManifest
	if err := dec.Decode(&m); err != nil {
		return nil, &SerializationFailedError{Cause: err}
	}
	if err := m.Install.Type.Validate(); err != nil {
		return nil, &SerializationFailedError{Cause: err}
	}
	return &m, nil
}

// HasPlaceholderURL reports whether the download URL still needs to be filled in.
func (m *PackageManifest) HasPlaceholderURL() bool {
	return m.Install.URL == PlaceholderURL
}
