// SPDX-License-Identifier: MPL-2.0

package format

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Detect classifies root on both axes. A root without any recognized
// descriptor yields None and a nil error.
func Detect(root string) (ProjectFormat, InstallFormat, error) {
	install := DetectInstallFormat(root)

	for _, eco := range registry {
		pf, found, err := detectEcosystem(root, eco)
		if err != nil {
			return nil, install, err
		}
		if found {
			return pf, install, nil
		}
	}

	return None{}, install, nil
}

// DetectAs classifies root as the given ecosystem only. Unlike Detect, a
// missing descriptor is an error.
func DetectAs(root string, kind Kind) (ProjectFormat, InstallFormat, error) {
	install := DetectInstallFormat(root)

	eco, ok := Lookup(kind)
	if !ok {
		return nil, install, &UnknownFormatError{Value: kind}
	}

	pf, found, err := detectEcosystem(root, eco)
	if err != nil {
		return nil, install, err
	}
	if !found {
		return nil, install, fmt.Errorf("%w: %s", ErrDescriptorNotFound, filepath.Join(root, eco.Descriptor))
	}
	return pf, install, nil
}

// DetectInstallFormat reports InstallExtended when the marker file is
// present at root. The marker content is never read.
func DetectInstallFormat(root string) InstallFormat {
	info, err := os.Stat(filepath.Join(root, MarkerFile))
	if err != nil || info.IsDir() {
		return InstallStandard
	}
	return InstallExtended
}

func detectEcosystem(root string, eco Ecosystem) (ProjectFormat, bool, error) {
	path := filepath.Join(root, eco.Descriptor)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}

	fields, err := eco.parse(data)
	if err != nil {
		return nil, false, &MalformedDescriptorError{Path: path, Reason: "cannot decode", Cause: err}
	}

	switch {
	case fields.Name == nil:
		return nil, false, &MalformedDescriptorError{Path: path, Reason: "missing package.name"}
	case *fields.Name == "":
		return nil, false, &MalformedDescriptorError{Path: path, Reason: "package.name is empty"}
	case fields.Version == nil:
		return nil, false, &MalformedDescriptorError{Path: path, Reason: "missing package.version"}
	case *fields.Version == "":
		return nil, false, &MalformedDescriptorError{Path: path, Reason: "package.version is empty"}
	}

	return Native{Format: eco.Kind, Name: *fields.Name, Version: *fields.Version}, true, nil
}
