// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnvFile reads a dotenv file for the build tool's environment and
// returns its entries as sorted KEY=VALUE pairs. Relative paths resolve
// against basePath. A path suffixed with '?' is optional: a missing file
// yields no entries.
func LoadEnvFile(path, basePath string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	optional := strings.HasSuffix(path, "?")
	path = strings.TrimSuffix(path, "?")

	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(basePath, fullPath)
	}

	vars, err := godotenv.Read(fullPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	keys := slices.Sorted(maps.Keys(vars))
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+vars[k])
	}
	return env, nil
}
