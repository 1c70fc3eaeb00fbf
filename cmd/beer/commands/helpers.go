package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

func parseIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))

	for _, arg := range args {
		id, err := uuid.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid beer ID %q: %w", arg, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// validateFilePath rejects relative paths that climb out of the working
// directory and anything that is not a regular file.
func validateFilePath(path string) (string, error) {
	if strings.Contains(filepath.ToSlash(path), "../") {
		return "", fmt.Errorf("%w: %s", constants.ErrDirectoryTraversalDetected, path)
	}

	cleaned := filepath.Clean(path)

	info, err := os.Stat(cleaned)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", cleaned, err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", constants.ErrNotRegularFile, cleaned)
	}

	return cleaned, nil
}

// readBeerFile reads a beer definition in JSON or YAML.
func readBeerFile(path string) (*beer.Beer, error) {
	cleaned, err := validateFilePath(path)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- path validated above
	data, err := os.ReadFile(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var item beer.Beer

	switch strings.ToLower(filepath.Ext(cleaned)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &item)
	default:
		err = json.Unmarshal(data, &item)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cleaned, err)
	}

	return &item, nil
}
