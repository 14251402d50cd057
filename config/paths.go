package config

import (
	"os"
	"path/filepath"
	"strings"
)

// File names under the data directory. The layout mirrors what existing
// installations already have on disk, so none of these are configurable
// individually.
const (
	databaseFileName = "invoices.db"
	companyFileName  = "company.json"
	artifactDirName  = "invoices"
)

// DataDir returns the directory holding the database file, the company
// profile and the rendered invoice artifacts. Defaults to the working
// directory; INVOICES_DATA_DIR overrides it.
func DataDir() string {
	dir := strings.TrimSpace(os.Getenv("INVOICES_DATA_DIR"))
	if dir == "" {
		return "."
	}
	return dir
}

func DatabaseFile() string {
	return filepath.Join(DataDir(), databaseFileName)
}

func CompanyFile() string {
	return filepath.Join(DataDir(), companyFileName)
}

// ArtifactDir returns the directory for rendered invoice PDFs, creating it
// if necessary.
func ArtifactDir() (string, error) {
	dir := filepath.Join(DataDir(), artifactDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
