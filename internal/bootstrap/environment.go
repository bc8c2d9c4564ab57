package bootstrap

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/isseis/go-escalate/internal/safefileio"
	"github.com/joho/godotenv"
)

// LoadEnvFile reads a dotenv file into the process environment so its variables
// can be forwarded to the elevated process. Variables already present in the
// environment are left untouched. It returns the names it set, sorted.
func LoadEnvFile(path string) ([]string, error) {
	return loadEnvFile(path, safefileio.ReadFile, os.LookupEnv, os.Setenv)
}

func loadEnvFile(
	path string,
	readFile func(string) ([]byte, error),
	lookupEnv func(string) (string, bool),
	setenv func(string, string) error,
) ([]string, error) {
	content, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file %s: %w", path, err)
	}

	fileEnv, err := godotenv.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment file %s: %w", path, err)
	}

	var set []string
	for name, value := range fileEnv {
		if _, exists := lookupEnv(name); exists {
			continue
		}
		if err := setenv(name, value); err != nil {
			return nil, fmt.Errorf("failed to set %s from %s: %w", name, path, err)
		}
		set = append(set, name)
	}
	slices.Sort(set)
	return set, nil
}
