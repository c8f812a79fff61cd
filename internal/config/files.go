package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// readFile reads `name` and merges `<name>.local.<ext>` over it when that
// exists. os.ErrNotExist is returned when neither exists.
func readFile[T any](name string) (T, error) {
	var out T
	allNotFound := true

	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		err = json5.Unmarshal(defaultFile, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localFilepath := filepath.Join(
		dirname,
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		err = json5.Unmarshal(localFile, &override)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", localFilepath, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", localFilepath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}

// readRecursively looks for `name` in the working directory and every parent
// of it, the closest one is read.
func readRecursively[T any](name string) (T, string, error) {
	var defaultOut T

	current, err := os.Getwd()
	if err != nil {
		return defaultOut, "", err
	}

	for {
		path := filepath.Join(current, name)
		config, err := readFile[T](path)
		if err == nil {
			return config, path, nil
		}
		if !os.IsNotExist(err) {
			return defaultOut, "", err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return defaultOut, "", os.ErrNotExist
		}
		current = parent
	}
}
