package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ReadIntFromFile reads a single integer from the given file, e.g. a sysfs attribute
func ReadIntFromFile(path string) (value int, err error) {
	text, err := ReadStringFromFile(path)
	if err != nil {
		return -1, err
	}
	value, err = strconv.Atoi(text)
	return value, err
}

// ReadStringFromFile reads the trimmed content of the given file
func ReadStringFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if len(text) <= 0 {
		return "", fmt.Errorf("file is empty: %s", path)
	}
	return text, nil
}

// WriteIntToFile write a single integer to a file path
func WriteIntToFile(value int, path string) error {
	evaluatedPath, err := ResolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	valueAsString := fmt.Sprintf("%d", value)

	err = os.WriteFile(path, []byte(valueAsString), 0644)
	return err
}

func ResolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// ExpandHome resolves a leading "~" to the home directory of the current user
func ExpandHome(path string) (string, error) {
	return homedir.Expand(path)
}

// FileExists returns true if the path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
