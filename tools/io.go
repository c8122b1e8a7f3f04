package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrFileNotFound = errors.New("file not found")

// OpenFile opens filePath for reading. A path that does not resolve is
// reported as ErrFileNotFound.
func OpenFile(filePath string) (*os.File, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return nil, err
	}

	return file, nil
}

func CreateDirectoryIfDoesNotExist(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		err := os.MkdirAll(directory, 0777)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateFile creates (or truncates) filePath, making its parent folder first
func CreateFile(filePath string) (*os.File, error) {
	if err := CreateDirectoryIfDoesNotExist(filepath.Dir(filePath)); err != nil {
		return nil, err
	}
	return os.Create(filePath)
}
