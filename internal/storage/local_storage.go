package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (ls *LocalStorage) pathFor(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid storage name %q", name)
	}
	return filepath.Join(ls.basePath, name), nil
}

// Save writes data under name and returns the stored path. A partially
// written file is removed when copying fails.
func (ls *LocalStorage) Save(name string, data io.Reader) (string, error) {
	filePath, err := ls.pathFor(name)
	if err != nil {
		return "", err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(file, data); err != nil {
		file.Close()
		os.Remove(filePath)
		return "", err
	}

	if err := file.Close(); err != nil {
		os.Remove(filePath)
		return "", err
	}

	return filePath, nil
}

func (ls *LocalStorage) Delete(name string) error {
	filePath, err := ls.pathFor(name)
	if err != nil {
		return err
	}

	err = os.Remove(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
