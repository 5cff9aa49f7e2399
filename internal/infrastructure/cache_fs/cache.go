package cache_fs

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/davarch/hudson-remote/internal/domain"
)

type FSCache struct {
	path string
}

func New(path string) *FSCache { return &FSCache{path: path} }

func (c *FSCache) Write(_ context.Context, s domain.Snapshot) error {
	if c.path == "" {
		return errors.New("cache path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	type out struct {
		Job       string `json:"job"`
		Build     int    `json:"build"`
		Result    string `json:"result"`
		Color     string `json:"color"`
		URL       string `json:"url"`
		Retrieved int64  `json:"retrieved"`
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	return enc.Encode(out{
		Job:       s.Job,
		Build:     s.Build,
		Result:    string(s.Result),
		Color:     string(s.Color),
		URL:       s.URL,
		Retrieved: s.Retrieved,
	})
}
