package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Setup applies cfg, opening cfg.File for appending when it is set. The
// returned closer releases the file and is never nil.
func Setup(cfg Config) (io.Closer, error) {
	if cfg.File == "" {
		Init(cfg)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, fmt.Errorf("logging: create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", cfg.File, err)
	}
	cfg.Output = f
	Init(cfg)
	return f, nil
}
