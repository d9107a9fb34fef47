// Package alias keeps a convenience shell alias in the operator's rc files
// so the tool can be re-invoked as `juicy` after install.
package alias

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	name          = "juicy"
	remoteCommand = "python3 <(curl -fsSL https://ros.services/juicy.py)"
)

// Manager edits the operator's shell rc files. All operations are
// best-effort: a failed alias edit never blocks a workflow.
type Manager struct {
	home   string
	logger *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/root"
	}
	return NewManagerAt(home, logger)
}

// NewManagerAt edits rc files under an explicit home directory.
func NewManagerAt(home string, logger *zap.Logger) *Manager {
	return &Manager{home: home, logger: logger}
}

func line() string {
	return fmt.Sprintf("alias %s='%s'", name, remoteCommand)
}

func (m *Manager) bashrc() string {
	return filepath.Join(m.home, ".bashrc")
}

// Set appends the alias to ~/.bashrc unless it is already present.
func (m *Manager) Set() {
	al := line()
	if data, err := os.ReadFile(m.bashrc()); err == nil && strings.Contains(string(data), al) {
		return
	}

	f, err := os.OpenFile(m.bashrc(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		m.logger.Warn("failed to open rc file for alias", zap.Error(err))
		return
	}
	defer f.Close()

	if _, err := f.WriteString("\n" + al + "\n"); err != nil {
		m.logger.Warn("failed to write alias", zap.Error(err))
		return
	}
	m.logger.Info("you can now invoke the tool by alias", zap.String("alias", name))
}

// Remove strips the alias from the rc files it may have landed in.
func (m *Manager) Remove() {
	al := line()
	for _, rc := range []string{filepath.Join(m.home, ".bash_aliases"), m.bashrc()} {
		data, err := os.ReadFile(rc)
		if err != nil {
			continue
		}
		text := string(data)
		for _, ck := range []string{"\n" + al + "\n", "\n" + al, al + "\n", al} {
			text = strings.ReplaceAll(text, ck, "")
		}
		if err := os.WriteFile(rc, []byte(text), 0644); err != nil {
			m.logger.Warn("failed to rewrite rc file", zap.String("path", rc), zap.Error(err))
		}
	}
}
