package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	globalFileName = "SmartNail.GlobalSettings.json"
	appDirName     = "SmartNail"
)

// DefaultGlobalPath is where the toggles live when no path is configured.
func DefaultGlobalPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", errors.New("config directory not found")
	}
	return filepath.Join(dir, appDirName, globalFileName), nil
}

// LocalPath names the baseline file that sits next to save slot.
func LocalPath(dir string, slot int) string {
	return filepath.Join(dir, fmt.Sprintf("user%d.SmartNail.json", slot))
}

// LoadGlobal falls back to the defaults when the file does not exist yet.
func LoadGlobal(path string) (Global, error) {
	g := DefaultGlobal()
	found, err := readJSON(path, &g)
	if err != nil {
		return Global{}, fmt.Errorf("parse settings: %w", err)
	}
	if !found {
		return DefaultGlobal(), nil
	}
	return g, nil
}

func SaveGlobal(path string, g Global) error {
	return writeJSONAtomic(path, g)
}

func LoadLocal(path string) (Local, error) {
	l := DefaultLocal()
	found, err := readJSON(path, &l)
	if err != nil {
		return Local{}, fmt.Errorf("parse local settings: %w", err)
	}
	if !found {
		return DefaultLocal(), nil
	}
	return l, nil
}

func SaveLocal(path string, l Local) error {
	return writeJSONAtomic(path, l)
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "settings-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	cleanup = false
	return nil
}
