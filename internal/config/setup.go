package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// GlobalPath returns the path of the global config file.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hexbloop", "config.json"), nil
}

// SaveGlobal writes cfg to the global config file, creating the config
// directory if needed.
func SaveGlobal(cfg *Config) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GlobalExists reports whether a global config file is present on disk.
func GlobalExists() bool {
	path, err := GlobalPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// RunSetup runs the interactive setup wizard and returns the resulting
// config. existing supplies the default for each prompt, so re-running the
// wizard edits rather than starts over.
func RunSetup(in io.Reader, out io.Writer, existing *Config) (*Config, error) {
	r := bufio.NewReader(in)

	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	pick := func(prompt, defaultVal string, allowed ...string) (string, error) {
		ans, err := ask(fmt.Sprintf("%s (%s)", prompt, strings.Join(allowed, "/")), defaultVal)
		if err != nil {
			return "", err
		}
		ans = strings.ToLower(ans)
		for _, a := range allowed {
			if ans == a {
				return ans, nil
			}
		}
		return defaultVal, nil
	}

	cfg := Defaults()
	if existing != nil {
		cfg = *existing
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  ┌─────────────────────────────────┐")
	fmt.Fprintln(out, "  │   hexbloop — first-time setup   │")
	fmt.Fprintln(out, "  └─────────────────────────────────┘")
	fmt.Fprintln(out)

	var err error

	cfg.OutputDir, err = ask("  Default output directory", cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	cfg.Format, err = pick("  Output format", cfg.Format, "mp3", "wav", "flac", "m4a", "ogg")
	if err != nil {
		return nil, err
	}

	cfg.NamingScheme, err = pick("  Naming scheme", cfg.NamingScheme,
		"mystical", "sequential", "timestamp", "hybrid", "preserve")
	if err != nil {
		return nil, err
	}

	cfg.NamingStyle, err = pick("  Name style", cfg.NamingStyle,
		"sparklepop", "dark", "glitch", "mixed", "auto")
	if err != nil {
		return nil, err
	}

	cfg.Artist, err = ask("  Artist tag for processed files", cfg.Artist)
	if err != nil {
		return nil, err
	}

	cfg.Album, err = ask("  Album tag for processed files", cfg.Album)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out)
	return &cfg, nil
}
