package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
)

// Config holds CLI configuration.
type Config struct {
	Serve  bool
	Listen string

	APIBaseURL string
	Token      string
	Username   string

	PrefsBackend string // json or sqlite
	PrefsPath    string
	LogPath      string
	Verbose      bool
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags(version string) (*Config, error) {
	config := &Config{}

	// Load .env files first so env-based defaults work with flag parsing.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	var showVersion bool
	pflag.BoolVar(&config.Serve, "serve", false, "Run the API proxy server instead of the dashboard")
	pflag.StringVar(&config.Listen, "listen", "127.0.0.1:8600", "Listen address for --serve")
	pflag.StringVar(&config.APIBaseURL, "api-base", "", "Backend API base URL (or set API_BASE_URL)")
	pflag.StringVar(&config.Token, "token", "", "Backend API token (or set API_TOKEN)")
	pflag.StringVar(&config.Username, "username", "", "Username stamped into created records (or set API_USERNAME)")
	pflag.StringVar(&config.PrefsBackend, "prefs-backend", "json", "Preference storage backend: json or sqlite")
	pflag.StringVar(&config.PrefsPath, "prefs", "", "Path to the preference store (default: ~/.cargodesk/preferences.json)")
	pflag.BoolVarP(&config.Verbose, "verbose", "v", false, "Enable debug logging")
	pflag.BoolVar(&showVersion, "version", false, "Print version and exit")
	pflag.Parse()

	if showVersion {
		fmt.Println("cargodesk " + version)
		os.Exit(0)
	}

	if config.APIBaseURL == "" {
		config.APIBaseURL = os.Getenv("API_BASE_URL")
	}
	if config.Token == "" {
		config.Token = os.Getenv("API_TOKEN")
	}
	if config.Username == "" {
		config.Username = os.Getenv("API_USERNAME")
	}

	configDir, err := resolveConfigDir(config)
	if err != nil {
		return nil, err
	}
	config.LogPath = filepath.Join(configDir, "cargodesk.log")

	settings, err := loadSetupSettings(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load setup settings: %w", err)
	}

	if config.APIBaseURL == "" && shouldRunSetup(settings, config.Serve) {
		settings, err = runSetup(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to run setup: %w", err)
		}
	}

	if config.APIBaseURL == "" {
		config.APIBaseURL = settings.APIBaseURL
	}
	if config.Username == "" {
		config.Username = settings.Username
	}
	if config.Token == "" {
		secureToken, err := loadSecureToken(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load stored token: %w", err)
		}
		config.Token = strings.TrimSpace(secureToken)
	}

	return config, nil
}

// resolveConfigDir fills the preference path defaults and returns the
// directory holding them.
func resolveConfigDir(config *Config) (string, error) {
	if config.PrefsPath != "" {
		return filepath.Dir(config.PrefsPath), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(home, ".cargodesk")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	switch config.PrefsBackend {
	case "sqlite":
		config.PrefsPath = filepath.Join(configDir, "cargodesk.db")
	case "json":
		config.PrefsPath = filepath.Join(configDir, "preferences.json")
	default:
		return "", fmt.Errorf("unknown preference backend %q (want json or sqlite)", config.PrefsBackend)
	}
	return configDir, nil
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}

		value = strings.Trim(value, `"'`)
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, value)
		}
	}
}
