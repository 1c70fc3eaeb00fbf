package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
	"github.com/fivetwenty-io/beer-client/pkg/beerclient"
)

// Config represents the CLI configuration stored in $HOME/.beer/config.yml.
type Config struct {
	RootURL      string   `json:"root_url,omitempty"      yaml:"root_url,omitempty"`
	TokenURL     string   `json:"token_url,omitempty"     yaml:"token_url,omitempty"`
	ClientID     string   `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string   `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	Scopes       []string `json:"scopes,omitempty"        yaml:"scopes,omitempty"`
	AccessToken  string   `json:"access_token,omitempty"  yaml:"access_token,omitempty"`
	Output       string   `json:"output,omitempty"        yaml:"output,omitempty"`

	// Runtime settings; never persisted.
	LogFormat string  `json:"-" yaml:"-"`
	Verbose   bool    `json:"-" yaml:"-"`
	Debug     bool    `json:"-" yaml:"-"`
	RateLimit float64 `json:"-" yaml:"-"`
	Retries   int     `json:"-" yaml:"-"`
}

func loadConfig() *Config {
	return &Config{
		RootURL:      viper.GetString("root_url"),
		TokenURL:     viper.GetString("token_url"),
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
		Scopes:       viper.GetStringSlice("scopes"),
		AccessToken:  viper.GetString("access_token"),
		Output:       viper.GetString("output"),
		LogFormat:    viper.GetString("log_format"),
		Verbose:      viper.GetBool("verbose"),
		Debug:        viper.GetBool("debug"),
		RateLimit:    viper.GetFloat64("rate_limit"),
		Retries:      viper.GetInt("retries"),
	}
}

// configFilePath returns the file the configuration is read from, or the
// default location when none was found.
func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".beer", "config.yml"), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	return writeConfigFile(configFile, config)
}

func writeConfigFile(configFile string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// buildClientConfig maps the CLI configuration onto a beer.Config.
func buildClientConfig(config *Config, logger beer.Logger) (*beer.Config, error) {
	if config.RootURL == "" {
		return nil, constants.ErrNoRootURL
	}

	hasClientCredentials := config.ClientID != "" && config.ClientSecret != ""
	if !hasClientCredentials && config.AccessToken == "" {
		return nil, constants.ErrNoCredentials
	}

	clientConfig := &beer.Config{
		RootURL:   config.RootURL,
		RateLimit: config.RateLimit,
		RetryMax:  config.Retries,
		Debug:     config.Debug,
		Logger:    logger,
	}

	if hasClientCredentials {
		clientConfig.ClientID = config.ClientID
		clientConfig.ClientSecret = config.ClientSecret
		clientConfig.TokenURL = config.TokenURL
		if clientConfig.TokenURL == "" {
			clientConfig.TokenURL = strings.TrimRight(config.RootURL, "/") + constants.DefaultTokenPath
		}

		clientConfig.Scopes = config.Scopes
	} else {
		clientConfig.AccessToken = config.AccessToken
	}

	return clientConfig, nil
}

func createClient(ctx context.Context, config *Config) (beer.Client, error) {
	clientConfig, err := buildClientConfig(config, newLogger(os.Stderr, config.Verbose, config.Debug, config.LogFormat))
	if err != nil {
		return nil, err
	}

	client, err := beerclient.New(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create beer client: %w", err)
	}

	return client, nil
}
