package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/beer-client/internal/constants"
)

// NewConfigureCommand creates the configure command.
func NewConfigureCommand() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Save API and credential settings",
		Long: `Save the root URL, token URL, client credentials and scopes given as global
flags to $HOME/.beer/config.yml. The client secret is prompted for when a
client ID is given without one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if show {
				return displayConfig(cmd.OutOrStdout(), config)
			}

			if config.RootURL == "" {
				return constants.ErrNoRootURL
			}

			if config.ClientID != "" && config.ClientSecret == "" {
				err := promptForClientSecret(os.Stdin, cmd.OutOrStdout(), &config.ClientSecret)
				if err != nil {
					return err
				}
			}

			err := saveConfigStruct(config)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			return displayConfig(cmd.OutOrStdout(), config)
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "show the current configuration without saving")

	return cmd
}

func promptForClientSecret(in *os.File, out io.Writer, secret *string) error {
	fd := int(in.Fd()) // #nosec G115 -- file descriptors fit in int
	if !term.IsTerminal(fd) {
		return constants.ErrNoCredentials
	}

	_, err := io.WriteString(out, "Client Secret: ")
	if err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}

	secretBytes, err := term.ReadPassword(fd)
	if err != nil {
		return fmt.Errorf("failed to read client secret: %w", err)
	}

	*secret = strings.TrimSpace(string(secretBytes))

	_, _ = io.WriteString(out, "\n")

	return nil
}

func maskSecret(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return constants.MaskedSecret
}

func displayConfig(w io.Writer, config *Config) error {
	masked := *config
	if masked.ClientSecret != "" {
		masked.ClientSecret = constants.MaskedSecret
	}

	if masked.AccessToken != "" {
		masked.AccessToken = previewToken(masked.AccessToken)
	}

	handled, err := writeStructured(w, config.Output, &masked)
	if handled {
		return err
	}

	valueOr := func(value string) string {
		if value == "" {
			return constants.NotAvailable
		}

		return value
	}

	table := tablewriter.NewWriter(w)
	table.Header("Setting", "Value")
	_ = table.Append("Root URL", valueOr(config.RootURL))
	_ = table.Append("Token URL", valueOr(config.TokenURL))
	_ = table.Append("Client ID", valueOr(config.ClientID))
	_ = table.Append("Client Secret", maskSecret(config.ClientSecret))
	_ = table.Append("Scopes", valueOr(strings.Join(config.Scopes, " ")))
	_ = table.Append("Access Token", maskSecret(config.AccessToken))
	_ = table.Append("Output", valueOr(config.Output))

	return renderTable(table)
}
