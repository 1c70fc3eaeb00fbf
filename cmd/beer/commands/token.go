package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/beer-client/internal/constants"
)

// TokenInfo describes the access token currently used by the client.
type TokenInfo struct {
	Token     string                 `json:"token"                yaml:"token"`
	ExpiresAt *time.Time             `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Claims    map[string]interface{} `json:"claims,omitempty"     yaml:"claims,omitempty"`
}

// NewTokenCommand creates the token command.
func NewTokenCommand() *cobra.Command {
	var (
		refresh bool
		full    bool
		decode  bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Show the current access token",
		Long:  "Acquire or reuse an access token and display it, optionally decoding its JWT claims",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			client, err := createClient(cmd.Context(), config)
			if err != nil {
				return err
			}

			if refresh {
				err = client.RefreshToken(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to refresh token: %w", err)
				}
			}

			token, err := client.GetToken(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get token: %w", err)
			}

			info := &TokenInfo{Token: token}
			if !full {
				info.Token = previewToken(token)
			}

			if decode {
				claims, err := decodeClaims(token)
				if err != nil {
					return err
				}

				info.Claims = claims

				expiresAt, err := claimsExpiry(claims)
				if err == nil {
					info.ExpiresAt = &expiresAt
				}
			}

			return outputTokenInfo(cmd.OutOrStdout(), config.Output, info)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "discard the cached token and acquire a new one")
	cmd.Flags().BoolVar(&full, "full", false, "print the whole token instead of a preview")
	cmd.Flags().BoolVar(&decode, "decode", false, "decode the token's JWT claims without verifying the signature")

	return cmd
}

func previewToken(token string) string {
	if len(token) <= constants.TokenPreviewLength {
		return token
	}

	return token[:constants.TokenPreviewLength] + "..."
}

// decodeClaims parses the JWT payload without verifying its signature.
func decodeClaims(token string) (map[string]interface{}, error) {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidJWTFormat, err)
	}

	return claims, nil
}

func claimsExpiry(claims map[string]interface{}) (time.Time, error) {
	exp, err := jwt.MapClaims(claims).GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("reading exp claim: %w", err)
	}

	if exp == nil {
		return time.Time{}, constants.ErrNoExpirationClaim
	}

	return exp.Time, nil
}

func outputTokenInfo(w io.Writer, format string, info *TokenInfo) error {
	handled, err := writeStructured(w, format, info)
	if handled {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")
	_ = table.Append("Token", info.Token)

	if info.ExpiresAt != nil {
		_ = table.Append("Expires", info.ExpiresAt.Local().Format(timestampLayout))
		_ = table.Append("Expires In", time.Until(*info.ExpiresAt).Round(time.Second).String())
	}

	keys := make([]string, 0, len(info.Claims))
	for key := range info.Claims {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		_ = table.Append("claim."+key, formatClaim(info.Claims[key]))
	}

	return renderTable(table)
}

func formatClaim(value interface{}) string {
	switch typed := value.(type) {
	case []interface{}:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, fmt.Sprint(item))
		}

		return strings.Join(parts, ", ")
	case float64:
		return fmt.Sprintf("%.0f", typed)
	default:
		return fmt.Sprint(typed)
	}
}
