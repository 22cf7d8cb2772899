package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/sleeplit/internal/cli"
	"github.com/julianstephens/sleeplit/internal/keyring"
	"github.com/julianstephens/sleeplit/internal/storage/postgres"
)

// KeyringSetCmd stores the postgres password, or a full connection string,
// in the OS keyring
type KeyringSetCmd struct {
	Secret string `arg:"" help:"Database password or PostgreSQL connection string."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(cmd.Secret) == "" {
		return errors.New("secret cannot be empty")
	}

	if postgres.IsConnString(cmd.Secret) {
		if err := postgres.ValidateConnString(cmd.Secret); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// a password inside the URL is fine here; the keyring is encrypted
			ctx.Println("ℹ Connection string contains a password; it will be stored as-is in the OS keyring.")
		}
	}

	if err := keyring.SetSecret(cmd.Secret); err != nil {
		return err
	}
	ctx.Println("✓ Secret stored successfully in OS keyring")
	return nil
}

// KeyringDeleteCmd removes the stored secret
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteSecret(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no secret found in keyring")
		}
		return err
	}
	ctx.Println("✓ Secret deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	secret, err := keyring.GetSecret()
	switch {
	case err == nil:
		ctx.Printf("✓ Secret is stored in keyring: %s\n", maskSecret(secret))
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No secret stored in keyring")
	default:
		return err
	}
	return nil
}

// maskSecret hides the password of a connection URL, or all of a bare
// password.
func maskSecret(secret string) string {
	if !postgres.IsConnString(secret) {
		return "****"
	}
	idx := strings.Index(secret, "://")
	remaining := secret[idx+3:]
	atIdx := strings.LastIndex(remaining, "@")
	if atIdx == -1 {
		return secret
	}
	userInfo := remaining[:atIdx]
	colonIdx := strings.Index(userInfo, ":")
	if colonIdx == -1 {
		return secret
	}
	return secret[:idx+3] + userInfo[:colonIdx] + ":****" + remaining[atIdx:]
}
