package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/vitalflow/internal/keyring"
)

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Secret string `arg:"" help:"Secret name: gemini-api-key or postgres-password."`
	Value  string `arg:"" optional:"" help:"Secret value. Prompted for when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	value := cmd.Value
	if value == "" {
		if !ctx.Interactive {
			return fmt.Errorf("a value for %s is required", secret)
		}
		err := huh.NewInput().
			Title(fmt.Sprintf("Enter %s", secret)).
			EchoMode(huh.EchoModePassword).
			Value(&value).
			Run()
		if err != nil {
			return err
		}
	}

	if err := keyring.Set(secret, strings.TrimSpace(value)); err != nil {
		return err
	}
	ctx.printf("✓ %s stored successfully in OS keyring\n", secret)
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Secret string `arg:"" help:"Secret name: gemini-api-key or postgres-password."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	secret, err := keyring.ParseSecret(cmd.Secret)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", secret)
		}
		return err
	}
	ctx.printf("✓ %s deleted from OS keyring\n", secret)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.println("✓ OS keyring is available")

	for _, secret := range keyring.Secrets() {
		value, err := keyring.Get(secret)
		switch {
		case err == nil:
			ctx.printf("✓ %s is stored (%s)\n", secret, maskSecret(value))
		case errors.Is(err, keyring.ErrNotFound):
			ctx.printf("ℹ No %s stored in keyring\n", secret)
		default:
			return err
		}
	}
	return nil
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
