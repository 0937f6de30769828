package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/pfrederiksen/mlb-batters/internal/config"
	"github.com/pfrederiksen/mlb-batters/internal/crypto"
	"github.com/spf13/cobra"
)

func newSealCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seal",
		Short: "Encrypt a credential value read from stdin",
		Long: `Reads one secret from stdin and prints it sealed with the passphrase in
` + config.CredentialsKeyEnv + `. Paste the output into credentials.json in
place of the plaintext value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := crypto.NewEncryptor(os.Getenv(config.CredentialsKeyEnv))
			if enc == nil {
				return fmt.Errorf("%s is not set", config.CredentialsKeyEnv)
			}

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading secret from stdin: %w", err)
			}
			secret := strings.TrimRight(line, "\r\n")
			if secret == "" {
				return fmt.Errorf("empty secret")
			}

			sealed, err := enc.Seal(secret)
			if err != nil {
				return fmt.Errorf("sealing secret: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), sealed)
			return nil
		},
	}
}
