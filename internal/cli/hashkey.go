package cli

import (
	"bufio"
	"fmt"
	"strings"

	"launchdeck/internal/platform/credentials"

	"github.com/spf13/cobra"
)

// newHashKeyCommand prints the key_sha256 value for a keyring entry
// the key is read from stdin when no argument is given, keeping it out of shell history
func newHashKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Print the sha256 digest of an API key for the keyring file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				sc := bufio.NewScanner(cmd.InOrStdin())
				if sc.Scan() {
					key = sc.Text()
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return fmt.Errorf("hash-key: empty key")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), credentials.HashKey(key))
			return err
		},
	}
}
