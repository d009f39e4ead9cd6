package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jkaninda/siri/internal/crypto"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a data encryption key",
	Long: `Generate a new hex-encoded 256 bit data encryption key. Once generated,
this key should be placed into the environment of the Siri server. It is used
to encrypt every secret value stored in the database.

Example:

$ export SIRI_ENCRYPTION_KEY="$(siri keygen)"
`,
	RunE: func(_ *cobra.Command, _ []string) error {
		key, err := crypto.GenerateKey()
		if err != nil {
			return fmt.Errorf("generating data key: %w", err)
		}
		fmt.Println(key)
		return nil
	},
}
