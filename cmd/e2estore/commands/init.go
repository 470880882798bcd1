package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate the storage key and protect it with a passphrase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.InitStorageKey(passphrase); err != nil {
				return err
			}
			fmt.Printf("Storage key created in %s\n", wire.Config.Home)
			return nil
		},
	}
}
