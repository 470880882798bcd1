package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fsckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fsck",
		Short: "Decode every stored interaction and report corruption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := conversations()
			if err != nil {
				return err
			}
			results, err := s.Check(cmd.Context())
			if err != nil {
				return err
			}
			bad := 0
			for _, r := range results {
				if r.Err != nil {
					bad++
					fmt.Printf("%s\t%v\n", r.ID, r.Err)
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d interactions failed to decode", bad, len(results))
			}
			fmt.Printf("%d interactions ok\n", len(results))
			return nil
		},
	}
}
