package commands

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <interaction>",
		Short: "Print the full state of an interaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInteraction(args[0])
			if err != nil {
				return err
			}
			s, err := conversations()
			if err != nil {
				return err
			}
			view, err := s.Inspect(id)
			if err != nil {
				return err
			}
			cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
			cfg.Dump(view)
			return nil
		},
	}
}
