package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func recipientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipient",
		Short: "Manage send stream recipients",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <interaction> <username>",
		Short: "Add a recipient with a fresh send key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInteraction(args[0])
			if err != nil {
				return err
			}
			s, err := conversations()
			if err != nil {
				return err
			}
			r, err := s.AddRecipient(id, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Recipient %d added: %s\n", r.Index, r.Username)
			return nil
		},
	}, &cobra.Command{
		Use:   "list <interaction>",
		Short: "List recipients in send order",
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
			rs, err := s.Recipients(id)
			if err != nil {
				return err
			}
			for _, r := range rs {
				fmt.Printf("%d\t%x\t%s\n", r.Index, r.Key[:4], r.Username)
			}
			return nil
		},
	})
	return cmd
}
