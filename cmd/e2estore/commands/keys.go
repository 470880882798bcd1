package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"e2estore/internal/crypto"
	"e2estore/internal/domain"
)

func printWindow(w domain.Window) {
	fmt.Printf("[%d,%d)\t%s\n", w.Start, w.End, crypto.Fingerprint(w.Public))
}

func rotateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate <interaction> <end>",
		Short: "Append a fresh key window ending before <end>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInteraction(args[0])
			if err != nil {
				return err
			}
			end, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			s, err := conversations()
			if err != nil {
				return err
			}
			w, err := s.Rotate(id, end)
			if err != nil {
				return err
			}
			printWindow(w)
			return nil
		},
	}
}

func keyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <interaction> <position>",
		Short: "Show the key window covering a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInteraction(args[0])
			if err != nil {
				return err
			}
			pos, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			s, err := conversations()
			if err != nil {
				return err
			}
			w, err := s.SelectKey(id, pos)
			if err != nil {
				return err
			}
			printWindow(w)
			return nil
		},
	}
}

func pruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune <interaction> <position>",
		Short: "Drop key windows ending at or before a position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInteraction(args[0])
			if err != nil {
				return err
			}
			pos, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			s, err := conversations()
			if err != nil {
				return err
			}
			n, err := s.PruneKeys(id, pos)
			if err != nil {
				return err
			}
			fmt.Printf("Pruned %d windows\n", n)
			return nil
		},
	}
}
