package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func peerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peer",
		Short: "Manage receive streams",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <interaction> <stream>",
		Short: "Track a remote peer stream from position 0",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInteraction(args[0])
			if err != nil {
				return err
			}
			peer, err := parseStream(args[1])
			if err != nil {
				return err
			}
			s, err := conversations()
			if err != nil {
				return err
			}
			return s.AddPeer(id, peer)
		},
	}, &cobra.Command{
		Use:   "list <interaction>",
		Short: "Show every receive cursor",
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
			peers, err := s.Peers(id)
			if err != nil {
				return err
			}
			for _, p := range peers {
				fmt.Printf("%s\t%d\n", p.ID, p.Position)
			}
			return nil
		},
	})
	return cmd
}

func advanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <interaction> <stream> <position>",
		Short: "Move a peer cursor forward and persist it",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInteraction(args[0])
			if err != nil {
				return err
			}
			peer, err := parseStream(args[1])
			if err != nil {
				return err
			}
			pos, err := parsePosition(args[2])
			if err != nil {
				return err
			}
			s, err := conversations()
			if err != nil {
				return err
			}
			return s.Advance(id, peer, pos)
		},
	}
}
