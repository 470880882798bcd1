package commands

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"e2estore/internal/engine"
)

// receive: decrypt one message file from a peer stream.
func receiveCmd() *cobra.Command {
	var verifierHex string
	cmd := &cobra.Command{
		Use:   "receive <interaction> <stream> <position> <file>",
		Short: "Decrypt a message and advance the peer cursor past it",
		Args:  cobra.ExactArgs(4),
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
			msg, err := os.ReadFile(args[3])
			if err != nil {
				return err
			}

			var v *engine.Verifier
			if verifierHex != "" {
				b, err := hex.DecodeString(verifierHex)
				if err != nil || len(b) != len(engine.Verifier{}) {
					return fmt.Errorf("--verifier must be %d hex bytes", len(engine.Verifier{}))
				}
				v = new(engine.Verifier)
				copy(v[:], b)
			}

			s, err := conversations()
			if err != nil {
				return err
			}
			pt, err := s.Receive(id, peer, pos, msg, v)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(pt)
			return err
		},
	}
	cmd.Flags().StringVar(&verifierHex, "verifier", "", "sender verifier (hex) to authenticate the message")
	return cmd
}
