package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/grailbio/base/log"
	"github.com/spf13/cobra"

	"e2estore/internal/app"
	"e2estore/internal/domain"
	"e2estore/internal/services/conversation"
)

var (
	flags      app.Config
	passphrase string

	wire *app.Wire
	svc  *conversation.Service
)

func Execute() error {
	root := &cobra.Command{
		Use:          "e2estore",
		Short:        "Inspect and maintain end-to-end encrypted interaction storage",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(flags)
			if err != nil {
				return err
			}
			level, err := app.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)

			wire, err = app.NewWire(cfg)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			return wire.Shutdown(cmd.Context(), svc)
		},
	}

	root.PersistentFlags().StringVar(&flags.Home, "home", "", "data dir (default ~/.e2estore)")
	root.PersistentFlags().StringVar(&flags.Backend, "backend", "", "storage backend: file or sqlite")
	root.PersistentFlags().StringVar(&flags.LogLevel, "log", "", "log level: off, error, info or debug")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the storage key")

	root.AddCommand(
		initCmd(),
		createCmd(),
		listCmd(),
		recipientCmd(),
		peerCmd(),
		advanceCmd(),
		rotateCmd(),
		keyCmd(),
		pruneCmd(),
		receiveCmd(),
		dumpCmd(),
		fsckCmd(),
	)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return root.ExecuteContext(ctx)
}

// conversations opens the service once per process.
func conversations() (*conversation.Service, error) {
	if svc != nil {
		return svc, nil
	}
	s, err := wire.Conversations(passphrase)
	if err != nil {
		return nil, err
	}
	svc = s
	return svc, nil
}

func parseInteraction(s string) (domain.InteractionID, error) {
	return domain.ParseInteractionID(s)
}

func parseStream(s string) (domain.StreamID, error) {
	return domain.ParseStreamID(s)
}

func parsePosition(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("position %q: %w", s, err)
	}
	return v, nil
}
