package server

import (
	"github.com/iov-one/escrowd/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/abci/server"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// StartCmd initializes the application and serves it over the abci socket
// until the process is interrupted.
func StartCmd(gen AppGenerator, logger log.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		RunE: func(cmd *cobra.Command, args []string) error {
			svr, err := startServer(gen, logger)
			if err != nil {
				return err
			}
			// TrapSignal stops the server and exits the process on
			// SIGINT or SIGTERM, it does not block.
			cmn.TrapSignal(logger, func() {
				logger.Info("Stopping ABCI app")
				svr.Stop()
			})
			select {}
		},
	}
	cmd.Flags().String(flagBind, "tcp://localhost:26658", "address server listens on")
	cmd.Flags().Bool(flagDebug, false, "call stack returned on error")
	viper.BindPFlag(flagBind, cmd.Flags().Lookup(flagBind))
	viper.BindPFlag(flagDebug, cmd.Flags().Lookup(flagDebug))
	return cmd
}

func startServer(gen AppGenerator, logger log.Logger) (cmn.Service, error) {
	opts := &Options{
		Home:   viper.GetString(FlagHome),
		Logger: logger,
		Debug:  viper.GetBool(flagDebug),
	}
	app, err := gen(opts)
	if err != nil {
		return nil, errors.Wrap(err, "generate app")
	}

	addr := viper.GetString(flagBind)
	logger.Info("Starting ABCI app", "bind", addr)

	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return nil, errors.Wrap(err, "creating listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return nil, errors.Wrap(err, "start server")
	}
	return svr, nil
}
