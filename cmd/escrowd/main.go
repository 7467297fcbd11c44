package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/cmd/escrowd/app"
	"github.com/iov-one/escrowd/commands/server"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

// envPrefix binds every flag to an ESCROWD_<FLAG> environment variable.
const envPrefix = "ESCROWD"

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "escrowd")

	if err := rootCmd(logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func rootCmd(logger log.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "escrowd",
		Short: "Two-party escrow ledger node",
	}
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".escrowd")
	root.PersistentFlags().String(server.FlagHome, defaultHome, "directory to store files under")
	viper.BindPFlag(server.FlagHome, root.PersistentFlags().Lookup(server.FlagHome))

	cobra.OnInitialize(func() {
		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
	})

	root.AddCommand(
		server.InitCmd(app.GenInitOptions, logger),
		server.StartCmd(app.GenerateApp, logger),
		server.ValidateCmd(app.Initializers()),
		keyCmd(),
		exportCmd(),
		custodyCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), escrowd.Version())
		},
	}
}

func keyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new ed25519 key and print it with its address",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, keys, err := app.GenerateCoinKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), keys)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		height int64
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the ledger state at a height as genesis app_state",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := filepath.Join(viper.GetString(server.FlagHome), app.Name+".db")
			raw, err := app.ExportFromDB(dbPath, height)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			return ioutil.WriteFile(out, raw, 0644)
		},
	}
	cmd.Flags().Int64Var(&height, "height", 0, "block height to export, latest when zero")
	cmd.Flags().StringVar(&out, "out", "", "output file, stdout when empty")
	return cmd
}

func custodyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "custody <handle>...",
		Short: "Print the custody address of hex encoded escrow handles",
		Long: `Custody addresses are derived from the escrow handle. Knowing them
ahead is helpful when writing a genesis file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCustody(cmd.OutOrStdout(), args)
		},
	}
}

func printCustody(out io.Writer, handles []string) error {
	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "handle\taddress\tbech32")
	for _, h := range handles {
		handle, err := hex.DecodeString(h)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "handle %q is not hex", h)
		}
		if err := escrow.ValidateHandle(handle); err != nil {
			return errors.Wrapf(err, "handle %q", h)
		}
		addr := escrow.Condition(handle).Address()
		b32, err := addr.Bech32()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", h, addr, b32)
	}
	return nil
}
