package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/repere/internal/app"
)

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "repere",
		Short: "Anchor beacons to elements of an HTML document",
		Long: "repere computes where floating beacons pinned to document elements\n" +
			"should be drawn and keeps them attached as the page scrolls, resizes and changes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to configuration file")
	flags.StringVarP(&opts.DocumentPath, "document", "d", "", "HTML document to track")
	flags.StringVarP(&opts.BeaconsPath, "beacons", "b", "", "beacon definition file")
	flags.StringVarP(&opts.Route, "route", "r", "", "page path used to select beacons")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")

	root.AddCommand(newResolveCmd(&opts))
	root.AddCommand(newWatchCmd(&opts))
	root.AddCommand(newVersionCmd())
	return root
}

func newResolveCmd(opts *app.Options) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the placement of every active beacon as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := *opts
			o.LogOutput = cmd.ErrOrStderr()
			a, err := app.New(o)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			return a.Resolve(ctx, cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "maximum time to wait for delayed beacons")
	return cmd
}

func newWatchCmd(opts *app.Options) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the document and its beacons in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o := *opts
			// The terminal is taken over, so logs go to a file or nowhere.
			o.LogOutput = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				o.LogOutput = f
			}

			a, err := app.New(o)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing screen: %w", err)
			}
			defer screen.Fini()
			screen.EnableMouse()

			return a.Watch(cmd.Context(), screen)
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "repere %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
