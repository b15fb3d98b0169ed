package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wozniakbe/exhibit-prefs/prefs"
	"github.com/wozniakbe/exhibit-prefs/prefs/filejar"
)

// withJar opens the configured jar, runs fn over a Store, and saves if fn
// reports a change.
func withJar(fs afero.Fs, cfg Config, fn func(*prefs.Store) (bool, error)) error {
	jar, err := OpenJar(fs, cfg)
	if err != nil {
		return err
	}
	defer jar.Close()

	changed, err := fn(prefs.New(jar, prefs.WithTTLDays(cfg.CookieTTLDays)))
	if err != nil {
		return err
	}
	if changed {
		if err := jar.Save(); err != nil {
			return fmt.Errorf("saving %s: %w", cfg.JarPath, err)
		}
	}
	return nil
}

func keyArg(args []string) (string, error) {
	if !prefs.ValidName(args[0]) {
		return "", fmt.Errorf("invalid preference key %q", args[0])
	}
	return args[0], nil
}

func newGetCmd(fs afero.Fs, config func() Config) *cobra.Command {
	var def string
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keyArg(args)
			if err != nil {
				return err
			}
			return withJar(fs, config(), func(s *prefs.Store) (bool, error) {
				fmt.Fprintln(cmd.OutOrStdout(), s.GetPreferenceOr(key, def))
				return false, nil
			})
		},
	}
	cmd.Flags().StringVar(&def, "default", "true", "value reported when the preference is unset")
	return cmd
}

func newSetCmd(fs afero.Fs, config func() Config) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <true|false>",
		Short: "Store a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keyArg(args)
			if err != nil {
				return err
			}
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}
			return withJar(fs, config(), func(s *prefs.Store) (bool, error) {
				s.SetPreference(key, value)
				return true, nil
			})
		},
	}
}

func newDeleteCmd(fs afero.Fs, config func() Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Remove a preference so the default applies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keyArg(args)
			if err != nil {
				return err
			}
			return withJar(fs, config(), func(s *prefs.Store) (bool, error) {
				s.DeletePreference(key)
				return true, nil
			})
		},
	}
}

func newListCmd(fs afero.Fs, config func() Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the known preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJar(fs, config(), func(s *prefs.Store) (bool, error) {
				printSnapshot(cmd.OutOrStdout(), s)
				return false, nil
			})
		},
	}
}

func newWatchCmd(fs afero.Fs, config func() Config) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the known preferences whenever the cookie file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config()
			if cfg.JarFormat != JarFormatNetscape {
				return fmt.Errorf("watch supports %s jars only", JarFormatNetscape)
			}
			logger := newLogger(cfg)
			out := cmd.OutOrStdout()

			show := func() {
				err := withJar(fs, cfg, func(s *prefs.Store) (bool, error) {
					printSnapshot(out, s)
					return false, nil
				})
				if err != nil {
					logger.Warn("reloading cookie file failed", "path", cfg.JarPath, "error", err)
				}
			}
			show()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return filejar.Watch(ctx, cfg.JarPath, show)
		},
	}
}

func printSnapshot(w io.Writer, s *prefs.Store) {
	snap := s.Snapshot()
	for _, k := range prefs.Keys() {
		fmt.Fprintf(w, "%s=%t\n", k, snap[k])
	}
}
