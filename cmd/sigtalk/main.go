package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/sigtalk/internal/adapters/fs"
	"github.com/bft-labs/sigtalk/internal/app"
	"github.com/bft-labs/sigtalk/internal/cliconfig"
	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/pkg/langdetect"
	"github.com/bft-labs/sigtalk/pkg/log"
	"github.com/bft-labs/sigtalk/plugins/configwatcher"
)

const helpDescription = `
Send text between two local processes one bit at a time, using nothing but
one-shot notifications. Every bit is acknowledged before the next is sent.
The receiving side guesses the language of each message (French, English,
German or Spanish) and appends it to a log.

Configure via file ($HOME/.sigtalk/config.toml or a .yaml file),
SIGTALK_* environment variables, a .env file, or flags.
`

var exampleUsage = strings.TrimSpace(`
  sigtalk serve
  sigtalk send 4242 "le chat est sur la table"
  sigtalk history --follow
  sigtalk classify --scores "the cat sat on the mat"
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the configuration shared by every subcommand.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	cfgFile string // resolved config file, empty when none was loaded
	logger  zerolog.Logger
}

// load applies config file, .env and environment values beneath the
// flags the user set, then validates.
func (c *cli) load(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}
	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
		c.cfgFile = cfgFile
	}

	if err := cliconfig.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	level, _ := log.ParseLevel(c.cfg.LogLevel)
	c.logger = cliconfig.Logger(level)
	c.logger.Debug().Interface("config", c.cfg).Msg("configuration")
	return nil
}

// reload applies the parts of a changed config file that can change while
// serving. Only the log level qualifies; the rest needs a restart.
func (c *cli) reload(fc cliconfig.FileConfig) {
	if err := cliconfig.SetLevel(fc.LogLevel); err != nil {
		c.logger.Warn().Err(err).Msg("ignoring log level from config file")
		return
	}
	c.logger.Info().Str("log_level", fc.LogLevel).Msg("config reloaded; restart to apply transport settings")
}

func (c *cli) libLogger() log.Logger {
	return log.NewZerologAdapterWithLogger(c.logger)
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig(), logger: cliconfig.Logger(zerolog.InfoLevel)}

	root := &cobra.Command{
		Use:           "sigtalk",
		Short:         "Bit-serial messaging over one-shot notifications",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.sigtalk/config.toml)")
	pf.StringVar(&c.cfg.SocketDir, "socket-dir", c.cfg.SocketDir, "directory holding the per-process sockets")
	pf.StringVar(&c.cfg.LogFile, "log-file", c.cfg.LogFile, "append-only message log")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error, off)")
	pf.IntVar(&c.cfg.QueueSize, "queue-size", c.cfg.QueueSize, "inbound notification queue size")

	root.AddCommand(sendCommand(c), serveCommand(c), historyCommand(c), classifyCommand())

	if err := root.Execute(); err != nil {
		c.logger.Error().Err(err).Msg("sigtalk")
		os.Exit(1)
	}
}

func sendCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <pid> <message>",
		Short: "Send a message to a serving process",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil || pid <= 0 {
				return fmt.Errorf("invalid pid %q", args[0])
			}
			peer := domain.PeerID(pid)

			client, err := app.NewClient(c.cfg.Library(), app.WithLogger(c.libLogger()))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Sending message to %d\n", peer)
			err = client.Send(ctx, peer, args[1])
			if errors.Is(err, domain.ErrAckTimeout) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Timeout waiting for acknowledgment, aborting")
			}
			return err
		},
	}

	f := cmd.Flags()
	f.DurationVar(&c.cfg.PollInterval, "poll", c.cfg.PollInterval, "interval between acknowledgment checks")
	f.IntVar(&c.cfg.MaxPolls, "max-polls", c.cfg.MaxPolls, "checks per bit before giving up")
	f.DurationVar(&c.cfg.SettleDelay, "settle-delay", c.cfg.SettleDelay, "pause after each acknowledged bit")
	return cmd
}

func serveCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Receive, classify and log messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if c.cfg.ShowHistory {
				lines, err := fs.History(c.cfg.LogFile)
				if err != nil {
					return fmt.Errorf("read history: %w", err)
				}
				fmt.Fprintln(out, "Previous messages:")
				for _, line := range lines {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out)
			}

			opts := []app.Option{
				app.WithLogger(c.libLogger()),
				app.WithSink(app.NewConsoleSink(out)),
			}
			if c.cfgFile != "" {
				opts = append(opts, configwatcher.WithConfigWatcher(configwatcher.Config{
					Path:     c.cfgFile,
					OnChange: c.reload,
				}))
			}

			srv, err := app.NewServer(c.cfg.Library(), opts...)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			if err := srv.Start(ctx); err != nil {
				return fmt.Errorf("start server: %w", err)
			}
			fmt.Fprintf(out, "Server PID: %d\n", srv.Self())

			eg, gctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				select {
				case sig := <-sigCh:
					c.logger.Info().Str("signal", sig.String()).Msg("received signal, stopping...")
					cancel()
				case <-gctx.Done():
				}
				return nil
			})
			eg.Go(func() error {
				defer cancel()
				return srv.Wait(gctx)
			})
			return eg.Wait()
		},
	}

	f := cmd.Flags()
	f.IntVar(&c.cfg.Capacity, "capacity", c.cfg.Capacity, "maximum stored message length in bytes")
	f.DurationVar(&c.cfg.AckDelay, "ack-delay", c.cfg.AckDelay, "pause before each acknowledgment")
	f.BoolVar(&c.cfg.ShowHistory, "show-history", c.cfg.ShowHistory, "print logged messages on startup")
	return cmd
}

func historyCommand(c *cli) *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the message log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			lines, err := fs.History(c.cfg.LogFile)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = fs.Follow(ctx, c.cfg.LogFile, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing messages as they are logged")
	return cmd
}

func classifyCommand() *cobra.Command {
	var showScores bool
	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Detect the language of a text without sending it",
		Args:  cobra.MinimumNArgs(1),
		// classification needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			text := strings.Join(args, " ")
			fmt.Fprintln(out, langdetect.Classify(text))
			if !showScores {
				return nil
			}
			for _, s := range langdetect.Scores(text) {
				fmt.Fprintf(out, "  %-8s total=%.2f frequency=%.2f keywords=%d\n",
					s.Language, s.Total, s.Frequency, s.Keywords)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showScores, "scores", false, "print the score of every language")
	return cmd
}
