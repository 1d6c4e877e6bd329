package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"ftl/domain/rbtree"
	"ftl/service"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := makeRootCommand().ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("ftcheck failed")
		os.Exit(1)
	}
}

func makeRootCommand() *cobra.Command {
	var (
		cfg      service.Config
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "ftcheck",
		Short: "ftcheck runs the ordered containers against reference implementations.",
		Long: `ftcheck applies a seeded stream of random operations to an ordered map, an
ordered set and a stack, mirrors every operation on a reference container and
fails on the first disagreement. Tree invariants are checked periodically and
every node arena must be empty once the run is drained.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return errors.Wrap(err, "--log-level")
			}
			logger := logrus.New()
			logger.SetLevel(level)
			logger.SetOutput(cmd.ErrOrStderr())
			cfg.Logger = logger

			rep, err := service.NewRunner(cfg).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed=%d ops=%d verifications=%d exhausted=%d elapsed=%s\n",
				rep.Seed, rep.Ops, rep.Verifications, rep.Exhausted, rep.Elapsed)
			return nil
		},
	}

	// ---------------- Run ----------------

	cmd.Flags().Int64Var(&cfg.Seed, "seed", 1, "seed of the operation stream")
	cmd.Flags().IntVar(&cfg.Ops, "ops", service.DefaultOps, "number of operations")
	cmd.Flags().IntVar(&cfg.KeySpace, "keys", service.DefaultKeySpace, "keys are drawn from [0, keys)")
	cmd.Flags().IntVar(&cfg.VerifyEvery, "verify-every", service.DefaultVerifyEvery, "check invariants and full contents every N operations")
	cmd.Flags().IntVar(&cfg.MaxNodes, "max-nodes", 0, "bound each node arena and the stack; 0 means unbounded")
	cmd.Flags().IntVar(&cfg.TrailSize, "trail", service.DefaultTrailSize, "recent operations reported on failure")

	// ---------------- Logging ----------------

	cmd.Flags().StringVar(&logLevel, "log-level", "info", "logrus level: debug, info, warn, error")

	cmd.AddCommand(makeDumpCommand())
	return cmd
}

func makeDumpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <int>...",
		Short: "Insert the given integers into a red-black tree and print its shape.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree := rbtree.NewOrdered[int]()
			for _, a := range args {
				v, err := strconv.Atoi(a)
				if err != nil {
					return errors.Wrapf(err, "parsing %q", a)
				}
				if _, _, err := tree.Insert(v); err != nil {
					return err
				}
			}
			if err := tree.Verify(); err != nil {
				return err
			}
			tree.Dump(cmd.OutOrStdout())
			return nil
		},
	}
}
