package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/superjcd/gohltv/request"
	"github.com/superjcd/gohltv/scheduler"
	"github.com/superjcd/gohltv/scheduler/nsq"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run workers consuming page jobs from NSQ and saving records to MongoDB",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := builder.Build(cmd.Context())
		if err != nil {
			return err
		}
		log.Info("serving", zap.String("topic", cfg.Nsq.Topic), zap.String("collection", cfg.Mongo.Collection))
		return w.Run(cmd.Context())
	},
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue <kind> [key=value...]",
	Short: "Publish a page job to NSQ",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobArgs, err := parseJobArgs(args[1:])
		if err != nil {
			return err
		}
		sched, err := nsq.NewNsqScheduler(cfg.Nsq.Topic, cfg.Nsq.Channel, cfg.Nsq.NsqdAddr, cfg.Nsq.LookupdAddr,
			nsq.WithLogger(log))
		if err != nil {
			return err
		}
		defer sched.Stop()

		req := request.New(args[0], jobArgs)
		if err := sched.Push(cmd.Context(), scheduler.QUEUE_PUSH, req); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), req.ID)
		return nil
	},
}

func parseJobArgs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("job argument %q is not key=value", pair)
		}
		out[k] = v
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(serveCmd, enqueueCmd)
}
