package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/osmcore/relareas/area"
	"github.com/osmcore/relareas/internal/logger"
	"github.com/osmcore/relareas/internal/metrics"
	"github.com/osmcore/relareas/internal/tagfilter"
	"github.com/osmcore/relareas/osmio"
	"github.com/osmcore/relareas/outbuf"
	"github.com/osmcore/relareas/planar"
	"github.com/osmcore/relareas/relations"
	"github.com/osmcore/relareas/sink"
)

var assembleCmd = &cobra.Command{
	Use:   "assemble-areas [pbf file]",
	Short: "Assemble multipolygon/boundary relations into areas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.InputFile = args[0]
		if err := cfg.Validate(); err != nil {
			return err
		}
		return runAssemble(cfg.InputFile)
	},
}

func runAssemble(pbfPath string) error {
	log := logger.Get()
	defer logger.Sync()

	tfCfg := tagfilter.DefaultConfig()
	if cfg.TagFilterFile != "" {
		var err error
		tfCfg, err = tagfilter.Load(cfg.TagFilterFile)
		if err != nil {
			return fmt.Errorf("cmd: load tag filter: %w", err)
		}
	}

	out, err := openSink()
	if err != nil {
		return err
	}
	defer out.Close()

	asm := area.New(planar.Helpers{}, area.Config{CollectProblems: cfg.CollectProblems})
	policy := relations.NewMultipolygonPolicy(asm, tagfilter.Predicate(tfCfg))
	policy.SetLogger(log)

	mgrCfg := relations.Config{
		InterestedIn: relations.InterestedIn{
			Nodes:     cfg.InterestedInNodes,
			Ways:      cfg.InterestedInWays,
			Relations: cfg.InterestedInRelations,
		},
		OutputHighWater: cfg.OutputHighWater,
		Logger:          log,
	}
	mgr := relations.NewManager(policy, mgrCfg)

	batches := 0
	mgr.Buffer().SetCallback(func(buf outbuf.Buffer) {
		if buf.Len() == 0 {
			return
		}
		if err := out.WriteAreas(buf.Areas()); err != nil {
			log.Error("write areas", zap.Error(err))
		}
		batches++
	})

	if cfg.MetricsInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		collector := metrics.NewCollector(cfg.MetricsInterval, log)
		collector.SetUsageFunc(mgr.MemoryUsage)
		go collector.Start(ctx)
	}

	start := time.Now()
	handler := relations.NewOrderCheckedHandler(mgr)
	if err := osmio.ReadRelations(pbfPath, mgr); err != nil {
		return fmt.Errorf("cmd: first pass: %w", err)
	}
	if err := osmio.SecondPass(pbfPath, cfg.LocationIndex, handler, nil); err != nil {
		return fmt.Errorf("cmd: second pass: %w", err)
	}
	mgr.Buffer().Flush()

	log.Info("assembly complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("flushed_batches", batches),
	)
	relations.PrintMemoryUsage(os.Stdout, mgr.MemoryUsage())
	return nil
}

func openSink() (sink.Sink, error) {
	switch cfg.Sink {
	case "postgres":
		return sink.NewPostgresSink(context.Background(), cfg.SinkDSN, "public", "assembled_areas")
	default:
		return sink.NewWKTSink(cfg.InputFile + ".wkt")
	}
}
