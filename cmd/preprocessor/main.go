package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/logger"
	"github.com/lintang-b-s/navigatorx-lm/pkg/preparation"
	"github.com/lintang-b-s/navigatorx-lm/pkg/spatialindex"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	configPath            = flag.String("config", "./data/", "directory containing config.yaml")
	leafBoundingBoxRadius = flag.Float64("leaf_bounding_box_radius", 0.05, "leaf node (r-tree) bounding box radius in km")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if err := util.ReadConfig(*configPath); err != nil {
		panic(err)
	}
	cfg, err := preparation.LoadConfig(viper.GetViper())
	if err != nil {
		panic(err)
	}

	graph, err := datastructure.ReadGraph(cfg.GraphFile)
	if err != nil {
		panic(err)
	}
	logger.Info("graph loaded", zap.Int("nodes", graph.NumberOfVertices()), zap.Int("edges", graph.NumberOfEdges()))

	rtree := spatialindex.NewRtree()
	rtree.Build(graph, *leafBoundingBoxRadius, logger)

	handler, err := preparation.NewPreparationHandler(cfg, logger)
	if err != nil {
		panic(err)
	}
	if err := handler.CreatePreparations(graph, rtree); err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := handler.LoadOrDoWork(ctx)
	if err != nil {
		logger.Fatal("landmark preparation failed", zap.Error(err))
	}
	for _, res := range results {
		logger.Info("landmarks", zap.String("profile", res.Profile), zap.Bool("loaded", res.Loaded),
			zap.Int("subnetworks", res.Subnetworks), zap.Duration("took", res.Duration))
	}

	logger.Sugar().Infof("Preprocessing completed successfully.")
}
