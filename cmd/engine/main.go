package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/engine/routing"
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
	snapRadius            = flag.Float64("snap_radius", 0.5, "maximum distance in km between a query point and the road")

	originLat      = flag.Float64("origin_lat", -7.7829, "origin latitude")
	originLon      = flag.Float64("origin_lon", 110.3671, "origin longitude")
	destinationLat = flag.Float64("destination_lat", -7.5666, "destination latitude")
	destinationLon = flag.Float64("destination_lon", 110.8243, "destination longitude")

	profile         = flag.String("profile", "", "landmark profile, chosen from vehicle and weighting if empty")
	vehicle         = flag.String("vehicle", "", "vehicle hint for the profile selection")
	weighting       = flag.String("weighting", "", "weighting hint for the profile selection")
	algorithm       = flag.String("algorithm", routing.ASTAR_BIDIRECT, "dijkstra, astar or astarbi")
	activeLandmarks = flag.Int("active_landmarks", 0, "active landmarks per query, 0 uses the configured default")
	epsilon         = flag.Float64("epsilon", routing.DEFAULT_EPSILON, "heuristic weight, > 1 gives up optimality")
	disableLM       = flag.Bool("disable_lm", false, "route without landmarks")
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
	rtree := spatialindex.NewRtree()
	rtree.Build(graph, *leafBoundingBoxRadius, logger)

	handler, err := preparation.NewPreparationHandler(cfg, logger)
	if err != nil {
		panic(err)
	}
	if err := handler.CreatePreparations(graph, rtree); err != nil {
		panic(err)
	}
	if _, err := handler.LoadOrDoWork(context.Background()); err != nil {
		logger.Fatal("loading landmarks failed", zap.Error(err))
	}

	base := routing.NewDefaultAlgorithmFactory()
	var factory *preparation.LMAlgoFactoryDecorator
	if *profile != "" {
		factory, err = handler.GetAlgorithmFactory(*profile, base)
	} else {
		factory, err = handler.SelectAlgorithmFactory(preparation.ProfileHints{Vehicle: *vehicle, Weighting: *weighting},
			base)
	}
	if err != nil {
		logger.Fatal("no landmark profile", zap.Error(err))
	}
	w := factory.GetPreparation().GetLMConfig().GetWeighting()

	qg := routing.NewQueryGraph(graph)
	from, err := snap(rtree, qg, *originLat, *originLon)
	if err != nil {
		logger.Fatal("origin", zap.Error(err))
	}
	to, err := snap(rtree, qg, *destinationLat, *destinationLon)
	if err != nil {
		logger.Fatal("destination", zap.Error(err))
	}

	opts := routing.NewAlgorithmOptions(*algorithm)
	opts.ActiveLandmarks = *activeLandmarks
	opts.Epsilon = *epsilon
	opts.DisableLM = *disableLM
	algo, err := factory.CreateAlgo(qg, w, opts)
	if err != nil {
		logger.Fatal("create algorithm", zap.Error(err))
	}

	path, err := algo.CalcPath(from, to)
	if err != nil {
		logger.Fatal("route", zap.Error(err))
	}
	if !path.Found {
		logger.Sugar().Infof("no route found, visited nodes: %d", algo.GetVisitedNodes())
		return
	}
	logger.Info("route found", zap.String("algorithm", algo.GetName()), zap.Int("visited_nodes", algo.GetVisitedNodes()))
	fmt.Printf("weight: %.2f\ndistance: %.2f m\npolyline: %s\n", path.Weight, path.Distance, path.Polyline(qg))
}

func snap(rtree *spatialindex.Rtree, qg *routing.QueryGraph, lat, lon float64) (datastructure.Index, error) {
	edgeSnap, found := rtree.FindClosestEdge(lat, lon, *snapRadius)
	if !found {
		return datastructure.INVALID_VERTEX_ID, fmt.Errorf("no road within %.2f km of (%f, %f)", *snapRadius, lat, lon)
	}
	return qg.AddVirtualNode(edgeSnap.EdgeId, edgeSnap.Lat, edgeSnap.Lon)
}
