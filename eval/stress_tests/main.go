package main

import (
	"context"
	"flag"
	"math"
	"os"
	"runtime"

	"github.com/lintang-b-s/navigatorx-lm/pkg"
	"github.com/lintang-b-s/navigatorx-lm/pkg/concurrent"
	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-lm/pkg/landmark"
	log "github.com/lintang-b-s/navigatorx-lm/pkg/logger"
	"github.com/lintang-b-s/navigatorx-lm/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
)

var (
	rows      = flag.Int("rows", 60, "rows of the grid graph")
	cols      = flag.Int("cols", 60, "columns of the grid graph")
	queries   = flag.Int("queries", 20000, "number of random queries")
	landmarks = flag.Int("landmarks", 16, "landmarks per subnetwork")
	active    = flag.Int("active_landmarks", 4, "active landmarks per query")
	seed      = flag.Uint64("seed", 42, "seed of the random graph and queries")
)

type query struct {
	s, t da.Index
}

type result struct {
	q        query
	expected float64
	got      float64
	err      error
}

// buildGraph. grid with random speeds, random one way streets and a few missing streets.
func buildGraph(rd *rand.Rand) *da.Graph {
	gb := da.NewGraphBuilder()
	for r := 0; r < *rows; r++ {
		for c := 0; c < *cols; c++ {
			gb.AddVertex(-7.80+float64(r)*0.002+rd.Float64()*0.0005, 110.30+float64(c)*0.002+rd.Float64()*0.0005)
		}
	}
	g := gb.Build()
	addStreet := func(u, v da.Index) {
		if rd.Intn(20) == 0 {
			return
		}
		speed := float64(20 + rd.Intn(8)*10)
		oneWay := rd.Intn(6) == 0
		dist := g.GetHaversineDistanceFromUtoV(u, v) * (1 + rd.Float64()*0.3)
		if _, err := gb.AddEdge(u, v, dist, speed, true, !oneWay, pkg.RESIDENTIAL); err != nil {
			panic(err)
		}
	}
	for r := 0; r < *rows; r++ {
		for c := 0; c < *cols; c++ {
			u := da.Index(r**cols + c)
			if c+1 < *cols {
				addStreet(u, u+1)
			}
			if r+1 < *rows {
				addStreet(u, u+da.Index(*cols))
			}
		}
	}
	return gb.Build()
}

func main() {
	flag.Parse()
	logger, err := log.New()
	if err != nil {
		panic(err)
	}

	rd := rand.New(rand.NewSource(*seed))
	g := buildGraph(rd)
	w := costfunction.NewFastestWeighting("car", 80)
	logger.Info("graph generated", zap.Int("nodes", g.NumberOfVertices()), zap.Int("edges", g.NumberOfEdges()))

	pl, err := landmark.NewPrepareLandmarks(storage.NewRAMDirectory(), g, landmark.NewLMConfig("stress", w),
		*landmarks, *active)
	if err != nil {
		panic(err)
	}
	pl.SetMinimumNodes(50).SetListener(landmark.NewZapListener(logger))
	if err := pl.DoWork(context.Background()); err != nil {
		panic(err)
	}
	logger.Info("landmarks created", zap.Int("subnetworks", pl.GetSubnetworkCount()),
		zap.Duration("took", pl.GetTotalPrepareTime()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workers := runtime.NumCPU()
	wp := concurrent.NewWorkerPool[query, result](workers, *queries)
	wp.StartWithContext(ctx, func(ctx context.Context, q query) result {
		ref, err := routing.NewDijkstra(g, w).CalcPath(q.s, q.t)
		if err != nil {
			return result{q: q, err: err}
		}
		expected := math.Inf(1)
		if ref.Found {
			expected = ref.Weight
		}

		algo, err := pl.Decorate(g, routing.NewAStarBidirection(g, w), routing.NewAlgorithmOptions(routing.ASTAR_BIDIRECT))
		if err != nil {
			return result{q: q, err: err}
		}
		p, err := algo.CalcPath(q.s, q.t)
		if err != nil {
			if !ref.Found {
				// landmarks report disconnected subnetworks as an error
				return result{q: q, expected: expected, got: expected}
			}
			return result{q: q, err: err}
		}
		got := math.Inf(1)
		if p.Found {
			got = p.Weight
		}
		return result{q: q, expected: expected, got: got}
	})

	for i := 0; i < *queries; i++ {
		wp.AddJob(query{s: da.Index(rd.Intn(g.NumberOfVertices())), t: da.Index(rd.Intn(g.NumberOfVertices()))})
	}
	wp.Close()

	failed := false
	checked := 0
	go func() {
		wp.Wait()
	}()
	for res := range wp.CollectResults() {
		checked++
		if res.err != nil {
			logger.Error("query failed", zap.Uint32("s", uint32(res.q.s)), zap.Uint32("t", uint32(res.q.t)),
				zap.Error(res.err))
			failed = true
			cancel()
			continue
		}
		if res.expected != res.got && math.Abs(res.expected-res.got) > 1e-6 {
			logger.Error("counterexample", zap.Uint32("s", uint32(res.q.s)), zap.Uint32("t", uint32(res.q.t)),
				zap.Float64("dijkstra", res.expected), zap.Float64("astarbi_lm", res.got))
			failed = true
			cancel()
		}
	}

	if failed {
		os.Exit(1)
	}
	logger.Sugar().Infof("%d random queries agree with dijkstra", checked)
}
