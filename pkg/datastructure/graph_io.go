package datastructure

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/navigatorx-lm/pkg"
	"github.com/lintang-b-s/navigatorx-lm/pkg/geo"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
)

func haversineMeter(latOne, lonOne, latTwo, lonTwo float64) float64 {
	return geo.CalculateHaversineDistance(latOne, lonOne, latTwo, lonTwo) * 1000
}

/*
WriteGraph. bzip2 compressed text:

	n m
	lat lon                                      (n lines)
	base adj dist speed forward backward hwType  (m lines)
*/
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	defer bz.Close()

	w := bufio.NewWriter(bz)

	fmt.Fprintf(w, "%d %d\n", len(g.vertices), len(g.edges))

	for _, v := range g.vertices {
		latF := strconv.FormatFloat(v.lat, 'f', -1, 64)
		lonF := strconv.FormatFloat(v.lon, 'f', -1, 64)
		fmt.Fprintf(w, "%s %s\n", latF, lonF)
	}

	for _, e := range g.edges {
		distF := strconv.FormatFloat(e.dist, 'f', -1, 64)
		speedF := strconv.FormatFloat(e.speed, 'f', -1, 64)
		fmt.Fprintf(w, "%d %d %s %s %t %t %d\n", e.base, e.adj, distF, speedF, e.forward, e.backward, e.hwType)
	}

	return w.Flush()
}

func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(bz)

	line, err := util.ReadLine(br)
	if err != nil {
		return nil, err
	}
	ff := util.Fields(line)
	if len(ff) != 2 {
		return nil, fmt.Errorf("invalid graph header: %q", line)
	}
	n, err := strconv.Atoi(ff[0])
	if err != nil {
		return nil, err
	}
	m, err := strconv.Atoi(ff[1])
	if err != nil {
		return nil, err
	}

	gb := NewGraphBuilder()
	for i := 0; i < n; i++ {
		line, err := util.ReadLine(br)
		if err != nil {
			return nil, fmt.Errorf("read vertex %d: %w", i, err)
		}
		ff := util.Fields(line)
		if len(ff) != 2 {
			return nil, fmt.Errorf("invalid vertex line %d: %q", i, line)
		}
		lat, err := strconv.ParseFloat(ff[0], 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(ff[1], 64)
		if err != nil {
			return nil, err
		}
		gb.AddVertex(lat, lon)
	}

	for i := 0; i < m; i++ {
		line, err := util.ReadLine(br)
		if err != nil {
			return nil, fmt.Errorf("read edge %d: %w", i, err)
		}
		ff := util.Fields(line)
		if len(ff) != 7 {
			return nil, fmt.Errorf("invalid edge line %d: %q", i, line)
		}
		base, err := ParseIndex(ff[0])
		if err != nil {
			return nil, err
		}
		adj, err := ParseIndex(ff[1])
		if err != nil {
			return nil, err
		}
		dist, err := strconv.ParseFloat(ff[2], 64)
		if err != nil {
			return nil, err
		}
		speed, err := strconv.ParseFloat(ff[3], 64)
		if err != nil {
			return nil, err
		}
		forward, err := strconv.ParseBool(ff[4])
		if err != nil {
			return nil, err
		}
		backward, err := strconv.ParseBool(ff[5])
		if err != nil {
			return nil, err
		}
		hw, err := strconv.ParseUint(ff[6], 10, 8)
		if err != nil {
			return nil, err
		}
		if _, err := gb.AddEdge(base, adj, dist, speed, forward, backward, pkg.OsmHighwayType(hw)); err != nil {
			return nil, err
		}
	}

	return gb.Build(), nil
}

func ParseIndex(s string) (Index, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return Index(v), nil
}
