package landmark

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/dsnet/compress/bzip2"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-lm/pkg/util"
	"go.uber.org/multierr"
)

const bboxDirective = "#BBOX:"

// LocationIndex. snaps coordinates to graph nodes.
type LocationIndex interface {
	FindClosestNode(lat, lon, radiusKm float64) (da.Index, bool)
}

// LandmarkSuggestion. fixed landmarks for the subnetwork whose seed lies inside box.
type LandmarkSuggestion struct {
	nodeIds []da.Index
	box     *da.BoundingBox
}

func NewLandmarkSuggestion(nodeIds []da.Index, box *da.BoundingBox) *LandmarkSuggestion {
	return &LandmarkSuggestion{nodeIds: nodeIds, box: box}
}

func (s *LandmarkSuggestion) GetNodeIds() []da.Index {
	return s.nodeIds
}

func (s *LandmarkSuggestion) GetBox() *da.BoundingBox {
	return s.box
}

/*
ReadLandmarkSuggestion. reads a suggestion file, files ending with .bz2 are decompressed.

	# lines starting with a letter are comments
	#BBOX:minLat,minLon,maxLat,maxLon
	lon,lat

without #BBOX the box of the points is used. every malformed or unsnappable line is reported in the returned error.
*/
func ReadLandmarkSuggestion(path string, locIndex LocationIndex) (*LandmarkSuggestion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "open landmark suggestion %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "decompress landmark suggestion %s", path)
		}
		defer bz.Close()
		r = bz
	}
	suggestion, err := parseLandmarkSuggestion(r, locIndex)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "landmark suggestion %s", path)
	}
	return suggestion, nil
}

func parseLandmarkSuggestion(r io.Reader, locIndex LocationIndex) (*LandmarkSuggestion, error) {
	br := bufio.NewReader(r)
	nodeIds := make([]da.Index, 0)
	inferredBox := da.NewInvalidBoundingBox()
	var box *da.BoundingBox
	var errs error

	for lineNo := 1; ; lineNo++ {
		line, err := util.ReadLine(br)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, bboxDirective) {
			coords, err := parseFloats(strings.TrimPrefix(line, bboxDirective), 4)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("line %d: invalid %s directive: %w", lineNo, bboxDirective, err))
				continue
			}
			box = da.NewBoundingBox(coords[0], coords[1], coords[2], coords[3])
			continue
		}
		if first := rune(line[0]); unicode.IsLetter(first) || first == '#' {
			continue
		}

		coords, err := parseFloats(line, 2)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		lon, lat := coords[0], coords[1]
		nodeId, found := locIndex.FindClosestNode(lat, lon, SUGGESTION_SNAP_RADIUS)
		if !found {
			errs = multierr.Append(errs, fmt.Errorf("line %d: no node near lon=%f lat=%f", lineNo, lon, lat))
			continue
		}
		nodeIds = append(nodeIds, nodeId)
		inferredBox.Update(lat, lon)
	}

	if errs != nil {
		return nil, errs
	}
	if len(nodeIds) == 0 {
		return nil, ErrTooFewSuggestions
	}
	if box == nil {
		box = inferredBox
	}
	return NewLandmarkSuggestion(nodeIds, box), nil
}

func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d comma separated values, got %q", n, s)
	}
	values := make([]float64, n)
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", field)
		}
		values[i] = v
	}
	return values, nil
}
