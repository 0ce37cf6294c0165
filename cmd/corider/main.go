// Command corider is the reference CLI for the route-curvature engine:
// analyze a route file into classified segments, replay a recorded
// drive through the online map matcher and narration scheduler, or
// batch-process a directory of route files across a worker pool.
//
// Grounded on the teacher's cmd/main.go: a flat urfave/cli/v2 app with
// one Command per mode, each Action a thin wrapper around a package
// function, plain log.Println progress lines, and a pond pool for the
// batch case.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	core "github.com/mhathiyari/curve-call-sub001"
	"github.com/mhathiyari/curve-call-sub001/analyze"
	"github.com/mhathiyari/curve-call-sub001/corlog"
	"github.com/mhathiyari/curve-call-sub001/geo"
	"github.com/mhathiyari/curve-call-sub001/match"
	"github.com/mhathiyari/curve-call-sub001/narration"
	"github.com/mhathiyari/curve-call-sub001/narration/testutil"
	"github.com/mhathiyari/curve-call-sub001/segment"
)

var log = corlog.Default

func modeFromFlag(name string) core.Mode {
	if name == "motorcycle" {
		return core.ModeMotorcycle
	}
	return core.ModeCar
}

// readRoute decodes a JSON array of {"lat":...,"lon":...} points.
func readRoute(path string) ([]geo.Point, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var points []geo.Point
	if err := json.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return points, nil
}

func writeJSON(path string, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

func runAnalyze(cCtx *cli.Context) error {
	routeURI := cCtx.String("route-uri")
	outURI := cCtx.String("out-uri")
	mode := modeFromFlag(cCtx.String("mode"))

	log.Infof("Reading route: %s", routeURI)
	points, err := readRoute(routeURI)
	if err != nil {
		return err
	}

	cfg := core.DefaultAnalysisConfig()
	cfg.IsMotorcycleMode = mode == core.ModeMotorcycle
	if g := cCtx.Float64("lateral-g"); g > 0 {
		cfg.LateralG = g
	}

	log.Infof("Analyzing %d points", len(points))
	result, err := analyze.Analyze(points, cfg)
	if err != nil {
		return err
	}

	log.Infof("Classified %d segments; writing %s", len(result.Segments), outURI)
	return writeJSON(outURI, result.Segments)
}

func runBatch(cCtx *cli.Context) error {
	dirURI := cCtx.String("dir-uri")
	outURI := cCtx.String("out-uri")
	mode := modeFromFlag(cCtx.String("mode"))

	entries, err := os.ReadDir(dirURI)
	if err != nil {
		return err
	}

	log.Infof("Searching directory: %s", dirURI)
	var routes [][]geo.Point
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := dirURI + "/" + e.Name()
		points, err := readRoute(path)
		if err != nil {
			log.Warnf("skipping %s: %v", path, err)
			continue
		}
		routes = append(routes, points)
		names = append(names, e.Name())
	}
	log.Infof("Number of routes to process: %d", len(routes))

	cfg := core.DefaultAnalysisConfig()
	cfg.IsMotorcycleMode = mode == core.ModeMotorcycle

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Infof("Starting pool with %d workers", runtime.NumCPU()*2)
	results := analyze.AnalyzeBatch(ctx, routes, cfg)

	type batchEntry struct {
		Name     string                  `json:"name"`
		Error    string                  `json:"error,omitempty"`
		Segments []segment.RouteSegment  `json:"segments,omitempty"`
	}
	out := make([]batchEntry, 0, len(results))
	for i, r := range results {
		entry := batchEntry{Name: names[i]}
		if r.Err != nil {
			entry.Error = r.Err.Error()
			log.Errorf("%s: %v", names[i], r.Err)
		} else {
			entry.Segments = r.Result.Segments
		}
		out = append(out, entry)
	}

	log.Infof("Finished batch; writing %s", outURI)
	return writeJSON(outURI, out)
}

// replaySink prints every spoken narration line to stdout, the way a
// speech synthesizer's console fallback would.
type replaySink struct{}

func (replaySink) Speak(e narration.Event)     { fmt.Printf("[SPEAK] %s\n", e.Text) }
func (replaySink) Interrupt(e narration.Event) { fmt.Printf("[CUT]   %s\n", e.Text) }

func runReplay(cCtx *cli.Context) error {
	routeURI := cCtx.String("route-uri")
	mode := modeFromFlag(cCtx.String("mode"))
	speedMS := cCtx.Float64("speed-ms")
	stepM := cCtx.Float64("step-m")
	if stepM <= 0 {
		stepM = 20
	}
	if speedMS <= 0 {
		speedMS = 20
	}

	log.Infof("Reading route: %s", routeURI)
	points, err := readRoute(routeURI)
	if err != nil {
		return err
	}

	cfg := core.DefaultAnalysisConfig()
	cfg.IsMotorcycleMode = mode == core.ModeMotorcycle

	log.Infof("Analyzing route before replay")
	result, err := analyze.Analyze(points, cfg)
	if err != nil {
		return err
	}

	matcher := match.NewMatcher(result.InterpolatedPoints)
	narrCfg := core.DefaultNarrationConfig(mode)
	sched := narration.NewScheduler(result.Segments, result.InterpolatedPoints, result.SparseRegions, narrCfg)
	sink := replaySink{}
	sched.SetSink(sink)
	sched.Start()

	fixes := replayFixes(result.InterpolatedPoints, stepM, speedMS)
	source := testutil.NewReplayGPSSource(fixes)

	log.Infof("Replaying %d fixes at %.1f m/s", len(fixes), speedMS)
	for {
		fix, ok := source.Next()
		if !ok {
			break
		}
		m := matcher.Match(fix.Point)
		sched.OnLocationUpdate(m.RouteProgressM, fix.SpeedMS, m.OffRoute)
		sched.OnNarrationComplete()
		time.Sleep(0)
	}

	sched.Stop()
	return nil
}

// replayFixes subsamples the interpolated polyline at roughly stepM
// intervals and pairs each sample with a constant speed, standing in
// for a recorded GPS track when the caller has no live source.
func replayFixes(points []geo.Point, stepM, speedMS float64) []testutil.GPSFix {
	if len(points) == 0 {
		return nil
	}

	fixes := make([]testutil.GPSFix, 0, len(points))
	fixes = append(fixes, testutil.GPSFix{Point: points[0], SpeedMS: speedMS})

	sinceLastFix := 0.0
	for i := 1; i < len(points); i++ {
		sinceLastFix += geo.Haversine(points[i-1], points[i])
		if sinceLastFix >= stepM {
			fixes = append(fixes, testutil.GPSFix{Point: points[i], SpeedMS: speedMS})
			sinceLastFix = 0
		}
	}
	return fixes
}

func main() {
	app := &cli.App{
		Name:  "corider",
		Usage: "offline route-curvature analysis and co-driver narration replay",
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "classify a route's curves and straights",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "route-uri", Usage: "Path to a JSON route file (array of {lat,lon})."},
					&cli.StringFlag{Name: "out-uri", Usage: "Path to write the classified segments."},
					&cli.StringFlag{Name: "mode", Value: "car", Usage: "car or motorcycle."},
					&cli.Float64Flag{Name: "lateral-g", Usage: "Override the lateral-g budget used by the speed advisor."},
				},
				Action: runAnalyze,
			},
			{
				Name:  "batch",
				Usage: "analyze every route file in a directory across a worker pool",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir-uri", Usage: "Directory containing JSON route files."},
					&cli.StringFlag{Name: "out-uri", Usage: "Path to write the combined batch result."},
					&cli.StringFlag{Name: "mode", Value: "car", Usage: "car or motorcycle."},
				},
				Action: runBatch,
			},
			{
				Name:  "replay",
				Usage: "analyze a route, then replay it through the matcher and narration scheduler",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "route-uri", Usage: "Path to a JSON route file (array of {lat,lon})."},
					&cli.StringFlag{Name: "mode", Value: "car", Usage: "car or motorcycle."},
					&cli.Float64Flag{Name: "speed-ms", Value: 20, Usage: "Constant replay speed, in meters per second."},
					&cli.Float64Flag{Name: "step-m", Value: 20, Usage: "Spacing between synthesized GPS fixes, in meters."},
				},
				Action: runReplay,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}
