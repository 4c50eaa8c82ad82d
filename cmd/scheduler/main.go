// Command scheduler runs the quicksort or Mandelbrot benchmark against the
// work-stealing scheduler, mirroring the original C project's CLI contract
// (-q|-m [-t threads] [-s]) per SPEC_FULL.md §12.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"

	"github.com/Mylloon/scheduler/internal/bmpimage"
	"github.com/Mylloon/scheduler/internal/digest"
	"github.com/Mylloon/scheduler/internal/reportx"
	"github.com/Mylloon/scheduler/workloads/mandelbrot"
	"github.com/Mylloon/scheduler/workloads/quicksort"
)

const usage = "Usage: %s -q|-m [-t threads] [-s] [-repeat N] [-verify] [-metrics-addr addr]\n"

func main() {
	quicksortFlag := flag.Bool("q", false, "run the quicksort benchmark")
	mandelbrotFlag := flag.Bool("m", false, "run the mandelbrot benchmark")
	serial := flag.Bool("s", false, "run serially instead of using the scheduler")
	nthreads := flag.Int("t", -1, "number of worker threads (0 = NumCPU)")
	repeat := flag.Int("repeat", 1, "number of times to repeat the run")
	parallelRuns := flag.Int("parallel-runs", 1, "maximum repeated runs executing concurrently")
	verify := flag.Bool("verify", false, "digest each run's output and fail if repeats disagree")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090)")
	flag.Parse()

	if *nthreads < 0 && !*serial {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}
	if *quicksortFlag == *mandelbrotFlag {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	reg := reportx.NewRegistry()
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, reg)
	}

	workload := "quicksort"
	if *mandelbrotFlag {
		workload = "mandelbrot"
	}

	sem := semaphore.NewWeighted(int64(*parallelRuns))
	ctx := context.Background()
	digests := make([]digest.Digest, *repeat)
	errs := make([]error, *repeat)
	done := make(chan int, *repeat)

	for i := 0; i < *repeat; i++ {
		i := i
		if err := sem.Acquire(ctx, 1); err != nil {
			fmt.Fprintf(os.Stderr, "acquire run slot: %v\n", err)
			os.Exit(1)
		}
		go func() {
			defer sem.Release(1)
			d, err := runOnce(workload, *serial, *nthreads, reg)
			digests[i] = d
			errs[i] = err
			done <- i
		}()
	}
	for i := 0; i < *repeat; i++ {
		<-done
	}

	for i, err := range errs {
		if err != nil {
			fmt.Fprintf(os.Stderr, "run %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	if *verify && *repeat > 1 {
		first := digests[0]
		for i, d := range digests[1:] {
			if d != first {
				fmt.Fprintf(os.Stderr, "verify: run %d digest %s does not match run 0 digest %s\n", i+1, d, first)
				os.Exit(1)
			}
		}
		slog.Info("verify: all runs produced identical output", slog.Int("repeat", *repeat))
	}

	fmt.Printf("Done.\n")
}

// runOnce executes a single timed run of the selected workload and returns
// a digest of its output for -verify.
func runOnce(workload string, serial bool, nthreads int, reg *reportx.Registry) (digest.Digest, error) {
	run := reportx.Start(workload)

	switch workload {
	case "quicksort":
		const n = 10_000_000
		a := quicksort.LCGInput(n, 1)
		if serial {
			quicksort.SerialSort(a)
		} else if err := quicksort.Sort(a, nthreads); err != nil {
			return digest.Digest{}, fmt.Errorf("quicksort: %w", err)
		}
		elapsed := run.Finish(reg, n)
		slog.Info("run finished", slog.String("run_id", run.ID.String()), slog.String("workload", workload), slog.Duration("elapsed", elapsed))
		return digest.Ints(a), nil

	case "mandelbrot":
		var img *mandelbrot.Image
		var err error
		if serial {
			img = mandelbrot.RenderSerial()
		} else if img, err = mandelbrot.Render(nthreads); err != nil {
			return digest.Digest{}, fmt.Errorf("mandelbrot: %w", err)
		}
		elapsed := run.Finish(reg, len(img.Pixels))
		slog.Info("run finished", slog.String("run_id", run.ID.String()), slog.String("workload", workload), slog.Duration("elapsed", elapsed))
		if err := bmpimage.Write("mandelbrot.bmp", img.Pixels, img.Width, img.Height); err != nil {
			slog.Warn("could not write mandelbrot.bmp", slog.Any("err", err))
		}
		return digest.Pixels(img.Pixels), nil

	default:
		return digest.Digest{}, fmt.Errorf("unknown workload %q", workload)
	}
}

func serveMetrics(addr string, reg *reportx.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics server stopped", slog.Any("err", err))
	}
}
