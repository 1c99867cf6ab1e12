// Command kvbench measures write, read and range throughput of a node.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	apihttp "tuplekv/internal/http"
)

type BenchmarkResult struct {
	TotalOps      int
	SuccessfulOps int
	FailedOps     int
	Duration      time.Duration
	OpsPerSec     float64
	AvgLatency    time.Duration
	MinLatency    time.Duration
	MaxLatency    time.Duration
}

// op runs operation i and reports success.
type op func(ctx context.Context, i int) bool

func main() {
	addr := flag.String("addr", "http://localhost:8080", "node base URL")
	ops := flag.Int("ops", 1000, "operations per test")
	concurrency := flag.Int("c", 10, "concurrent workers")
	flag.Parse()

	c := apihttp.NewClient(*addr)
	ctx := context.Background()

	fmt.Println("=== tuplekv Benchmark ===")
	fmt.Printf("Target: %s\n\n", *addr)

	if err := c.Health(ctx); err != nil {
		fmt.Printf("ERROR: node %s is not available: %v\n", *addr, err)
		os.Exit(1)
	}

	write := func(ctx context.Context, i int) bool {
		v := json.RawMessage(strconv.Itoa(i))
		return c.Put(ctx, benchKey(i), v) == nil
	}
	read := func(ctx context.Context, i int) bool {
		_, found, err := c.Get(ctx, benchKey(i))
		return err == nil && found
	}
	scan := func(ctx context.Context, i int) bool {
		from := i % max(*ops-10, 1)
		_, err := c.List(ctx, "", benchKey(from), benchKey(from+10))
		return err == nil
	}

	fmt.Printf("Test 1: Sequential Writes (%d operations)\n", *ops)
	printResult(run(ctx, write, *ops, 1))

	fmt.Printf("\nTest 2: Sequential Reads (%d operations)\n", *ops)
	printResult(run(ctx, read, *ops, 1))

	fmt.Printf("\nTest 3: Concurrent Writes (%d operations, %d workers)\n", *ops, *concurrency)
	printResult(run(ctx, write, *ops, *concurrency))

	fmt.Printf("\nTest 4: Concurrent Reads (%d operations, %d workers)\n", *ops, *concurrency)
	printResult(run(ctx, read, *ops, *concurrency))

	fmt.Printf("\nTest 5: Range Scans of 10 keys (%d operations, %d workers)\n", *ops, *concurrency)
	printResult(run(ctx, scan, *ops, *concurrency))

	fmt.Println("\n=== Benchmark Complete ===")
}

func benchKey(i int) string {
	return "bench:" + strconv.Itoa(i)
}

// run spreads totalOps indexes over concurrency workers.
func run(ctx context.Context, fn op, totalOps, concurrency int) BenchmarkResult {
	if concurrency < 1 {
		concurrency = 1
	}
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successful int
		latencies  = make([]time.Duration, 0, totalOps)
		next       = make(chan int)
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				opStart := time.Now()
				ok := fn(ctx, i)
				latency := time.Since(opStart)

				mu.Lock()
				if ok {
					successful++
				}
				latencies = append(latencies, latency)
				mu.Unlock()
			}
		}()
	}
	for i := 0; i < totalOps; i++ {
		next <- i
	}
	close(next)
	wg.Wait()

	return summarize(totalOps, successful, time.Since(start), latencies)
}

func summarize(totalOps, successful int, duration time.Duration, latencies []time.Duration) BenchmarkResult {
	res := BenchmarkResult{
		TotalOps:      totalOps,
		SuccessfulOps: successful,
		FailedOps:     totalOps - successful,
		Duration:      duration,
	}
	if len(latencies) == 0 {
		return res
	}

	var sum time.Duration
	res.MinLatency, res.MaxLatency = latencies[0], latencies[0]
	for _, lat := range latencies {
		res.MinLatency = min(res.MinLatency, lat)
		res.MaxLatency = max(res.MaxLatency, lat)
		sum += lat
	}
	res.AvgLatency = sum / time.Duration(len(latencies))
	if duration > 0 {
		res.OpsPerSec = float64(successful) / duration.Seconds()
	}
	return res
}

func printResult(result BenchmarkResult) {
	fmt.Printf("  Total Operations: %d\n", result.TotalOps)
	fmt.Printf("  Successful: %d\n", result.SuccessfulOps)
	fmt.Printf("  Failed: %d\n", result.FailedOps)
	fmt.Printf("  Duration: %v\n", result.Duration)
	fmt.Printf("  Operations/sec: %.2f\n", result.OpsPerSec)
	fmt.Printf("  Avg Latency: %v\n", result.AvgLatency)
	fmt.Printf("  Min Latency: %v\n", result.MinLatency)
	fmt.Printf("  Max Latency: %v\n", result.MaxLatency)
}
