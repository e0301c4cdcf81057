// Command fiberdemo runs the scheduler's end-to-end scenarios as
// selectable subcommands, the way the teacher's own main.go drives a
// single class file through a set of -flag toggles.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/coro-rt/fiber"
)

func main() {
	showStats := flag.Bool("stats", false, "print scheduler stats after the run")
	workers := flag.Int("workers", 0, "override worker pool size (0 = GOMAXPROCS-1)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	if *workers > 0 {
		fiber.Configure(fiber.WithWorkers(*workers))
	}

	scenario, ok := scenarios[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n\n", args[0])
		usage()
		os.Exit(1)
	}

	fmt.Printf("running scenario: %s\n", args[0])
	scenario()
	fmt.Println("scenario completed")
	defer fiber.Shutdown()

	if *showStats {
		s := fiber.Stats()
		fmt.Println("---")
		fmt.Printf("live fibers:      %d\n", s.LiveFibers)
		fmt.Printf("created:          %d\n", s.FibersCreated)
		fmt.Printf("completed:        %d\n", s.FibersCompleted)
		fmt.Printf("context switches: %d\n", s.ContextSwitches)
		fmt.Printf("yields:           %d\n", s.Yields)
		fmt.Printf("workers:          %d\n", s.Workers)
	}
}

func usage() {
	fmt.Println("Usage: fiberdemo [-stats] [-workers N] <scenario>")
	fmt.Println()
	fmt.Println("Scenarios:")
	fmt.Println("  s1           basic yield round-trip (two fibers, three iterations each)")
	fmt.Println("  s2           recursive spawn chain, depth 100")
	fmt.Println("  s3           layered join-chain DAG (10 layers x 1000 fibers)")
	fmt.Println("  s4           ping-pong, 5,000,000 handoffs via yield")
	fmt.Println("  s5           stress: 10,000 fibers, deterministic checksum workload")
	fmt.Println("  s6           main-thread join interleave, fast and slow paths")
	fmt.Println("  producer-consumer  bounded queue fed by two producers, drained by two consumers")
	fmt.Println("  sem          semaphore mutual exclusion over a shared counter")
}

var scenarios = map[string]func(){
	"s1":                 scenarioBasicYieldRoundTrip,
	"s2":                 scenarioRecursiveSpawnChain,
	"s3":                 scenarioJoinChainDAG,
	"s4":                 scenarioPingPong,
	"s5":                 scenarioStress,
	"s6":                 scenarioMainJoinInterleave,
	"producer-consumer":  scenarioProducerConsumer,
	"sem":                scenarioSemaphore,
}

func scenarioBasicYieldRoundTrip() {
	var wg sync.WaitGroup
	wg.Add(2)
	run := func(id int) {
		defer wg.Done()
		for i := 0; i < 3; i++ {
			fmt.Printf("fiber %d: iteration %d\n", id, i)
			fiber.Yield()
		}
	}
	h1 := fiber.Spawn("s1-a", func(arg any) { run(1) }, nil)
	h2 := fiber.Spawn("s1-b", func(arg any) { run(2) }, nil)
	fiber.Yield()
	fiber.Join(h1)
	fiber.Join(h2)
}

func scenarioRecursiveSpawnChain() {
	const depth = 100
	var spawnAtDepth func(d int) fiber.Handle
	spawnAtDepth = func(d int) fiber.Handle {
		return fiber.Spawn("chain", func(arg any) {
			if d > 0 {
				child := spawnAtDepth(d - 1)
				fiber.Join(child)
			}
		}, nil)
	}
	fiber.Join(spawnAtDepth(depth))
}

func scenarioJoinChainDAG() {
	const layers = 10
	const perLayer = 1000
	handles := make([][]fiber.Handle, layers)
	var ran [layers][perLayer]bool
	var mu sync.Mutex

	for l := 0; l < layers; l++ {
		handles[l] = make([]fiber.Handle, perLayer)
		for i := 0; i < perLayer; i++ {
			l, i := l, i
			handles[l][i] = fiber.Spawn("dag", func(arg any) {
				if l > 0 {
					for _, dep := range handles[l-1] {
						fiber.Join(dep)
					}
				}
				mu.Lock()
				ran[l][i] = true
				mu.Unlock()
			}, nil)
		}
	}
	for _, h := range handles[layers-1] {
		fiber.Join(h)
	}
}

func scenarioPingPong() {
	const rounds = 5_000_000
	turn := 0
	done := make(chan struct{}, 2)
	h1 := fiber.Spawn("ping", func(arg any) {
		for i := 0; i < rounds; i++ {
			for turn != 0 {
				fiber.Yield()
			}
			turn = 1
		}
		done <- struct{}{}
	}, nil)
	h2 := fiber.Spawn("pong", func(arg any) {
		for i := 0; i < rounds; i++ {
			for turn != 1 {
				fiber.Yield()
			}
			turn = 0
		}
		done <- struct{}{}
	}, nil)
	fiber.Join(h1)
	fiber.Join(h2)
	<-done
	<-done
}

func workChecksum(n int) uint64 {
	var sum uint64
	for i := 1; i <= n; i++ {
		sum += uint64(i) * uint64(i) * uint64(i)
	}
	return sum
}

func scenarioStress() {
	const n = 10_000
	handles := make([]fiber.Handle, n)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		work := 1_000 + rng.Intn(500_000-1_000)
		expected := workChecksum(work)
		handles[i] = fiber.Spawn("stress", func(arg any) {
			got := uint64(0)
			for done := 0; done < work; {
				step := work - done
				if step > 5000 {
					step = 5000
				}
				for j := 1; j <= step; j++ {
					v := uint64(done + j)
					got += v * v * v
				}
				done += step
				fiber.Yield()
			}
			if got != expected {
				panic(fmt.Sprintf("checksum mismatch: got %d want %d", got, expected))
			}
		}, nil)
	}
	for _, h := range handles {
		fiber.Join(h)
	}
}

func scenarioMainJoinInterleave() {
	const n = 200
	handles := make([]fiber.Handle, n)
	for i := 0; i < n; i++ {
		i := i
		handles[i] = fiber.Spawn("interleave", func(arg any) {
			if i%2 == 0 {
				// finishes immediately: main will likely observe DEAD.
				return
			}
			// yields first, so main is more likely to park via condvar.
			fiber.Yield()
			fiber.Yield()
		}, nil)
	}
	for _, h := range handles {
		fiber.Join(h)
	}
}

// boundedQueue is the external collaborator the producer-consumer
// scenario supplies itself, built with a mutex and Yield exactly as
// _examples/original_source/tests/producer-consumer.c spins on its own
// condition instead of calling into the scheduler for anything beyond
// yield.
type boundedQueue struct {
	mu       sync.Mutex
	buf      []int
	capacity int
}

func (q *boundedQueue) push(v int) {
	for {
		q.mu.Lock()
		if len(q.buf) < q.capacity {
			q.buf = append(q.buf, v)
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()
		fiber.Yield()
	}
}

func (q *boundedQueue) pop() (int, bool) {
	q.mu.Lock()
	if len(q.buf) > 0 {
		v := q.buf[0]
		q.buf = q.buf[1:]
		q.mu.Unlock()
		return v, true
	}
	q.mu.Unlock()
	fiber.Yield()
	return 0, false
}

func scenarioProducerConsumer() {
	const itemsPerProducer = 5000
	const producers = 2
	const consumers = 2

	q := &boundedQueue{capacity: 64}
	var produced, consumed int64
	var pmu, cmu sync.Mutex
	done := make(chan struct{}, producers)
	stop := make(chan struct{})

	producerHandles := make([]fiber.Handle, producers)
	for p := 0; p < producers; p++ {
		producerHandles[p] = fiber.Spawn("producer", func(arg any) {
			for i := 0; i < itemsPerProducer; i++ {
				q.push(i)
				pmu.Lock()
				produced++
				pmu.Unlock()
			}
			done <- struct{}{}
		}, nil)
	}
	consumerHandles := make([]fiber.Handle, consumers)
	for c := 0; c < consumers; c++ {
		consumerHandles[c] = fiber.Spawn("consumer", func(arg any) {
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, ok := q.pop(); ok {
					cmu.Lock()
					consumed++
					cmu.Unlock()
				}
			}
		}, nil)
	}

	for i := 0; i < producers; i++ {
		<-done
	}
	for consumed < int64(producers*itemsPerProducer) {
		fiber.Yield()
	}
	close(stop)

	for _, h := range producerHandles {
		fiber.Join(h)
	}
	for _, h := range consumerHandles {
		fiber.Join(h)
	}
}

func scenarioSemaphore() {
	const workers = 8
	const iterations = 1000
	sem := fiber.NewSemaphore(1)
	shared := 0
	handles := make([]fiber.Handle, workers)
	for i := 0; i < workers; i++ {
		handles[i] = fiber.Spawn("sem-worker", func(arg any) {
			for j := 0; j < iterations; j++ {
				sem.Down()
				shared++
				fiber.Yield()
				sem.Up()
			}
		}, nil)
	}
	for _, h := range handles {
		fiber.Join(h)
	}
	if shared != workers*iterations {
		panic(fmt.Sprintf("semaphore did not serialize updates: got %d want %d", shared, workers*iterations))
	}
}
