// Graft end-to-end load benchmark.
//
// Answers the questions that matter before putting sessions on one box:
// what is the p50/p95/p99 event roundtrip under concurrent load, and
// how much allocation and GC work does that load generate?
//
// It starts a real server on a loopback listener and drives N
// concurrent WebSocket clients speaking the binary protocol: framed
// handshake, then input events that each carry a unique token. A
// client considers the roundtrip complete when a patch frame echoes
// its token back, so the measured time covers decode, dispatch,
// render, diff, patch encode, and both socket hops.
//
// Run:
//
//	go run ./benchmark/e2e_load -clients=200 -duration=30s -rps=5 -list=50
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"net"
	"net/http"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/graft-dev/graft"
	. "github.com/graft-dev/graft/el"
	"github.com/graft-dev/graft/pkg/protocol"
	"github.com/graft-dev/graft/pkg/server"
)

func main() {
	var (
		clients      = flag.Int("clients", 100, "number of concurrent websocket clients")
		duration     = flag.Duration("duration", 15*time.Second, "how long to run the load")
		rps          = flag.Float64("rps", 2, "target events/sec per client (best-effort, response-gated)")
		listSize     = flag.Int("list", 50, "list items rendered per session (render/diff cost)")
		payloadBytes = flag.Int("payload-bytes", 24, "token bytes per event (event/patch size)")
	)
	flag.Parse()

	if *clients <= 0 || *duration <= 0 || *rps <= 0 {
		log.Fatal("-clients, -duration and -rps must be positive")
	}
	if *listSize < 0 || *payloadBytes < 0 {
		log.Fatal("-list and -payload-bytes must be >= 0")
	}

	// Pin the collector's aggressiveness so runs compare.
	debug.SetGCPercent(100)

	srv := server.New(&server.Config{
		Address:     "127.0.0.1:0",
		CheckOrigin: func(*http.Request) bool { return true },
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	srv.SetRoot("load", loadRoot(*listSize))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	httpServer := &http.Server{Handler: srv.Handler()}
	go func() { _ = httpServer.Serve(ln) }()
	defer func() {
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutCtx)
		_ = srv.Shutdown(shutCtx)
	}()

	wsURL := "ws://" + ln.Addr().String() + "/graft/live"

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	samplesCh := make(chan time.Duration, 1024)
	var (
		samplesMu sync.Mutex
		samples   []time.Duration
	)
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for rtt := range samplesCh {
			samplesMu.Lock()
			samples = append(samples, rtt)
			samplesMu.Unlock()
		}
	}()

	var totalEvents, totalErrors atomic.Uint64

	var before runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	gcBefore := readGC()

	var wg sync.WaitGroup
	wg.Add(*clients)
	for i := 0; i < *clients; i++ {
		id := i
		go func() {
			defer wg.Done()
			if err := runClient(ctx, wsURL, id, *rps, *payloadBytes, samplesCh, &totalEvents); err != nil {
				totalErrors.Add(1)
			}
		}()
	}
	wg.Wait()
	close(samplesCh)
	<-collectorDone

	var after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&after)
	gcAfter := readGC()

	samplesMu.Lock()
	latencies := append([]time.Duration(nil), samples...)
	samplesMu.Unlock()
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	total := totalEvents.Load()
	seconds := math.Max(0.001, duration.Seconds())

	fmt.Println("=== Graft E2E Load ===")
	fmt.Printf("clients:       %d\n", *clients)
	fmt.Printf("duration:      %s\n", duration.String())
	fmt.Printf("per-client:    %.2f events/s target\n", *rps)
	fmt.Printf("list size:     %d\n", *listSize)
	fmt.Printf("payload bytes: %d\n", *payloadBytes)
	fmt.Printf("total events:  %d\n", total)
	fmt.Printf("errors:        %d\n", totalErrors.Load())
	fmt.Printf("throughput:    %.1f events/s\n", float64(total)/seconds)
	fmt.Println()

	if len(latencies) == 0 {
		fmt.Println("no samples recorded")
		return
	}
	fmt.Println("roundtrip (event write -> patch decoded):")
	fmt.Printf("  min: %s\n", latencies[0])
	fmt.Printf("  p50: %s\n", percentile(latencies, 0.50))
	fmt.Printf("  p95: %s\n", percentile(latencies, 0.95))
	fmt.Printf("  p99: %s\n", percentile(latencies, 0.99))
	fmt.Printf("  max: %s\n", latencies[len(latencies)-1])
	fmt.Println()

	gcs := after.NumGC - before.NumGC
	fmt.Println("runtime (process-wide):")
	fmt.Printf("  alloc:    %.2f MB\n", float64(after.TotalAlloc-before.TotalAlloc)/(1024*1024))
	fmt.Printf("  heap:     %.2f MB live\n", float64(after.HeapAlloc)/(1024*1024))
	fmt.Printf("  gc runs:  %d\n", gcs)
	fmt.Printf("  gc pause: %s total\n", time.Duration(after.PauseTotalNs-before.PauseTotalNs))
	fmt.Printf("  gc cpu:   %.2f%%\n", 100*gcCPUFraction(gcBefore, gcAfter))
	fmt.Printf("  objects:  %.2f M allocated\n", float64(gcAfter.allocObjects-gcBefore.allocObjects)/1e6)
}

// loadRoot builds a producer that is small but not trivial: an input
// whose handler echoes into a span (for client correlation) and a list
// that rewrites on every event (for render and diff cost). The input
// is the root's first child, so clients can target path [0] without
// parsing the tree.
func loadRoot(listSize int) graft.RenderFunc {
	return func(ctx *graft.Ctx) *graft.VNode {
		echo, setEcho := graft.UseState(ctx, "")

		return Div(
			Input(Type("text"), OnInput(func(e graft.Event) { setEcho(e.Value) })),
			Span(Text(echo)),
			Ul(Repeat(listSize, func(i int) *graft.VNode {
				return Li(Textf("%s #%d", echo, i))
			})),
		)
	}
}

// runClient drives one session: handshake, then response-gated events
// until the context expires. Pacing sleeps only after the response, so
// queueing shows up in the tail instead of being hidden by overlap.
func runClient(ctx context.Context, wsURL string, id int, rps float64, payloadBytes int, samples chan<- time.Duration, totalEvents *atomic.Uint64) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// A wedged session should fail the client, not stall the run.
	if dl, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(dl.Add(2 * time.Second))
	}

	if err := handshake(conn); err != nil {
		return err
	}

	// The input element is the first child of the mounted root.
	inputPath := protocol.Path{0}

	period := time.Duration(float64(time.Second) / rps)
	var seq uint64

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		seq++
		token := makeToken(id, seq, payloadBytes)
		start := time.Now()

		ev := &protocol.Event{
			Seq:     seq,
			Type:    protocol.EventInput,
			Path:    inputPath,
			Payload: token,
		}
		frame := protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(ev))
		if err := conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
			return fmt.Errorf("event write: %w", err)
		}

		if err := waitForEcho(ctx, conn, token); err != nil {
			return fmt.Errorf("seq %d: %w", seq, err)
		}

		totalEvents.Add(1)
		samples <- time.Since(start)

		if sleep := period - time.Since(start); sleep > 0 {
			timer := time.NewTimer(sleep)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	}
}

// handshake sends the client hello and checks the server's answer.
func handshake(conn *websocket.Conn) error {
	hello := protocol.NewClientHello("", 0)
	frame := protocol.NewFrame(protocol.FrameHandshake, protocol.EncodeClientHello(hello))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
		return fmt.Errorf("hello write: %w", err)
	}

	_, msg, err := conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("hello read: %w", err)
	}
	reply, err := protocol.DecodeFrame(msg)
	if err != nil {
		return fmt.Errorf("hello decode: %w", err)
	}
	if reply.Type != protocol.FrameHandshake {
		return fmt.Errorf("expected handshake frame, got %v", reply.Type)
	}
	sh, err := protocol.DecodeServerHello(reply.Payload)
	if err != nil {
		return fmt.Errorf("server hello decode: %w", err)
	}
	if sh.Status != protocol.HandshakeOK {
		return fmt.Errorf("handshake rejected: %v", sh.Status)
	}
	return nil
}

// waitForEcho reads frames until a patch carries the token, either as
// text content or as the input's value property. Control frames (the
// initial resync, heartbeat pings) are skipped.
func waitForEcho(ctx context.Context, conn *websocket.Conn, token string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			return err
		}

		switch frame.Type {
		case protocol.FramePatches:
			pf, err := protocol.DecodePatches(frame.Payload)
			if err != nil {
				return err
			}
			for i := range pf.Patches {
				p := &pf.Patches[i]
				if p.Value != token {
					continue
				}
				if p.Op == protocol.PatchText || p.Op == protocol.PatchSetProp {
					return nil
				}
			}

		case protocol.FrameError:
			em, err := protocol.DecodeErrorMessage(frame.Payload)
			if err != nil {
				return fmt.Errorf("error frame: %w", err)
			}
			return fmt.Errorf("server error: %s", em.Error())

		default:
			// Handshake replays, control, acks: not ours.
		}
	}
}

// makeToken builds an event payload of the requested size. The
// client:seq prefix keeps tokens unique and debuggable; random hex
// padding fills the rest.
func makeToken(id int, seq uint64, size int) string {
	prefix := fmt.Sprintf("c%d:%d:", id, seq)
	if size <= len(prefix) {
		return prefix[:size]
	}
	raw := make([]byte, (size-len(prefix)+1)/2)
	_, _ = rand.Read(raw)
	suffix := hex.EncodeToString(raw)
	if len(suffix) > size-len(prefix) {
		suffix = suffix[:size-len(prefix)]
	}
	return prefix + suffix
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// gcSnapshot captures the runtime/metrics counters the report derives
// GC cost from.
type gcSnapshot struct {
	cpuTotal     float64
	cpuGC        float64
	allocObjects uint64
}

func readGC() gcSnapshot {
	s := []metrics.Sample{
		{Name: "/cpu/classes/total:cpu-seconds"},
		{Name: "/cpu/classes/gc/total:cpu-seconds"},
		{Name: "/gc/heap/allocs:objects"},
	}
	metrics.Read(s)
	return gcSnapshot{
		cpuTotal:     s[0].Value.Float64(),
		cpuGC:        s[1].Value.Float64(),
		allocObjects: s[2].Value.Uint64(),
	}
}

func gcCPUFraction(before, after gcSnapshot) float64 {
	total := after.cpuTotal - before.cpuTotal
	if total <= 0 {
		return 0
	}
	gc := after.cpuGC - before.cpuGC
	if gc < 0 {
		return 0
	}
	return gc / total
}
