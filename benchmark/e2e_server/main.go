// Graft roundtrip benchmark page.
//
// Serves a counter wired through the real event pipeline and a page
// script that measures click-to-DOM-update latency in the browser:
// the click timestamp is taken in a capturing listener, the update is
// observed with a MutationObserver on the counter element, and the
// difference is the full roundtrip including both socket hops.
//
// Run and open http://localhost:8766:
//
//	go run ./benchmark/e2e_server
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/graft-dev/graft"
	. "github.com/graft-dev/graft/el"
	"github.com/graft-dev/graft/pkg/server"
)

func main() {
	addr := flag.String("addr", ":8766", "listen address")
	flag.Parse()

	srv := server.New(&server.Config{
		Address:     *addr,
		CheckOrigin: func(*http.Request) bool { return true },
	})
	srv.SetRoot("bench", benchRoot)
	srv.SetPage(graft.PageData{
		Title:   "Graft roundtrip benchmark",
		Styles:  []string{benchCSS},
		Scripts: []graft.ScriptTag{{Inline: measureJS}},
	})

	log.Printf("benchmark page on %s", *addr)
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}

// benchRoot is the measured application. The page script owns its own
// results panel outside this tree, so patches and script DOM never
// touch the same nodes.
func benchRoot(ctx *graft.Ctx) *graft.VNode {
	count, setCount := graft.UseState(ctx, 0)

	return Div(Class("bench"),
		H1(Text("Graft roundtrip benchmark")),
		P(Class("bench-sub"),
			Text("Each click travels over WebSocket, runs a handler on the "+
				"server, and comes back as a binary patch.")),
		Div(Class("bench-count"), Textf("%d", count)),
		Div(Class("bench-actions"),
			Button(Class("bench-step"), OnClick(func() { setCount(count + 1) }), Text("Increment")),
			Button(Class("bench-reset"), OnClick(func() { setCount(0) }), Text("Reset")),
		),
	)
}

const benchCSS = `
body { font-family: system-ui, sans-serif; max-width: 820px; margin: 0 auto; padding: 2rem; background: #14141f; color: #e8e8ef; }
h1 { color: #7ce0b8; margin-bottom: 0.25rem; }
.bench-sub { color: #8a8a9a; margin-bottom: 2rem; }
.bench-count { font-size: 4rem; font-weight: 700; color: #7ce0b8; text-align: center; padding: 1.5rem; background: #1d2540; border-radius: 10px; margin-bottom: 1rem; font-variant-numeric: tabular-nums; }
.bench-actions button { border: none; border-radius: 8px; padding: 0.7rem 1.4rem; margin-right: 0.5rem; font-weight: 600; cursor: pointer; }
.bench-step { background: #7ce0b8; color: #0c0c14; }
.bench-reset { background: #3c4258; color: #e8e8ef; }
.bench-panel { background: #1b1b29; border-radius: 10px; padding: 1.25rem; margin-top: 1.5rem; }
.bench-panel h3 { margin-top: 0; color: #7ce0b8; }
.bench-panel table { width: 100%; border-collapse: collapse; }
.bench-panel th, .bench-panel td { text-align: left; padding: 0.4rem; border-bottom: 1px solid #2c2c3c; }
.bench-status { color: #8a8a9a; font-size: 0.9rem; margin-bottom: 0.75rem; }
.bench-ok { color: #34d08c; }
.bench-slow { color: #e2b93d; }
.bench-log { max-height: 160px; overflow-y: auto; font-size: 0.8rem; color: #8a8a9a; margin-top: 0.75rem; }
`

// measureJS runs in the page. It records a timestamp when a bench
// button is clicked, observes the counter element for the resulting
// mutation, and keeps percentile stats in a panel it appends outside
// the application tree.
const measureJS = `
document.addEventListener("DOMContentLoaded", function () {
  var TARGET_MS = 50;
  var samples = [];
  var pending = null;

  var panel = document.createElement("div");
  panel.className = "bench-panel";
  panel.innerHTML =
    '<h3>Latency</h3>' +
    '<div class="bench-status">waiting for the first roundtrip…</div>' +
    '<button class="bench-burst" data-n="10">Burst 10</button> ' +
    '<button class="bench-burst" data-n="50">Burst 50</button> ' +
    '<button class="bench-clear">Clear</button>' +
    '<table><tbody></tbody></table>' +
    '<div class="bench-log"></div>';
  document.body.appendChild(panel);

  var status = panel.querySelector(".bench-status");
  var tbody = panel.querySelector("tbody");
  var logEl = panel.querySelector(".bench-log");

  document.addEventListener("click", function (e) {
    if (e.target.closest(".bench-step, .bench-reset")) {
      pending = performance.now();
    }
  }, true);

  var counter = document.querySelector(".bench-count");
  new MutationObserver(function () {
    if (pending === null) return;
    var rtt = performance.now() - pending;
    pending = null;
    record(rtt);
  }).observe(counter, { childList: true, characterData: true, subtree: true });

  function record(rtt) {
    samples.push(rtt);
    status.textContent = "live — " + samples.length + " samples";
    var cls = rtt <= TARGET_MS ? "bench-ok" : "bench-slow";
    logEl.innerHTML += '<span class="' + cls + '">' + rtt.toFixed(2) + " ms</span><br>";
    logEl.scrollTop = logEl.scrollHeight;
    renderStats();
  }

  function renderStats() {
    var sorted = samples.slice().sort(function (a, b) { return a - b; });
    function pct(p) { return sorted[Math.min(sorted.length - 1, Math.floor(sorted.length * p))]; }
    var rows = [
      ["min", sorted[0]],
      ["p50", pct(0.5)],
      ["p95", pct(0.95)],
      ["p99", pct(0.99)],
      ["max", sorted[sorted.length - 1]],
    ];
    tbody.innerHTML = rows.map(function (r) {
      var cls = r[1] <= TARGET_MS ? "bench-ok" : "bench-slow";
      return "<tr><td>" + r[0] + '</td><td class="' + cls + '">' + r[1].toFixed(2) + " ms</td></tr>";
    }).join("");
  }

  panel.addEventListener("click", function (e) {
    if (e.target.classList.contains("bench-clear")) {
      samples = [];
      tbody.innerHTML = "";
      logEl.innerHTML = "";
      status.textContent = "cleared";
      return;
    }
    var burst = e.target.closest(".bench-burst");
    if (!burst) return;
    var n = parseInt(burst.dataset.n, 10);
    var btn = document.querySelector(".bench-step");
    (function fire(i) {
      if (i >= n || !btn) return;
      btn.click();
      setTimeout(function () { fire(i + 1); }, 100);
    })(0);
  });
});
`
