package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 20
	testDuration = 10 * time.Second
)

var (
	roles  = []string{"mom", "dad", "daughter", "son"}
	themes = []string{"light", "dark", "pastel", "kids"}
	emojis = []string{"🍕", "🎮", "📚", "☕", "⚽", "🎨", "🚀", "🎸"}
)

var client = resty.New().
	SetBaseURL(baseURL).
	SetTimeout(5 * time.Second).
	SetHeader("Content-Type", "application/json")

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type button struct {
	ID string `json:"id"`
}

type machineView struct {
	Buttons []button `json:"buttons"`
}

type shareLink struct {
	URL string `json:"url"`
}

func main() {
	fmt.Println("=== Family Vending Machine Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		if _, err := client.R().Get("/state"); err == nil {
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Editing (add, update, delete buttons) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.45:
			return doAdd(rng)
		case r < 0.65:
			return doUpdate(rng)
		case r < 0.90:
			return doDelete(rng)
		default:
			return doTheme(rng)
		}
	})

	fmt.Println("\n--- Phase 2: Sharing (70% decode, 30% encode) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.30 {
			return doShare()
		}
		return doDecode()
	})

	fmt.Println("\n--- Phase 3: Read-heavy (10% edits, 90% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doAdd(rng)
		case r < 0.60:
			return doState()
		case r < 0.80:
			return doMachine(rng)
		default:
			return doStorage()
		}
	})

	resp, err := client.R().Post("/save")
	switch {
	case err != nil:
		fmt.Printf("\nFinal save failed: %v\n", err)
	case resp.StatusCode() != http.StatusNoContent:
		fmt.Printf("\nFinal save failed: %d %s\n", resp.StatusCode(), resp.String())
	}
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-34s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 100))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-34s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 100))
	if totalOps == 0 {
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

// measure runs req and treats any status outside ok as an error.
func measure(endpoint string, req func() (*resty.Response, error), ok ...int) result {
	start := time.Now()
	resp, err := req()
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	for _, code := range ok {
		if resp.StatusCode() == code {
			return result{endpoint, resp.StatusCode(), lat, false}
		}
	}
	return result{endpoint, resp.StatusCode(), lat, true}
}

func randomButton(rng *rand.Rand, role string) (string, bool) {
	var view machineView
	if _, err := client.R().SetResult(&view).Get("/machines/" + role); err != nil || len(view.Buttons) == 0 {
		return "", false
	}
	return view.Buttons[rng.Intn(len(view.Buttons))].ID, true
}

func doAdd(rng *rand.Rand) result {
	role := roles[rng.Intn(len(roles))]
	body := map[string]string{
		"emoji": emojis[rng.Intn(len(emojis))],
		"text":  fmt.Sprintf("item %d", rng.Intn(1000)),
	}
	// 409 is expected once a machine is full.
	return measure("POST /machines/{role}/buttons", func() (*resty.Response, error) {
		return client.R().SetBody(body).Post("/machines/" + role + "/buttons")
	}, http.StatusCreated, http.StatusConflict)
}

func doUpdate(rng *rand.Rand) result {
	role := roles[rng.Intn(len(roles))]
	id, ok := randomButton(rng, role)
	if !ok {
		return doAdd(rng)
	}
	body := map[string]string{"text": fmt.Sprintf("upd %d", rng.Intn(1000))}
	// 404 when another worker deleted the button first.
	return measure("PATCH /machines/{role}/buttons/{id}", func() (*resty.Response, error) {
		return client.R().SetBody(body).Patch("/machines/" + role + "/buttons/" + id)
	}, http.StatusOK, http.StatusNotFound)
}

func doDelete(rng *rand.Rand) result {
	role := roles[rng.Intn(len(roles))]
	id, ok := randomButton(rng, role)
	if !ok {
		return doAdd(rng)
	}
	return measure("DELETE /machines/{role}/buttons/{id}", func() (*resty.Response, error) {
		return client.R().Delete("/machines/" + role + "/buttons/" + id)
	}, http.StatusNoContent, http.StatusNotFound)
}

func doTheme(rng *rand.Rand) result {
	body := map[string]string{"theme": themes[rng.Intn(len(themes))]}
	return measure("PUT /theme", func() (*resty.Response, error) {
		return client.R().SetBody(body).Put("/theme")
	}, http.StatusOK)
}

func doShare() result {
	return measure("GET /share", func() (*resty.Response, error) {
		return client.R().Get("/share")
	}, http.StatusOK, http.StatusConflict)
}

func doDecode() result {
	var link shareLink
	if resp, err := client.R().SetResult(&link).Get("/share"); err != nil || resp.StatusCode() != http.StatusOK {
		return result{"GET /shared", 0, 0, true}
	}
	u, err := url.Parse(link.URL)
	if err != nil {
		return result{"GET /shared", 0, 0, true}
	}
	return measure("GET /shared", func() (*resty.Response, error) {
		return client.R().SetQueryString(u.RawQuery).Get("/shared")
	}, http.StatusOK)
}

func doState() result {
	return measure("GET /state", func() (*resty.Response, error) {
		return client.R().Get("/state")
	}, http.StatusOK)
}

func doMachine(rng *rand.Rand) result {
	role := roles[rng.Intn(len(roles))]
	return measure("GET /machines/{role}", func() (*resty.Response, error) {
		return client.R().Get("/machines/" + role)
	}, http.StatusOK)
}

func doStorage() result {
	return measure("GET /storage", func() (*resty.Response, error) {
		return client.R().Get("/storage")
	}, http.StatusOK)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
