package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type LoadTestConfig struct {
	BaseURL             string
	ConcurrentTerminals int
	TestDurationSeconds int
	CreditRatio         float64
}

type TestResult struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64
	CheckoutsSubmitted int64
	CheckoutsRejected  int64
	ResponseTimes      []time.Duration
	Errors             map[string]int64
	mutex              sync.Mutex
}

type LoadTester struct {
	config *LoadTestConfig
	result *TestResult
	client *http.Client
}

type productView struct {
	ID            int64 `json:"id"`
	CanSellByPack bool  `json:"can_sell_by_pack"`
}

type sessionView struct {
	ID string `json:"id"`
}

type apiEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func NewLoadTester(config *LoadTestConfig) *LoadTester {
	return &LoadTester{
		config: config,
		result: &TestResult{
			ResponseTimes: make([]time.Duration, 0),
			Errors:        make(map[string]int64),
		},
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        1000,
				MaxIdleConnsPerHost: 100,
			},
		},
	}
}

func (lt *LoadTester) request(method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, lt.config.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := lt.client.Do(req)
	elapsed := time.Since(start)

	atomic.AddInt64(&lt.result.TotalRequests, 1)
	lt.result.mutex.Lock()
	lt.result.ResponseTimes = append(lt.result.ResponseTimes, elapsed)
	lt.result.mutex.Unlock()

	if err != nil {
		atomic.AddInt64(&lt.result.FailedRequests, 1)
		lt.recordError(err.Error())
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 500 {
		atomic.AddInt64(&lt.result.FailedRequests, 1)
		lt.recordError(fmt.Sprintf("HTTP %d %s %s", resp.StatusCode, method, path))
		return fmt.Errorf("http %d", resp.StatusCode)
	}

	atomic.AddInt64(&lt.result.SuccessfulRequests, 1)
	if out != nil {
		var envelope apiEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return err
		}
		return json.Unmarshal(envelope.Data, out)
	}
	return nil
}

func (lt *LoadTester) recordError(key string) {
	lt.result.mutex.Lock()
	lt.result.Errors[key]++
	lt.result.mutex.Unlock()
}

func (lt *LoadTester) loadProducts() ([]productView, error) {
	var products []productView
	if err := lt.request(http.MethodGet, "/api/v1/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// runTerminal simulates one cashier: open a session, ring up a handful of
// lines, occasionally undo or change a quantity, then submit.
func (lt *LoadTester) runTerminal(products []productView, deadline time.Time) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for time.Now().Before(deadline) {
		var sess sessionView
		if err := lt.request(http.MethodPost, "/api/v1/sessions", nil, &sess); err != nil {
			time.Sleep(time.Second)
			continue
		}

		base := "/api/v1/sessions/" + sess.ID
		lineCount := 1 + rng.Intn(5)
		for i := 0; i < lineCount; i++ {
			p := products[rng.Intn(len(products))]
			unit := "piece"
			if p.CanSellByPack && rng.Intn(4) == 0 {
				unit = "pack"
			}
			lt.request(http.MethodPost, base+"/lines", map[string]interface{}{
				"product_id": p.ID,
				"unit":       unit,
			}, nil)

			if rng.Intn(10) == 0 {
				lt.request(http.MethodPost, base+"/undo", nil, nil)
			}
		}

		isCredit := rng.Float64() < lt.config.CreditRatio
		if isCredit {
			lt.request(http.MethodPut, base+"/checkout", map[string]interface{}{
				"payment_method": "credit",
				"customer_name":  fmt.Sprintf("Customer %d", rng.Intn(500)),
			}, nil)
		}

		var submit struct {
			NeedsCreditDetails bool `json:"needs_credit_details"`
		}
		if err := lt.request(http.MethodPost, base+"/submit", nil, &submit); err != nil {
			atomic.AddInt64(&lt.result.CheckoutsRejected, 1)
			continue
		}

		if submit.NeedsCreditDetails {
			if err := lt.request(http.MethodPost, base+"/credit-details", map[string]interface{}{
				"creditor_phone":  fmt.Sprintf("024%07d", rng.Intn(10000000)),
				"initial_payment": 0,
			}, nil); err != nil {
				atomic.AddInt64(&lt.result.CheckoutsRejected, 1)
				continue
			}
		}

		atomic.AddInt64(&lt.result.CheckoutsSubmitted, 1)
		time.Sleep(time.Duration(rng.Intn(200)) * time.Millisecond)
	}
}

func (lt *LoadTester) Run() error {
	products, err := lt.loadProducts()
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if len(products) == 0 {
		return fmt.Errorf("no products available, seed the database first")
	}

	deadline := time.Now().Add(time.Duration(lt.config.TestDurationSeconds) * time.Second)

	var wg sync.WaitGroup
	for i := 0; i < lt.config.ConcurrentTerminals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lt.runTerminal(products, deadline)
		}()
	}
	wg.Wait()

	lt.report()
	return nil
}

func (lt *LoadTester) report() {
	lt.result.mutex.Lock()
	defer lt.result.mutex.Unlock()

	times := lt.result.ResponseTimes
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	percentile := func(p float64) time.Duration {
		if len(times) == 0 {
			return 0
		}
		idx := int(float64(len(times)) * p)
		if idx >= len(times) {
			idx = len(times) - 1
		}
		return times[idx]
	}

	fmt.Println("=== POS load test results ===")
	fmt.Printf("Total requests:      %d\n", lt.result.TotalRequests)
	fmt.Printf("Successful:          %d\n", lt.result.SuccessfulRequests)
	fmt.Printf("Failed:              %d\n", lt.result.FailedRequests)
	fmt.Printf("Checkouts submitted: %d\n", lt.result.CheckoutsSubmitted)
	fmt.Printf("Checkouts rejected:  %d\n", lt.result.CheckoutsRejected)
	fmt.Printf("P50 response time:   %v\n", percentile(0.50))
	fmt.Printf("P95 response time:   %v\n", percentile(0.95))
	fmt.Printf("P99 response time:   %v\n", percentile(0.99))

	if len(lt.result.Errors) > 0 {
		fmt.Println("Errors:")
		for key, count := range lt.result.Errors {
			fmt.Printf("  %s: %d\n", key, count)
		}
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the POS service")
	terminals := flag.Int("terminals", 10, "Concurrent simulated terminals")
	duration := flag.Int("duration", 60, "Test duration in seconds")
	creditRatio := flag.Float64("credit-ratio", 0.2, "Fraction of checkouts paid on credit")
	flag.Parse()

	tester := NewLoadTester(&LoadTestConfig{
		BaseURL:             *baseURL,
		ConcurrentTerminals: *terminals,
		TestDurationSeconds: *duration,
		CreditRatio:         *creditRatio,
	})

	if err := tester.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
