package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// Credentials of an account used to generate load
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdjustRequest is the credit/debit payload
type AdjustRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Envelope is the API response wrapper
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    int             `json:"code"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Success      bool
	Refused      bool // debit rejected for insufficient funds
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	RefusedRequests    int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	UserStats          map[string]int // requests per username
	ScenarioStats      map[string]int // requests per scenario
	Lock               sync.Mutex
}

// Scenario defines one kind of balance adjustment
type Scenario struct {
	Name   string
	Path   string
	Amount string
}

// session is a logged-in account
type session struct {
	username string
	token    string
}

func main() {
	concurrency := flag.Int("c", 5, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 100, "Total number of requests to make")
	usersStr := flag.String("u", "demo,demo2", "Comma-separated list of usernames to distribute load across")
	password := flag.String("p", "demo-pass-123", "Password shared by the load test accounts")
	baseURL := flag.String("url", "http://localhost:5000/api", "Base URL for the API, including the base path")
	delayMs := flag.Int("delay", 100, "Delay between requests in milliseconds")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	var sessions []session
	for _, username := range strings.Split(*usersStr, ",") {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}
		token, err := login(client, *baseURL, Credentials{Username: username, Password: *password})
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", username, err)
			continue
		}
		sessions = append(sessions, session{username: username, token: token})
	}

	if len(sessions) == 0 {
		fmt.Println("No account could log in; run `dbtool seed` first or pass -u/-p")
		os.Exit(1)
	}

	scenarios := []Scenario{
		{"Credit Small", "/bank/credit", "10.00"},
		{"Credit Medium", "/bank/credit", "250.50"},
		{"Credit Large", "/bank/credit", "5000"},
		{"Debit Small", "/bank/debit", "15.00"},
		{"Debit Medium", "/bank/debit", "400.25"},
		{"Debit Large", "/bank/debit", "60000"},
	}

	fmt.Printf("Load testing %s across %d accounts\n", *baseURL, len(sessions))
	fmt.Printf("Scenarios: %d\n", len(scenarios))
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)
	fmt.Printf("Delay between requests: %d ms\n", *delayMs)

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		UserStats:       make(map[string]int),
		ScenarioStats:   make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(client, *baseURL, *delayMs, sessions, scenarios, jobs, results, stats)
		}()
	}

	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.Lock.Lock()
			switch {
			case result.Success:
				stats.SuccessfulRequests++
			case result.Refused:
				stats.RefusedRequests++
			default:
				stats.FailedRequests++
				errMsg := "unknown"
				if result.Error != nil {
					errMsg = result.Error.Error()
				}
				stats.ErrorCounts[errMsg]++
			}

			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.TotalResponseTime += result.ResponseTime
			stats.MinResponseTime = min(stats.MinResponseTime, result.ResponseTime)
			stats.MaxResponseTime = max(stats.MaxResponseTime, result.ResponseTime)
			stats.Lock.Unlock()
		}
	}()

	startTime := time.Now()
	fmt.Println("Test running...")

	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.SuccessfulRequests + stats.RefusedRequests + stats.FailedRequests
			if completed > 0 {
				fmt.Printf("Progress: %d/%d requests completed (%.1f%%)\n",
					completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
			}
			stats.Lock.Unlock()
		}
	}()

	wg.Wait()
	close(results)
	<-collected
	ticker.Stop()

	stats.TotalTime = time.Since(startTime)

	printResults(stats)
	printBalances(client, *baseURL, sessions)
}

func worker(client *http.Client, baseURL string, delayMs int, sessions []session,
	scenarios []Scenario, jobs <-chan int, results chan<- TestResult, stats *TestStats) {

	for range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		s := sessions[rand.Intn(len(sessions))]
		scenario := scenarios[rand.Intn(len(scenarios))]

		stats.Lock.Lock()
		stats.UserStats[s.username]++
		stats.ScenarioStats[scenario.Name]++
		stats.Lock.Unlock()

		body := AdjustRequest{Amount: scenario.Amount, Description: "Load test " + scenario.Name, Category: "Load"}

		startTime := time.Now()
		status, env, err := call(client, http.MethodPost, baseURL+scenario.Path, s.token, body)
		result := TestResult{ResponseTime: time.Since(startTime), StatusCode: status}

		switch {
		case err != nil:
			result.Error = err
		case status >= 200 && status < 300:
			result.Success = true
		case status == http.StatusBadRequest && env.Message == "Insufficient funds":
			result.Refused = true
		default:
			result.Error = fmt.Errorf("HTTP %d: %s", status, env.Message)
		}

		results <- result
	}
}

func login(client *http.Client, baseURL string, creds Credentials) (string, error) {
	status, env, err := call(client, http.MethodPost, baseURL+"/auth/login", "", creds)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("login returned %d: %s", status, env.Message)
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		return "", errors.New("login response carried no token")
	}
	return data.Token, nil
}

func call(client *http.Client, method, url, token string, payload any) (int, Envelope, error) {
	var env Envelope

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return 0, env, err
		}
	}

	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		return 0, env, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, env, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, env, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, env, nil
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[min(len(sorted)*p/100, len(sorted)-1)]
}

func printResults(stats *TestStats) {
	completed := stats.SuccessfulRequests + stats.RefusedRequests
	tps := float64(completed) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	sortedTimes := slices.Clone(stats.ResponseTimes)
	slices.Sort(sortedTimes)

	pct := func(n int) float64 { return float64(n) / float64(stats.TotalRequests) * 100 }

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Applied:             %d (%.1f%%)\n", stats.SuccessfulRequests, pct(stats.SuccessfulRequests))
	fmt.Printf("Refused (funds):     %d (%.1f%%)\n", stats.RefusedRequests, pct(stats.RefusedRequests))
	fmt.Printf("Failed:              %d (%.1f%%)\n", stats.FailedRequests, pct(stats.FailedRequests))
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Answered TPS:        %.2f\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", percentile(sortedTimes, 50))
	fmt.Printf("P90 Response:        %v\n", percentile(sortedTimes, 90))
	fmt.Printf("P99 Response:        %v\n", percentile(sortedTimes, 99))

	fmt.Println("\n----------------- ACCOUNT DISTRIBUTION -----------------")
	for username, count := range stats.UserStats {
		fmt.Printf("%-15s: %d requests (%.1f%%)\n", username, count, pct(count))
	}

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for scenario, count := range stats.ScenarioStats {
		fmt.Printf("%-15s: %d requests (%.1f%%)\n", scenario, count, pct(count))
	}

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d (%.1f%%)\n", errMsg, count, pct(count))
		}
	}
}

// printBalances shows where every account ended up; none may be negative
func printBalances(client *http.Client, baseURL string, sessions []session) {
	fmt.Println("\n----------------- FINAL BALANCES -----------------")
	for _, s := range sessions {
		status, env, err := call(client, http.MethodGet, baseURL+"/bank/balance", s.token, nil)
		if err != nil || status != http.StatusOK {
			fmt.Printf("%-15s: unavailable (%d %v)\n", s.username, status, err)
			continue
		}

		var data struct {
			Balance string `json:"balance"`
		}
		_ = json.Unmarshal(env.Data, &data)

		marker := ""
		if strings.HasPrefix(data.Balance, "-") {
			marker = "  <-- NEGATIVE"
		}
		fmt.Printf("%-15s: %s%s\n", s.username, data.Balance, marker)
	}
	fmt.Println("================================================")
}
