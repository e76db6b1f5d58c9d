// Package main runs E2E checks of the booking form against a running API.
//
// Scenarios cover:
//   - Step gate refusals on the details and preferences steps
//   - Field aliases and unknown fields
//   - Submitting from an early step
//   - Happy-path submission (direct-record or hidden-frame deployments)
//   - Re-entrant submit rejection
//
// Usage:
//
//	API_BASE_URL=... go run scripts/e2e/run_e2e.go              # runs all
//	API_BASE_URL=... go run scripts/e2e/run_e2e.go happy-path   # runs one
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var (
	apiBase string
	client  = &http.Client{Timeout: 30 * time.Second}
)

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

type sessionView struct {
	ID    string            `json:"id"`
	Step  int               `json:"step"`
	Draft map[string]any    `json:"draft"`
	Note  map[string]string `json:"notification"`
}

type apiResponse struct {
	Status int
	Body   map[string]any
	Raw    []byte
}

func call(method, path string, body any) (*apiResponse, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := &apiResponse{Status: resp.StatusCode, Raw: raw}
	_ = json.Unmarshal(raw, &out.Body)
	return out, nil
}

func newSession(t *T) string {
	resp, err := call(http.MethodPost, "/bookings/sessions", nil)
	if err != nil || resp.Status != http.StatusCreated {
		t.fatalf("create session failed: %v %v", err, resp)
		return ""
	}
	id, _ := resp.Body["id"].(string)
	return id
}

func fields(overrides map[string]string) map[string]string {
	out := map[string]string{
		"name":       "E2E Customer",
		"email":      "e2e@example.com",
		"phone":      "9000000000",
		"deviceType": "Phone",
		"editType":   "Basic",
		"date":       time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"timeSlot":   "10:00 AM",
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func scenarioGateRefusals(t *T) {
	id := newSession(t)
	if id == "" {
		return
	}
	base := "/bookings/sessions/" + id

	resp, _ := call(http.MethodPost, base+"/advance", nil)
	t.check("advance without contact refused with 422", resp != nil && resp.Status == http.StatusUnprocessableEntity)
	t.check("contact reason surfaced", resp != nil && resp.Body["error"] == "missing contact details")

	call(http.MethodPatch, base+"/fields", map[string]string{"name": "A", "email": "a@example.com", "phone": "1"})
	resp, _ = call(http.MethodPost, base+"/advance", nil)
	t.check("advance to preferences", resp != nil && resp.Status == http.StatusOK)

	resp, _ = call(http.MethodPost, base+"/advance", nil)
	t.check("preferences gate refuses", resp != nil && resp.Body["error"] == "missing shoot preferences")
}

func scenarioAliases(t *T) {
	id := newSession(t)
	if id == "" {
		return
	}
	base := "/bookings/sessions/" + id

	resp, _ := call(http.MethodPatch, base+"/fields", map[string]string{"time": "02:00 PM", "requirements": "sunset reel"})
	ok := resp != nil && resp.Status == http.StatusOK
	t.check("aliases accepted", ok)
	if ok {
		draft, _ := resp.Body["draft"].(map[string]any)
		t.check("time alias sets timeSlot", draft["timeSlot"] == "02:00 PM")
		t.check("requirements alias sets idea", draft["idea"] == "sunset reel")
	}

	resp, _ = call(http.MethodPatch, base+"/fields", map[string]string{"shoe_size": "9"})
	t.check("unknown field rejected", resp != nil && resp.Status == http.StatusBadRequest)
}

func scenarioEarlySubmit(t *T) {
	id := newSession(t)
	if id == "" {
		return
	}
	resp, _ := call(http.MethodPost, "/bookings/sessions/"+id+"/submit", nil)
	t.check("submit from details refused", resp != nil && resp.Status == http.StatusUnprocessableEntity)
}

func readySession(t *T) string {
	id := newSession(t)
	if id == "" {
		return ""
	}
	base := "/bookings/sessions/" + id
	call(http.MethodPatch, base+"/fields", fields(nil))
	for i := 0; i < 2; i++ {
		if resp, err := call(http.MethodPost, base+"/advance", nil); err != nil || resp.Status != http.StatusOK {
			t.fatalf("advance failed: %v", err)
			return ""
		}
	}
	return id
}

func scenarioHappyPath(t *T) {
	id := readySession(t)
	if id == "" {
		return
	}
	base := "/bookings/sessions/" + id
	resp, err := call(http.MethodPost, base+"/submit", nil)
	if err != nil {
		t.fatalf("submit failed: %v", err)
		return
	}
	t.check("submit returns 200", resp.Status == http.StatusOK)
	t.check("status succeeded", resp.Body["status"] == "succeeded")

	got, _ := call(http.MethodGet, base, nil)
	var view sessionView
	if got != nil {
		_ = json.Unmarshal(got.Raw, &view)
	}
	t.check("form reset to details", view.Step == 1)
	t.check("draft cleared", view.Draft["name"] == "")
}

func scenarioReentrantSubmit(t *T) {
	id := readySession(t)
	if id == "" {
		return
	}
	base := "/bookings/sessions/" + id

	first := make(chan *apiResponse, 1)
	go func() {
		resp, _ := call(http.MethodPost, base+"/submit", nil)
		first <- resp
	}()
	time.Sleep(200 * time.Millisecond)

	second, _ := call(http.MethodPost, base+"/submit", nil)
	t.check("second submit conflicts", second != nil && second.Status == http.StatusConflict)
	resp := <-first
	t.check("first submit completes", resp != nil && resp.Status != http.StatusConflict)
}

func main() {
	apiBase = os.Getenv("API_BASE_URL")
	if apiBase == "" {
		fmt.Fprintln(os.Stderr, "ERROR: API_BASE_URL required")
		os.Exit(1)
	}

	scenarios := []scenario{
		{"gate-refusals", scenarioGateRefusals},
		{"aliases", scenarioAliases},
		{"early-submit", scenarioEarlySubmit},
		{"happy-path", scenarioHappyPath},
		{"reentrant-submit", scenarioReentrantSubmit},
	}

	// Filter by name if argument provided
	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed := 0
	totalFailed := 0
	scenarioResults := make([]string, 0)

	for _, s := range scenarios {
		if filter != "" && s.Name != filter {
			continue
		}

		fmt.Printf("\n========================================\n")
		fmt.Printf("SCENARIO: %s\n", s.Name)
		fmt.Printf("========================================\n")

		t := &T{name: s.Name}
		s.Fn(t)

		totalPassed += t.passed
		totalFailed += t.failed

		status := "✅"
		if t.failed > 0 {
			status = "❌"
		}
		scenarioResults = append(scenarioResults, fmt.Sprintf("  %s %s (%d passed, %d failed)", status, s.Name, t.passed, t.failed))
	}

	fmt.Printf("\n========================================\n")
	fmt.Println("SUMMARY")
	fmt.Printf("========================================\n")
	for _, r := range scenarioResults {
		fmt.Println(r)
	}
	fmt.Printf("\nTotal: %d passed, %d failed\n", totalPassed, totalFailed)

	if totalFailed > 0 {
		fmt.Println("\n❌ SOME TESTS FAILED")
		os.Exit(1)
	}
	fmt.Println("\n✅ ALL TESTS PASSED")
}
