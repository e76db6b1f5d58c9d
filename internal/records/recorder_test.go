package records

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/wolfman30/starring-booking/internal/booking"
)

func testRow() Row {
	return RowFromDraft(booking.Draft{
		Name:       " Asha ",
		Email:      "asha@example.com",
		Phone:      "9876543210",
		Idea:       "Launch reel",
		DeviceType: booking.DevicePhone,
		EditType:   booking.EditBasic,
		Date:       "2024-06-01",
		TimeSlot:   "10:00 AM",
	}, "phone-basic")
}

func TestHTTPRecorder_FormEncoding(t *testing.T) {
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Write([]byte("Success"))
	}))
	defer srv.Close()

	rec := NewHTTPRecorder(srv.URL, EncodingForm, 0, nil)
	if err := rec.Record(context.Background(), testRow()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"name":         "Asha",
		"email":        "asha@example.com",
		"phone":        "9876543210",
		"category":     "phone-basic",
		"date":         "2024-06-01",
		"time":         "10:00 AM",
		"requirements": "Launch reel",
	}
	for k, v := range want {
		if got := gotForm[k]; len(got) != 1 || got[0] != v {
			t.Errorf("form[%s] = %v, want %q", k, got, v)
		}
	}
}

func TestHTTPRecorder_JSONEncoding(t *testing.T) {
	var got Row
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected json content type, got %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	rec := NewHTTPRecorder(srv.URL, EncodingJSON, 0, nil)
	if err := rec.Record(context.Background(), testRow()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Category != "phone-basic" || got.Time != "10:00 AM" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestHTTPRecorder_OKFalseRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error":"sheet locked"}`))
	}))
	defer srv.Close()

	err := NewHTTPRecorder(srv.URL, EncodingJSON, 0, nil).Record(context.Background(), testRow())
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestHTTPRecorder_StatusRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewHTTPRecorder(srv.URL, EncodingForm, 0, nil).Record(context.Background(), testRow())
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestHTTPRecorder_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewHTTPRecorder(url, EncodingForm, 0, nil).Record(context.Background(), testRow())
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, ErrRejected) {
		t.Fatalf("transport failure should not be reported as a rejection: %v", err)
	}
}

func TestHTTPRecorder_MissingEndpoint(t *testing.T) {
	if err := NewHTTPRecorder("", EncodingForm, 0, nil).Record(context.Background(), testRow()); err == nil {
		t.Fatal("expected error for missing endpoint")
	}
}

func TestOpaqueRecorder_IgnoresStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusFound)
	}))
	defer srv.Close()

	rec := NewOpaqueRecorder(srv.URL, 0, nil).WithHTTPClient(&http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	})
	if err := rec.Record(context.Background(), testRow()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one call, got %d", calls.Load())
	}
}

func TestParseEncoding(t *testing.T) {
	if ParseEncoding("JSON") != EncodingJSON {
		t.Fatal("expected json")
	}
	if ParseEncoding("") != EncodingForm {
		t.Fatal("expected form default")
	}
}
