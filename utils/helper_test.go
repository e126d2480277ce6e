package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func TestProcessValidationErrors_FieldErrors(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
		Score int    `validate:"gte=0,lte=100"`
	}

	err := validator.New().Struct(payload{Email: "not-an-email", Score: 150})
	if err == nil {
		t.Fatal("expected validation error")
	}

	got := ProcessValidationErrors(err)
	if got["Email"] != "email" {
		t.Errorf("Email tag = %q, want %q", got["Email"], "email")
	}
	if got["Score"] != "lte" {
		t.Errorf("Score tag = %q, want %q", got["Score"], "lte")
	}
}

func TestProcessValidationErrors_NonValidatorError(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	cases := []struct {
		name string
		body string
	}{
		{"truncated json", `{"name": "Thabo"`},
		{"wrong type", `{"name": 42}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := json.Unmarshal([]byte(tc.body), &dst)
			if err == nil {
				t.Fatal("expected decode error")
			}
			got := ProcessValidationErrors(err)
			if got["body"] != "invalid request body" {
				t.Errorf("got %v, want generic body message", got)
			}
		})
	}
}

func TestEmailLocalPart(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"thabo.m@kwahlelwa.org.za", "thabo.m"},
		{"no-at-sign", "no-at-sign"},
		{"@leading", "@leading"},
	}
	for _, tc := range cases {
		if got := EmailLocalPart(tc.in); got != tc.want {
			t.Errorf("EmailLocalPart(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	if got := DaysSince(now.AddDate(0, 0, -91), now); got != 91 {
		t.Errorf("DaysSince 91 days = %d", got)
	}
	if got := DaysSince(now.Add(-12*time.Hour), now); got != 0 {
		t.Errorf("DaysSince half day = %d, want 0", got)
	}
}
