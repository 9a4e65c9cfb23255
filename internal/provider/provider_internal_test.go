package provider

import (
	"net/http"
	"testing"

	"github.com/unclebandit/recruitflow-backend/internal/model"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		httpStatus int
		body       string
		want       string
	}{
		{"unauthorized", http.StatusUnauthorized, "", StatusLimitReached},
		{"payment required", http.StatusPaymentRequired, "", StatusLimitReached},
		{"too many requests", http.StatusTooManyRequests, "", StatusLimitReached},
		{"limit in body", http.StatusForbidden, `{"error":"monthly limit exceeded"}`, StatusLimitReached},
		{"quota in body", http.StatusBadRequest, `{"error":"Quota exhausted"}`, StatusLimitReached},
		{"server error", http.StatusInternalServerError, "internal error", StatusError},
		{"bad request", http.StatusBadRequest, "malformed domain", StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStatus(tt.httpStatus, tt.body); got != tt.want {
				t.Errorf("classifyStatus(%d, %q) = %q, want %q", tt.httpStatus, tt.body, got, tt.want)
			}
		})
	}
}

func TestMapEmailStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"valid", model.EmailStatusValid},
		{"Verified", model.EmailStatusValid},
		{"deliverable", model.EmailStatusValid},
		{"invalid", model.EmailStatusInvalid},
		{"undeliverable", model.EmailStatusInvalid},
		{"risky", model.EmailStatusRisky},
		{"accept_all", model.EmailStatusRisky},
		{"webmail", model.EmailStatusRisky},
		{"", model.EmailStatusUnverified},
		{"something_new", model.EmailStatusUnverified},
	}

	for _, tt := range tests {
		if got := mapEmailStatus(tt.in); got != tt.want {
			t.Errorf("mapEmailStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
