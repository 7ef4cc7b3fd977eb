// Doorknock - Door-to-Door Route Planner
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorknock

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() should not return nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
}

type uploadRequest struct {
	Format   string `validate:"oneof=json geojson kml html"`
	Title    string `validate:"max=20,printable"`
	Size     int64  `validate:"gt=0,ltefield=MaxBytes"`
	MaxBytes int64
	Colour   string `validate:"omitempty,hexcolor"`
}

func TestValidateStruct(t *testing.T) {
	valid := uploadRequest{Format: "kml", Title: "Saturday", Size: 10, MaxBytes: 100}

	tests := []struct {
		name     string
		mutate   func(r *uploadRequest)
		wantTags []string
		wantMsg  string
	}{
		{"valid", func(r *uploadRequest) {}, nil, ""},
		{"bad format", func(r *uploadRequest) { r.Format = "pdf" }, []string{"oneof"}, "Format must be one of: json geojson kml html"},
		{"control char title", func(r *uploadRequest) { r.Title = "a\nb" }, []string{"printable"}, "Title must not contain control characters"},
		{"long title", func(r *uploadRequest) { r.Title = strings.Repeat("x", 21) }, []string{"max"}, "Title must be at most 20 characters"},
		{"empty file", func(r *uploadRequest) { r.Size = 0 }, []string{"gt"}, "Size must be greater than 0"},
		{"too large", func(r *uploadRequest) { r.Size = 101 }, []string{"ltefield"}, "Size must not exceed MaxBytes"},
		{"bad colour", func(r *uploadRequest) { r.Colour = "green" }, []string{"hexcolor"}, "Colour must be a hex colour such as #1a9850"},
		{"two failures", func(r *uploadRequest) { r.Format = ""; r.Size = 0 }, []string{"oneof", "gt"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := ValidateStruct(&req)
			if len(tt.wantTags) == 0 {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() should fail")
			}
			if len(err.Errors()) != len(tt.wantTags) {
				t.Fatalf("got %d errors, want %d: %v", len(err.Errors()), len(tt.wantTags), err)
			}
			for i, tag := range tt.wantTags {
				if got := err.Errors()[i].Tag(); got != tag {
					t.Errorf("error %d tag = %q, want %q", i, got, tag)
				}
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&uploadRequest{Format: "pdf", Size: 1, MaxBytes: 1})
	apiErr := single.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "Format" || apiErr.Details["tag"] != "oneof" {
		t.Errorf("Details = %v", apiErr.Details)
	}

	multi := ValidateStruct(&uploadRequest{Format: "pdf", MaxBytes: 1})
	apiErr = multi.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("Details[fields] = %v", apiErr.Details["fields"])
	}
	if !strings.Contains(apiErr.Message, "; ") {
		t.Errorf("Message should join both failures: %q", apiErr.Message)
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty Message = %q", empty.Message)
	}
}
