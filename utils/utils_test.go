package utils

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestCodeSetDeduplicatesAndNormalizes(t *testing.T) {
	s := NewCodeSet("tur", "DEU", " TUR ", "", "usa")
	if got, want := s.List(), []string{"TUR", "DEU", "USA"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}
	if !s.Has("DEU") || s.Has("FRA") {
		t.Errorf("Has() gave wrong membership")
	}
	if s.Add("deu") {
		t.Errorf("Add() accepted a duplicate")
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, "warn")
	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("shown warn %d", 1)
	l.Error("shown error")

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("messages below warn were printed: %q", out.String())
	}
	if !strings.Contains(out.String(), "[WARN]") || !strings.Contains(out.String(), "shown warn 1") {
		t.Errorf("warn message missing: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "shown error") {
		t.Errorf("error message should go to the error writer: %q", errOut.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"error", LevelError, true},
		{"verbose", LevelInfo, false},
	}
	for _, tc := range cases {
		got, ok := ParseLevel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLevel(%q) = %v,%v want %v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
