package resultset_test

import (
	"strconv"
	"testing"

	"github.com/JaimeStill/registry/pkg/resultset"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := resultset.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.MaxSize != 100 {
		t.Errorf("max_size: got %d, want 100", cfg.MaxSize)
	}
}

func TestConfigFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_MAX_SIZE", "5")

	cfg := resultset.Config{}
	if err := cfg.Finalize(&resultset.ConfigEnv{MaxSize: "TEST_MAX_SIZE"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.MaxSize != 5 {
		t.Errorf("max_size: got %d, want 5", cfg.MaxSize)
	}
}

func TestConfigFinalizeInvalidEnv(t *testing.T) {
	t.Setenv("TEST_MAX_SIZE", "-3")

	cfg := resultset.Config{}
	if err := cfg.Finalize(&resultset.ConfigEnv{MaxSize: "TEST_MAX_SIZE"}); err == nil {
		t.Fatal("expected validation error for negative max_size")
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := resultset.Config{MaxSize: 100}
	cfg.Merge(&resultset.Config{})
	if cfg.MaxSize != 100 {
		t.Errorf("zero overlay should not change max_size, got %d", cfg.MaxSize)
	}
	cfg.Merge(&resultset.Config{MaxSize: 10})
	if cfg.MaxSize != 10 {
		t.Errorf("max_size: got %d, want 10", cfg.MaxSize)
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := resultset.Config{MaxSize: 10}

	tests := []struct {
		requested int
		want      int
	}{
		{0, 10},
		{-1, 10},
		{1, 1},
		{10, 10},
		{11, 10},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.requested), func(t *testing.T) {
			if got := cfg.Normalize(tt.requested); got != tt.want {
				t.Errorf("Normalize(%d) = %d, want %d", tt.requested, got, tt.want)
			}
		})
	}
}

func TestCap(t *testing.T) {
	items := []int{1, 2, 3, 4}

	tests := []struct {
		name           string
		max            int
		wantLen        int
		wantIncomplete bool
	}{
		{"under bound", 5, 4, false},
		{"at bound", 4, 4, false},
		{"over bound", 2, 2, true},
		{"zero", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resultset.Cap(items, tt.max)
			if len(got.Data) != tt.wantLen {
				t.Errorf("len(Data) = %d, want %d", len(got.Data), tt.wantLen)
			}
			if got.Incomplete != tt.wantIncomplete {
				t.Errorf("Incomplete = %v, want %v", got.Incomplete, tt.wantIncomplete)
			}
		})
	}
}

func TestCapNilData(t *testing.T) {
	got := resultset.Cap[string](nil, 10)
	if got.Data == nil {
		t.Error("Data should be an empty slice, not nil")
	}
	if got.Incomplete {
		t.Error("empty result should be complete")
	}
}

func TestCapDoesNotAlias(t *testing.T) {
	items := []int{1, 2, 3}
	got := resultset.Cap(items, 2)
	got.Data = append(got.Data, 99)
	if items[2] != 3 {
		t.Errorf("append through capped result overwrote source: %v", items)
	}
}

func TestMap(t *testing.T) {
	r := resultset.Result[int]{Data: []int{1, 2}, Incomplete: true}
	got := resultset.Map(r, strconv.Itoa)
	if len(got.Data) != 2 || got.Data[0] != "1" || got.Data[1] != "2" {
		t.Errorf("Map() data = %v, want [1 2]", got.Data)
	}
	if !got.Incomplete {
		t.Error("Map() should preserve Incomplete")
	}
}
