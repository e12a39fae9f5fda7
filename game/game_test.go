package game

import (
	"errors"
	"testing"

	"github.com/pthm-cable/cellular/sim"
)

func TestCheckHeadless(t *testing.T) {
	tests := []struct {
		name    string
		ups     int
		wantErr bool
	}{
		{"zero rate", 0, true},
		{"negative rate", -5, true},
		{"running", 50, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkHeadless(sim.Options{UpdatesPerSecond: tt.ups})
			if tt.wantErr {
				if !errors.Is(err, ErrHeadlessStalled) {
					t.Errorf("expected ErrHeadlessStalled, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
