package system

import "testing"

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    SystemState
		to      SystemState
		wantErr bool
	}{
		{"init to running", StateInitializing, StateRunning, false},
		{"running to stopping", StateRunning, StateStopping, false},
		{"stopping to stopped", StateStopping, StateStopped, false},
		{"error recovers to init", StateError, StateInitializing, false},
		{"running straight to stopped", StateRunning, StateStopped, true},
		{"stopped back to running", StateStopped, StateRunning, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTransition(%s, %s) error = %v, wantErr %v",
					tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
}
