package health

import (
	"context"
	"errors"
	"testing"
)

type mockDBPinger struct {
	err error
}

func (m *mockDBPinger) Ping(_ context.Context) error { return m.err }

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus Status
		wantDB     CheckResult
	}{
		{"healthy", nil, Healthy, CheckOK},
		{"database down", errors.New("conn refused"), Unhealthy, CheckError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&mockDBPinger{err: tt.pingErr}).Check(context.Background())
			if r.Status != tt.wantStatus {
				t.Errorf("expected %q, got %q", tt.wantStatus, r.Status)
			}
			if r.Checks["database"] != tt.wantDB {
				t.Errorf("expected database %q, got %q", tt.wantDB, r.Checks["database"])
			}
			if len(r.Checks) != 1 {
				t.Errorf("unexpected checks: %v", r.Checks)
			}
		})
	}
}
