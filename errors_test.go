package meshview

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorf(t *testing.T) {
	if err := Errorf(KindRuntime, "submit", nil); err != nil {
		t.Errorf("Errorf(nil) = %v, want nil", err)
	}

	base := errors.New("queue full")
	err := Errorf(KindRuntime, "submit", base)
	if !errors.Is(err, base) {
		t.Error("errors.Is(err, base) = false, want true")
	}
	if got := err.Error(); got != "meshview: runtime: submit: queue full" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
		init bool
	}{
		{"nil", nil, 0, false},
		{"plain", errors.New("x"), 0, false},
		{"init", Errorf(KindInit, "create surface", errors.New("x")), KindInit, true},
		{"no device", Errorf(KindNoDevice, "request adapter", errors.New("x")), KindNoDevice, true},
		{"wrapped lost", fmt.Errorf("tick: %w", Errorf(KindDeviceLost, "wait", errors.New("x"))), KindDeviceLost, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
			if got := IsInit(tt.err); got != tt.init {
				t.Errorf("IsInit() = %v, want %v", got, tt.init)
			}
			if got, want := IsFatal(tt.err), tt.want != 0; got != want {
				t.Errorf("IsFatal() = %v, want %v", got, want)
			}
		})
	}
}

func TestErrorIsSentinel(t *testing.T) {
	err := Errorf(KindDeviceLost, "wait for fence", errors.New("timeout"))
	if !errors.Is(err, ErrDeviceLost) {
		t.Error("device-lost Error should match ErrDeviceLost")
	}
	if errors.Is(err, ErrNoDevice) {
		t.Error("device-lost Error should not match ErrNoDevice")
	}
	if got := Kind(42).String(); got != "Kind(42)" {
		t.Errorf("Kind(42).String() = %q", got)
	}
}
