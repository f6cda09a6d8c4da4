package devicelink

import "testing"

func TestDeviceLink_CallbackOnChangeOnly(t *testing.T) {
	d := New(false)
	calls := 0
	d.SetOnChange(func() { calls++ })

	d.SetEnabled(false)
	if calls != 0 {
		t.Fatalf("calls = %d after setting same value, want 0", calls)
	}

	d.SetEnabled(true)
	if calls != 1 {
		t.Fatalf("calls = %d after enabling, want 1", calls)
	}
	if !d.Enabled() {
		t.Error("Enabled() = false, want true")
	}

	d.SetEnabled(true)
	if calls != 1 {
		t.Errorf("calls = %d after enabling twice, want 1", calls)
	}
}

func TestDeviceLink_NilDeregisters(t *testing.T) {
	d := New(true)
	calls := 0
	d.SetOnChange(func() { calls++ })
	d.SetOnChange(nil)

	d.SetEnabled(false)
	if calls != 0 {
		t.Errorf("calls = %d after deregistering, want 0", calls)
	}
}

func TestDeviceLink_SingleSlot(t *testing.T) {
	d := New(false)
	first, second := 0, 0
	d.SetOnChange(func() { first++ })
	d.SetOnChange(func() { second++ })

	d.SetEnabled(true)
	if first != 0 || second != 1 {
		t.Errorf("first = %d, second = %d, want 0 and 1", first, second)
	}
}

func TestDeviceLink_CallbackMayReadFlag(t *testing.T) {
	d := New(false)
	var seen bool
	d.SetOnChange(func() { seen = d.Enabled() })

	d.SetEnabled(true)
	if !seen {
		t.Error("callback observed stale value")
	}
}
