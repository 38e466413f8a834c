package schedhost

import "testing"

func TestNoneIsNoOp(t *testing.T) {
	// Must not panic with no state backing it.
	None.Suspend()
	None.Resume()
}

func TestCooperativeInvokesCallbacks(t *testing.T) {
	var suspended, resumed bool

	h := Cooperative{
		SuspendFn: func() { suspended = true },
		ResumeFn:  func() { resumed = true },
	}

	h.Suspend()
	h.Resume()

	if !suspended {
		t.Error("Suspend did not invoke SuspendFn")
	}

	if !resumed {
		t.Error("Resume did not invoke ResumeFn")
	}
}

func TestCooperativeNilCallbacksAreNoOps(t *testing.T) {
	var h Cooperative

	h.Suspend()
	h.Resume()
}
