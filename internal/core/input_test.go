package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if f.Has(ActionBuild) {
		t.Error("zero frame should have no actions")
	}

	f.Set(ActionBuild)
	f.Set(ActionShop)
	f.Item = 3
	if !f.Has(ActionBuild) || !f.Has(ActionShop) {
		t.Error("expected Build and Shop to be set")
	}

	f.Clear()
	if f.Has(ActionBuild) || f.Item != 0 {
		t.Errorf("Clear() left state behind: %+v", f)
	}
}

func TestActionString(t *testing.T) {
	tests := []struct {
		a    Action
		want string
	}{
		{ActionNextWave, "NextWave"},
		{ActionUltimate, "Ultimate"},
		{Action(999), "Unknown"},
	}
	for _, tc := range tests {
		if got := tc.a.String(); got != tc.want {
			t.Errorf("Action(%d).String() = %q, expected %q", tc.a, got, tc.want)
		}
	}
}
