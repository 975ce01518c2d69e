package modes

import "testing"

func TestDefaultRegistryHasAllFourModes(t *testing.T) {
	r := Default()

	for _, name := range []string{FastBuzz, BuzzAndChoice, TextInput, PictureRound} {
		if _, ok := r.Get(name); !ok {
			t.Fatalf("expected registry to contain mode %q", name)
		}
	}
	if _, ok := r.Get("no_such_mode"); ok {
		t.Fatal("expected an unknown mode type to not be found")
	}
}

func TestRegistryPanicsOnRegisterAfterSeal(t *testing.T) {
	r := NewRegistry()
	r.Register(NewFastBuzz())
	r.Seal()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Register after Seal to panic")
		}
	}()
	r.Register(NewTextInput())
}
