package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/kofarve/internal/core"
	"github.com/vovakirdan/kofarve/internal/scene"
)

type stubScreen struct {
	scene.Base
	kind scene.Kind
}

func (stubScreen) DrawHUD(*core.Canvas, *scene.State) {}

func stubFactory(k scene.Kind) Factory {
	return func(core.Platform, *scene.State, scene.Transition) (scene.Screen, error) {
		return stubScreen{kind: k}, nil
	}
}

func TestCreate(t *testing.T) {
	r := New()
	r.Register(scene.KindMenu, stubFactory(scene.KindMenu))

	s, err := r.Create(nil, nil, scene.ToMenu())
	if err != nil {
		t.Fatalf("Create(menu): %v", err)
	}
	if s.(stubScreen).kind != scene.KindMenu {
		t.Errorf("Create(menu) built %v", s)
	}

	_, err = r.Create(nil, nil, scene.ToEditor(nil))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Create(editor) error = %v, expected ErrUnknownKind", err)
	}
}

func TestCreatePropagatesFactoryError(t *testing.T) {
	boom := errors.New("boom")
	r := New()
	r.Register(scene.KindPlay, func(core.Platform, *scene.State, scene.Transition) (scene.Screen, error) {
		return nil, boom
	})

	if _, err := r.Create(nil, nil, scene.ToPlay(nil)); !errors.Is(err, boom) {
		t.Errorf("Create error = %v, expected factory error", err)
	}
}

func TestMissing(t *testing.T) {
	r := New()
	if got := len(r.Missing()); got != len(scene.Kinds()) {
		t.Errorf("empty registry misses %d kinds, expected %d", got, len(scene.Kinds()))
	}

	for _, k := range scene.Kinds() {
		r.Register(k, stubFactory(k))
	}
	if missing := r.Missing(); len(missing) != 0 {
		t.Errorf("Missing() = %v, expected none", missing)
	}
	if !r.Exists(scene.KindLose) {
		t.Error("Exists(lose) = false")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New()
	r.Register(scene.KindWin, stubFactory(scene.KindWin))

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	r.Register(scene.KindWin, stubFactory(scene.KindWin))
}
