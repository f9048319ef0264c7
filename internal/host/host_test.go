package host

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/appengine-ltd/smartnail/internal/nail"
	"github.com/appengine-ltd/smartnail/internal/settings"
)

func TestTransitionRunsHooksBeforeSceneSwap(t *testing.T) {
	h := New(nil)
	h.LoadGame(nail.Stats{Level: 1, Damage: 9}, "Town", nil)

	var order []string
	unsubscribe := h.Subscribe(nail.Handlers{
		TransitionBegin: func(dest string) {
			order = append(order, "begin:"+dest+":active="+h.ActiveScene())
		},
		SceneLoaded: func(scene string) {
			order = append(order, "loaded:"+scene)
		},
	})
	h.Transition("GG_Sly")

	want := []string{"begin:GG_Sly:active=Town", "loaded:GG_Sly"}
	if len(order) != len(want) {
		t.Fatalf("got %v want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v want %v", order, want)
		}
	}

	unsubscribe()
	if h.Subscribers() != 0 {
		t.Fatalf("expected no subscribers after unsubscribe")
	}
	h.Transition("Town")
	if len(order) != 2 {
		t.Fatalf("unsubscribed hooks still ran: %v", order)
	}
}

func TestNewGameFiresHooksInOrder(t *testing.T) {
	h := New(nil)
	var order []string
	h.Subscribe(nail.Handlers{
		BeforeStartNewGame: func() { order = append(order, "before") },
		EnterGame: func() {
			if _, ok := h.PlayerData(); !ok {
				t.Fatalf("player data must be loaded by enter game")
			}
			order = append(order, "enter")
		},
		SceneLoaded: func(scene string) { order = append(order, "scene:"+scene) },
	})
	h.NewGame(nail.Stats{Level: 0, Damage: 5}, "Tutorial_01")

	want := []string{"before", "enter", "scene:Tutorial_01"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("got %v want %v", order, want)
		}
	}
	if h.SessionID() == "" {
		t.Fatalf("expected a session id")
	}
	if got := h.Stats(); got.Damage != 5 {
		t.Fatalf("expected damage 5, got %+v", got)
	}
}

func TestModuleRegistrationAndPickup(t *testing.T) {
	h := New(nil)
	if _, ok := h.NailUpgrades(); ok {
		t.Fatalf("module should start unregistered")
	}
	h.RegisterModule(4, 2)
	h.Pickup(1)
	h.Pickup(0)
	mod, ok := h.NailUpgrades()
	if !ok || mod.UnclaimedUpgrades() != 3 || mod.DamagePerUpgrade() != 4 {
		t.Fatalf("unexpected module state ok=%v", ok)
	}
	if h.Gained() != 1 {
		t.Fatalf("expected 1 gained upgrade, got %d", h.Gained())
	}
	h.UnregisterModule()
	if _, ok := h.NailUpgrades(); ok {
		t.Fatalf("module should be hidden")
	}
}

func TestQuitToMenuUnloadsPlayer(t *testing.T) {
	h := New(nil)
	h.LoadGame(nail.Stats{}, "Town", nil)
	h.QuitToMenu()
	if _, ok := h.PlayerData(); ok {
		t.Fatalf("player data should be unloaded")
	}
	if h.ActiveScene() != MenuScene {
		t.Fatalf("expected menu scene, got %s", h.ActiveScene())
	}
}

func TestQueueRunsCommandsSerially(t *testing.T) {
	h := New(nil)
	q := NewQueue(0)
	if _, ok := q.Dequeue(); ok {
		t.Fatalf("empty queue should not dequeue")
	}

	done := make(chan struct{})
	q.Enqueue(func(h *Host) { h.LoadGame(nail.Stats{}, "Town", nil) })
	q.Enqueue(func(h *Host) { h.Save(1) })
	q.Enqueue(func(*Host) { close(done) })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- q.Run(ctx, h) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("queue did not drain")
	}
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if h.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", h.Saves())
	}
}

func TestQueueDropsWhenSaturated(t *testing.T) {
	q := NewQueue(1)
	if !q.Enqueue(func(*Host) {}) {
		t.Fatalf("first enqueue should fit")
	}
	if q.Enqueue(func(*Host) {}) {
		t.Fatalf("second enqueue should be dropped")
	}
	if q.Enqueue(nil) {
		t.Fatalf("nil command should be rejected")
	}
}

func TestSaveSlotsCarryLocalSettings(t *testing.T) {
	h := New(nil)
	local := settings.Local{StoredNailLevel: 2, StoredNailDamage: 13}
	var order []string
	h.Subscribe(nail.Handlers{
		LoadLocal: func(l *settings.Local) {
			if l == nil {
				order = append(order, "local:none")
				return
			}
			order = append(order, "local:"+strconv.Itoa(l.StoredNailLevel))
		},
		SaveLocal:          func() settings.Local { return local },
		BeforeStartNewGame: func() { order = append(order, "before") },
		EnterGame:          func() { order = append(order, "enter") },
	})

	h.NewGame(nail.Stats{Level: 2, Damage: 13}, "Town")
	h.Save(1)
	saved, ok := h.Slot(1)
	if !ok || saved.Stats != (nail.Stats{Level: 2, Damage: 13}) {
		t.Fatalf("slot 1 = %+v ok=%v", saved, ok)
	}
	if saved.Local == nil || *saved.Local != local {
		t.Fatalf("slot 1 local = %+v", saved.Local)
	}

	h.QuitToMenu()
	h.Save(2)
	if _, ok := h.Slot(2); ok {
		t.Fatalf("nothing should be saved without a loaded game")
	}

	h.LoadGame(saved.Stats, "Town", saved.Local)
	want := []string{"local:none", "before", "enter", "local:2", "enter"}
	if len(order) != len(want) {
		t.Fatalf("got %v want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v want %v", order, want)
		}
	}
}
