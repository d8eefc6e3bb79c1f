package sidebar

import (
	"math/rand"
	"slices"
	"testing"
)

func TestCollapseStore_Idempotent(t *testing.T) {
	c := NewCollapseStore()

	c.Unfold(CollapseFolder, "a")
	c.Unfold(CollapseFolder, "a")
	if !c.IsOpened(CollapseFolder, "a") {
		t.Fatal("a should be opened after unfold")
	}
	c.Fold(CollapseFolder, "a")
	c.Fold(CollapseFolder, "a")
	if c.IsOpened(CollapseFolder, "a") {
		t.Fatal("a should be folded after fold")
	}
}

func TestCollapseStore_NamespacesIndependent(t *testing.T) {
	c := NewCollapseStore()
	c.Unfold(CollapseFolder, "1")

	if c.IsOpened(CollapseLink, "1") || c.IsOpened(CollapseStorage, "1") {
		t.Error("folder key leaked into another namespace")
	}
	if c.IsOpened(CollapsableType(42), "1") {
		t.Error("unknown type should never be opened")
	}
	c.Unfold(CollapsableType(42), "1") // no panic
}

func TestCollapseStore_ToggleMatchesModel(t *testing.T) {
	c := NewCollapseStore()
	model := map[string]bool{}
	keys := []string{"a", "b", "c"}
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		k := keys[rng.Intn(len(keys))]
		switch rng.Intn(3) {
		case 0:
			c.Fold(CollapseFolder, k)
			model[k] = false
		case 1:
			c.Unfold(CollapseFolder, k)
			model[k] = true
		case 2:
			c.Toggle(CollapseFolder, k)
			model[k] = !model[k]
		}
		for _, key := range keys {
			if got := c.IsOpened(CollapseFolder, key); got != model[key] {
				t.Fatalf("step %d: IsOpened(%s) = %v, want %v", i, key, got, model[key])
			}
		}
	}
}

func TestCollapseStore_NotifiesOnChangeOnly(t *testing.T) {
	c := NewCollapseStore()
	var got []CollapsableType
	unsubscribe := c.Subscribe(func(ct CollapsableType) { got = append(got, ct) })

	v0 := c.Version()
	c.Unfold(CollapseLink, "x")
	c.Unfold(CollapseLink, "x")
	c.Fold(CollapseStorage, "never-opened")

	if len(got) != 1 || got[0] != CollapseLink {
		t.Errorf("notifications = %v, want [link]", got)
	}
	if c.Version() == v0 {
		t.Error("Version() did not change")
	}
	if c.TypeVersion(CollapseStorage) != 0 {
		t.Error("storage version changed without a change")
	}

	unsubscribe()
	c.Toggle(CollapseLink, "x")
	if len(got) != 1 {
		t.Errorf("notified after unsubscribe: %v", got)
	}
}

func TestCollapseStore_SnapshotRestore(t *testing.T) {
	c := NewCollapseStore()
	c.Unfold(CollapseFolder, "b")
	c.Unfold(CollapseFolder, "a")
	c.Unfold(CollapseStorage, "sp-1")

	sets := c.Snapshot()
	if !slices.Equal(sets.Folders, []string{"a", "b"}) || len(sets.Links) != 0 || !slices.Equal(sets.Storages, []string{"sp-1"}) {
		t.Fatalf("Snapshot() = %+v", sets)
	}

	other := NewCollapseStore()
	notified := 0
	other.Subscribe(func(CollapsableType) { notified++ })
	other.Restore(sets)

	if !other.IsOpened(CollapseFolder, "a") || !other.IsOpened(CollapseStorage, "sp-1") {
		t.Error("Restore() lost keys")
	}
	if notified != 3 {
		t.Errorf("Restore() notified %d times, want 3", notified)
	}
}
