package domain

import (
	"fmt"
	"testing"
	"time"
)

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestBootstrapDefaults(t *testing.T) {
	t.Parallel()
	snap := Bootstrap("tag-1")
	if len(snap.Tags) != 1 || !snap.Tags[0].IsDefault || snap.Tags[0].Name != DefaultTagName {
		t.Fatalf("expected one default tag, got %+v", snap.Tags)
	}
	if snap.Settings.DefaultFocusSec != 1500 || snap.Settings.DefaultBreakSec != 300 || snap.Settings.Theme != ThemeLight {
		t.Fatalf("unexpected default settings %+v", snap.Settings)
	}
	if snap.Profile.Name != "Student" {
		t.Fatalf("unexpected default profile %+v", snap.Profile)
	}
	if len(snap.Sessions) != 0 || len(snap.Unlocks) != 0 {
		t.Fatalf("expected empty history")
	}
}

func TestRepairDefault(t *testing.T) {
	t.Parallel()
	empty := RepairDefault(nil, seqID())
	if len(empty) != 1 || !empty[0].IsDefault || empty[0].ID != "id-1" {
		t.Fatalf("empty tag list should get a fresh default, got %+v", empty)
	}

	none := RepairDefault([]Tag{{ID: "a", Name: "Math"}, {ID: "b"}}, seqID())
	if len(none) != 3 || none[0].ID != "id-1" || none[0].Name != DefaultTagName || !none[0].IsDefault {
		t.Fatalf("a list without a default should get a fresh Default tag in front, got %+v", none)
	}
	if none[1].ID != "a" || none[1].IsDefault || none[2].IsDefault {
		t.Fatalf("existing tags must not be promoted, got %+v", none)
	}

	many := []Tag{{ID: "a"}, {ID: "b", IsDefault: true}, {ID: "c", IsDefault: true}}
	repaired := RepairDefault(many, seqID())
	if repaired[0].IsDefault || !repaired[1].IsDefault || repaired[2].IsDefault {
		t.Fatalf("only the first default should survive, got %+v", repaired)
	}
	if !many[2].IsDefault {
		t.Fatalf("input slice must not be mutated")
	}
}

func TestNormalizeFillsMissingFields(t *testing.T) {
	t.Parallel()
	snap := Normalize(Snapshot{Settings: AppSettings{Theme: "sepia"}}, seqID())
	if snap.Settings.DefaultFocusSec != DefaultFocusSec || snap.Settings.DefaultBreakSec != DefaultBreakSec {
		t.Fatalf("durations should fall back to defaults, got %+v", snap.Settings)
	}
	if snap.Settings.Theme != ThemeLight {
		t.Fatalf("unknown theme should fall back to light, got %s", snap.Settings.Theme)
	}
	if snap.Profile.Name != DefaultProfileName || snap.Sessions == nil || snap.Unlocks == nil {
		t.Fatalf("profile and collections should be initialised, got %+v", snap)
	}
	if _, ok := snap.DefaultTag(); !ok {
		t.Fatalf("normalized snapshot must have a default tag")
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()
	snap := Snapshot{
		Tags:     []Tag{{ID: "a", PreferredFocusSec: Ptr(600)}},
		Sessions: []StudySession{{ID: "s", ReflectionFocused: Ptr(true), StartedAt: time.Unix(0, 0)}},
		Unlocks:  []AchievementUnlock{{ID: "firstSession"}},
	}
	clone := snap.Clone()
	*clone.Tags[0].PreferredFocusSec = 1
	*clone.Sessions[0].ReflectionFocused = false
	clone.Unlocks[0].ID = "changed"
	if *snap.Tags[0].PreferredFocusSec != 600 || !*snap.Sessions[0].ReflectionFocused || snap.Unlocks[0].ID != "firstSession" {
		t.Fatalf("clone shares memory with original: %+v", snap)
	}
}

func TestLookups(t *testing.T) {
	t.Parallel()
	snap := Snapshot{
		Tags:    []Tag{{ID: "a"}, {ID: "b", IsDefault: true}},
		Unlocks: []AchievementUnlock{{ID: "x"}},
	}
	if tag, ok := snap.TagByID("a"); !ok || tag.ID != "a" {
		t.Fatalf("expected tag a")
	}
	if _, ok := snap.TagByID(""); ok {
		t.Fatalf("empty id must not resolve")
	}
	if tag, ok := snap.DefaultTag(); !ok || tag.ID != "b" {
		t.Fatalf("expected default b")
	}
	if _, ok := snap.Unlock("x"); !ok {
		t.Fatalf("expected unlock x")
	}
	if (Tag{}).HasDurationOverride() || !(Tag{PreferredBreakSec: Ptr(60)}).HasDurationOverride() {
		t.Fatalf("override detection wrong")
	}
}
