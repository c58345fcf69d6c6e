package registry

import (
	"testing"

	"github.com/dandantas/hush/internal/model"
)

func schedule(name string) *model.DowntimeSchedule {
	return &model.DowntimeSchedule{Name: name}
}

func TestRegisterAndGet(t *testing.T) {
	r := New()
	r.Register(schedule("web-01!backup"))

	got, ok := r.Get("web-01!backup")
	if !ok {
		t.Fatal("Get() returned ok = false after Register")
	}
	if got.Name != "web-01!backup" {
		t.Errorf("Get() name = %q, want %q", got.Name, "web-01!backup")
	}

	if _, ok := r.Get("missing"); ok {
		t.Error("Get() returned ok = true for unregistered name")
	}
}

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r := New()
	names := []string{"c!maint", "a!maint", "b!maint"}
	for _, n := range names {
		r.Register(schedule(n))
	}

	all := r.All()
	if len(all) != len(names) {
		t.Fatalf("All() returned %d schedules, want %d", len(all), len(names))
	}
	for i, want := range names {
		if all[i].Name != want {
			t.Errorf("All()[%d] = %q, want %q", i, all[i].Name, want)
		}
	}
}

func TestReRegisterKeepsPosition(t *testing.T) {
	r := New()
	r.Register(schedule("first!x"))
	r.Register(schedule("second!x"))

	replacement := schedule("first!x")
	replacement.Comment = "updated"
	r.Register(replacement)

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d schedules, want 2", len(all))
	}
	if all[0].Name != "first!x" || all[0].Comment != "updated" {
		t.Errorf("re-registered schedule not replaced in place: %+v", all[0])
	}
}

func TestUnregister(t *testing.T) {
	r := New()
	r.Register(schedule("a!x"))
	r.Register(schedule("b!x"))
	r.Register(schedule("c!x"))

	r.Unregister("b!x")
	r.Unregister("never-registered")

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	all := r.All()
	if all[0].Name != "a!x" || all[1].Name != "c!x" {
		t.Errorf("order after Unregister = [%q, %q], want [a!x, c!x]", all[0].Name, all[1].Name)
	}
}
