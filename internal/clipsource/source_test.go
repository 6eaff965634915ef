package clipsource_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labi-le/richclip/internal/clipsource"
)

func TestSource_AllMimes_FirstAppearanceOrder(t *testing.T) {
	s := clipsource.New()
	s.Add([]string{"text/html", "text/plain"}, []byte("BAD"))
	s.Add([]string{"text/plain", "text/x-moz"}, []byte("GOOD"))
	s.Freeze()

	got := s.AllMimes()
	want := []string{"text/html", "text/plain", "text/x-moz"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AllMimes() mismatch (-want +got):\n%s", diff)
	}
}

func TestSource_Lookup_FirstOfferWins(t *testing.T) {
	s := clipsource.New()
	s.Add([]string{"text/plain"}, []byte("first"))
	s.Add([]string{"text/plain"}, []byte("second"))
	s.Freeze()

	got, ok := s.Lookup("text/plain")
	if !ok {
		t.Fatal("Lookup(text/plain) = false, want true")
	}
	if string(got) != "first" {
		t.Errorf("Lookup(text/plain) = %q, want %q", got, "first")
	}
}

func TestSource_Lookup_CaseSensitive(t *testing.T) {
	s := clipsource.New()
	s.Add([]string{"TypE"}, []byte("x"))
	s.Freeze()

	if _, ok := s.Lookup("type"); ok {
		t.Error("Lookup(type) matched TypE, want case-sensitive exact match only")
	}
	if _, ok := s.Lookup("TypE"); !ok {
		t.Error("Lookup(TypE) = false, want true")
	}
}

func TestOneShot_DefaultMimes(t *testing.T) {
	s := clipsource.OneShot(nil, []byte("TestDaTA\n"))

	if diff := cmp.Diff(clipsource.DefaultOneShotMimes, s.AllMimes()); diff != "" {
		t.Errorf("OneShot default mimes mismatch (-want +got):\n%s", diff)
	}

	got, ok := s.Lookup("text/plain")
	if !ok || string(got) != "TestDaTA\n" {
		t.Errorf("Lookup(text/plain) = %q, %v, want %q, true", got, ok, "TestDaTA\n")
	}
}

func TestOneShot_CustomMimes(t *testing.T) {
	s := clipsource.OneShot([]string{"TypE", "Faker"}, []byte("TestDaTA"))

	if diff := cmp.Diff([]string{"TypE", "Faker"}, s.AllMimes()); diff != "" {
		t.Errorf("AllMimes() mismatch (-want +got):\n%s", diff)
	}

	got, ok := s.Lookup("Faker")
	if !ok || string(got) != "TestDaTA" {
		t.Errorf("Lookup(Faker) = %q, %v, want %q, true", got, ok, "TestDaTA")
	}
}

func TestAdd_PanicsAfterFreeze(t *testing.T) {
	s := clipsource.New()
	s.Freeze()

	defer func() {
		if recover() == nil {
			t.Error("Add after Freeze did not panic")
		}
	}()
	s.Add([]string{"text/plain"}, []byte("x"))
}
