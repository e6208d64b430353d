package table

import (
	"reflect"
	"testing"

	"golang.org/x/text/language"

	"github.com/prabalesh/tasktop/internal/models"
)

func testSorter() Sorter {
	return Sorter{Schema: models.DefaultSchema(), Locale: language.Und}
}

func TestSortByName(t *testing.T) {
	body := []string{
		row("foo.exe", 100, "500 K", "0:00:01", "N/A"),
		row("bar.exe", 50, "900 K", "0:00:02", "N/A"),
		row("baz.exe", 70, "100 K", "0:00:03", "N/A"),
	}
	got := names(testSorter().Sort(body, models.SortState{Key: models.SortByName}))
	want := []string{"bar.exe", "baz.exe", "foo.exe"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	got = names(testSorter().Sort(body, models.SortState{Key: models.SortByName, Inverted: true}))
	want = []string{"foo.exe", "baz.exe", "bar.exe"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("inverted order = %v, want %v", got, want)
	}
}

func TestSortMagnitudeDefaultsDescending(t *testing.T) {
	body := []string{
		row("foo.exe", 100, "500 K", "0:00:01", "N/A"),
		row("bar.exe", 50, "900 K", "0:00:09", "N/A"),
		row("qux.exe", 60, "700 K", "0:00:05", "N/A"),
	}
	for _, key := range []models.SortKey{models.SortByMemoryUsage, models.SortByCPUTime} {
		got := names(testSorter().Sort(body, models.SortState{Key: key}))
		want := []string{"bar.exe", "qux.exe", "foo.exe"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%v: order = %v, want %v", key, got, want)
		}
		got = names(testSorter().Sort(body, models.SortState{Key: key, Inverted: true}))
		want = []string{"foo.exe", "qux.exe", "bar.exe"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%v inverted: order = %v, want %v", key, got, want)
		}
	}
}

func TestSortByPIDRightAligned(t *testing.T) {
	body := []string{
		row("a.exe", 1200, "1 K", "0:00:00", "N/A"),
		row("b.exe", 8, "1 K", "0:00:00", "N/A"),
		row("c.exe", 64, "1 K", "0:00:00", "N/A"),
	}
	got := names(testSorter().Sort(body, models.SortState{Key: models.SortByPID}))
	want := []string{"b.exe", "c.exe", "a.exe"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestSortStable(t *testing.T) {
	body := []string{
		row("dup.exe", 3, "1 K", "0:00:00", "first"),
		row("aaa.exe", 9, "1 K", "0:00:00", "N/A"),
		row("dup.exe", 1, "1 K", "0:00:00", "second"),
		row("dup.exe", 2, "1 K", "0:00:00", "third"),
	}
	got := testSorter().Sort(body, models.SortState{Key: models.SortByName})
	want := []string{body[1], body[0], body[2], body[3]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("equal keys were reordered:\n%q", got)
	}
}

func TestSortIdempotent(t *testing.T) {
	body := []string{
		row("foo.exe", 100, "500 K", "0:00:01", "N/A"),
		row("bar.exe", 50, "900 K", "0:00:02", "N/A"),
		row("foo.exe", 30, "900 K", "0:00:02", "N/A"),
		row("baz.exe", 70, "100 K", "0:00:03", "N/A"),
	}
	s := testSorter()
	for _, key := range models.SortKeys() {
		for _, inverted := range []bool{false, true} {
			state := models.SortState{Key: key, Inverted: inverted}
			once := s.Sort(body, state)
			twice := s.Sort(once, state)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("%v: second sort changed order", state)
			}
		}
	}
}

func TestSortToggleLaw(t *testing.T) {
	body := []string{
		row("foo.exe", 100, "500 K", "0:00:01", "N/A"),
		row("bar.exe", 50, "900 K", "0:00:07", "N/A"),
		row("baz.exe", 70, "100 K", "0:00:03", "N/A"),
	}
	s := testSorter()
	for _, key := range models.SortKeys() {
		state := models.SortState{Key: key}
		first := s.Sort(body, state)

		toggled := state.Select(key)
		if !toggled.Inverted {
			t.Fatalf("%v: reselecting did not invert", key)
		}
		back := toggled.Select(key)
		if !reflect.DeepEqual(s.Sort(body, back), first) {
			t.Errorf("%v: two toggles did not restore order", key)
		}
		if !reflect.DeepEqual(s.Sort(body, toggled), s.Sort(body, models.SortState{Key: key, Inverted: true})) {
			t.Errorf("%v: one toggle differs from inverted sort", key)
		}
	}
}

func TestSortDegenerate(t *testing.T) {
	s := testSorter()
	if got := s.Sort(nil, models.SortState{}); len(got) != 0 {
		t.Errorf("Sort(nil) = %q", got)
	}
	one := []string{"only"}
	if got := s.Sort(one, models.SortState{Inverted: true}); !reflect.DeepEqual(got, one) {
		t.Errorf("Sort(one) = %q", got)
	}
}

func TestSortDoesNotModifyInput(t *testing.T) {
	body := []string{row("b.exe", 1, "", "", ""), row("a.exe", 2, "", "", "")}
	orig := append([]string(nil), body...)
	testSorter().Sort(body, models.SortState{})
	if !reflect.DeepEqual(body, orig) {
		t.Error("input slice was reordered")
	}
}
