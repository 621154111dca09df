package tui

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/menubook/internal/menu"
)

func TestLoadBook(t *testing.T) {
	book := testBook("Harbour Cafe")
	msg := loadBook(context.Background(), func(ctx context.Context) (*menu.Book, error) {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatalf("reload should run with a deadline")
		}
		return book, nil
	})
	if msg.Book != book || msg.Err != nil {
		t.Fatalf("expected the book, got %#v", msg)
	}

	boom := errors.New("boom")
	msg = loadBook(context.Background(), func(context.Context) (*menu.Book, error) { return nil, boom })
	if !errors.Is(msg.Err, boom) {
		t.Fatalf("expected ReloadMsg carrying the error, got %#v", msg)
	}
}

func TestReloadsNumbersLoads(t *testing.T) {
	r := newReloads(log.New(io.Discard, "", 0))
	load := func(context.Context) (*menu.Book, error) { return testBook("Harbour Cafe"), nil }
	if cmd := r.start(load); cmd == nil {
		t.Fatalf("start should return a command")
	}
	r.start(load)
	if !r.stale(ReloadMsg{seq: 1}) {
		t.Fatalf("first load should be stale once a second started")
	}
	if r.stale(ReloadMsg{seq: 2}) || r.stale(ReloadMsg{}) {
		t.Fatalf("latest and external results should be accepted")
	}
}

func TestStartReloadWithoutLoader(t *testing.T) {
	h := newHarness(t, testBook("Harbour Cafe"))
	if cmd := h.send(keyPress("r")); cmd != nil {
		t.Fatalf("reload without a loader should be a no-op")
	}
	if cmd := h.send(SourceChangedMsg{}); cmd != nil {
		t.Fatalf("source change without a loader should be a no-op")
	}
}

func TestFindLinks(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{text: "no links here", want: nil},
		{text: "Order at https://order.example.com/cafe.", want: []string{"https://order.example.com/cafe"}},
		{text: "see http://a.example.com, then https://b.example.com/x?y=1!", want: []string{"http://a.example.com", "https://b.example.com/x?y=1"}},
	}
	for _, tc := range cases {
		if got := findLinks(tc.text); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("findLinks(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestAutolinkKeepsPunctuation(t *testing.T) {
	text := "Book at https://book.example.com."
	if got := autolink(text, lipgloss.NewStyle()); got != text {
		t.Fatalf("autolink() = %q, want %q", got, text)
	}
}

func TestSectionDigit(t *testing.T) {
	if n, ok := sectionDigit("1"); !ok || n != 0 {
		t.Fatalf("sectionDigit(1) = %d, %v", n, ok)
	}
	if n, ok := sectionDigit("9"); !ok || n != 8 {
		t.Fatalf("sectionDigit(9) = %d, %v", n, ok)
	}
	for _, s := range []string{"0", "a", "10", ""} {
		if _, ok := sectionDigit(s); ok {
			t.Fatalf("sectionDigit(%q) should be rejected", s)
		}
	}
}

func TestContentsLinesJump(t *testing.T) {
	h := newHarness(t, testBook("Harbour Cafe"))
	lines := h.m.pageLines(h.m.book.Pages[1], h.m.layout.contentWidth())
	var labels []string
	for _, line := range lines {
		if line.action == actionJump {
			labels = append(labels, line.label)
		}
	}
	if !reflect.DeepEqual(labels, []string{"Desserts", "Drinks", "Mains"}) {
		t.Fatalf("contents jump labels = %v", labels)
	}
}
