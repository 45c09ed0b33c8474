package forum

import (
	"errors"
	"testing"
)

func TestComposer_ToggleOpensClosesAndMoves(t *testing.T) {
	t.Parallel()

	var c Composer
	c = c.Toggle(3)
	if !c.Open(3) || c.State != ComposerComposing {
		t.Fatalf("expected composer open on 3, got %+v", c)
	}

	c.Text = "draft"
	c = c.Toggle(5)
	if !c.Open(5) || c.Open(3) {
		t.Fatalf("expected composer moved to 5, got %+v", c)
	}
	if c.Text != "" {
		t.Fatalf("moving the composer should clear it, got %q", c.Text)
	}

	c = c.Toggle(5)
	if c.State != ComposerHidden {
		t.Fatalf("second toggle on the same comment should close, got %+v", c)
	}
}

func TestComposer_CancelDiscards(t *testing.T) {
	t.Parallel()

	c := Composer{}.Toggle(1)
	c.Text = "half written"
	c = c.Cancel()
	if c.State != ComposerHidden || c.Text != "" {
		t.Fatalf("unexpected composer after cancel: %+v", c)
	}
}

func TestComposer_Submission(t *testing.T) {
	t.Parallel()

	c := Composer{}.Toggle(4)
	c.Text = "   \n\t"
	if _, _, err := c.Submission(); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if !c.Open(4) {
		t.Fatalf("blank submission must leave the composer open")
	}

	c.Text = "  count me in  "
	id, text, err := c.Submission()
	if err != nil || id != 4 || text != "count me in" {
		t.Fatalf("unexpected submission: %d %q %v", id, text, err)
	}

	if _, _, err := (Composer{Text: "x"}).Submission(); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("hidden composer must not submit")
	}
	if ComposerComposing.String() != "composing" || ComposerHidden.String() != "hidden" {
		t.Fatalf("unexpected state names")
	}
}
