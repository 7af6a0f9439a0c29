package viewer

import (
	"testing"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
)

func TestTabTitle(t *testing.T) {
	if got := TabTitle("/tmp/plots/pareto_loss_steps.png"); got != "pareto_loss_steps" {
		t.Fatalf("TabTitle = %q", got)
	}
}

func TestTabs(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	tabs := Tabs([]string{"plots/deadline_loss_mean_ci.png", "plots/overhead_mean_ci.png"})
	if len(tabs.Items) != 2 {
		t.Fatalf("want 2 tabs, got %d", len(tabs.Items))
	}
	if tabs.Items[1].Text != "overhead_mean_ci" {
		t.Fatalf("tab title %q", tabs.Items[1].Text)
	}
}

func TestNewWindow(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	w := NewWindow(a, "fecreport", nil)
	if _, ok := w.Content().(*widget.Label); !ok {
		t.Fatalf("empty window should show a label, got %T", w.Content())
	}
	w = NewWindow(a, "fecreport", []string{"a.png"})
	if _, ok := w.Content().(*container.AppTabs); !ok {
		t.Fatalf("want tabs, got %T", w.Content())
	}
}
