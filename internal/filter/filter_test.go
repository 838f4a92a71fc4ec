package filter

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/meetup-sync/internal/logger"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int {
	return &v
}

// buildList renders a ul whose events have the given timestamps. A zero
// timestamp produces an event without a time element.
func buildList(t *testing.T, timestamps ...int64) *goquery.Selection {
	t.Helper()

	var b strings.Builder
	b.WriteString("<ul>")
	for i, ts := range timestamps {
		fmt.Fprintf(&b, `<li class="list-none"><div id="e-%d">`, i+1)
		if ts != 0 {
			fmt.Fprintf(&b, "<time>%d</time>", ts)
		}
		b.WriteString("</div></li>")
	}
	b.WriteString("</ul>")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc.Find("ul").First()
}

func newTestFilter(opts Options, buf *bytes.Buffer) *Filter {
	f := New(opts, logger.New(logger.LevelInfo, logger.FormatText, buf))
	f.SetClock(func() time.Time { return testNow })
	return f
}

// hiddenFlags reports, in order, whether each immediate event is hidden
func hiddenFlags(list *goquery.Selection) []bool {
	var flags []bool
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		flags = append(flags, li.HasClass(HiddenClass))
	})
	return flags
}

func TestFilter_Apply(t *testing.T) {
	past := testNow.Add(-48 * time.Hour).UnixMilli()
	future := testNow.Add(48 * time.Hour).UnixMilli()
	later := testNow.Add(96 * time.Hour).UnixMilli()

	tests := []struct {
		name        string
		opts        Options
		timestamps  []int64
		wantHidden  []bool
		wantVisible int
	}{
		{
			name:        "population cap hides the rest in order",
			opts:        Options{VisiblePopulation: intPtr(2)},
			timestamps:  []int64{future, future, later, later, later},
			wantHidden:  []bool{false, false, true, true, true},
			wantVisible: 2,
		},
		{
			name:        "finished events shown when not hiding them",
			opts:        Options{VisiblePopulation: intPtr(2)},
			timestamps:  []int64{past, future, later},
			wantHidden:  []bool{false, false, true},
			wantVisible: 2,
		},
		{
			name:        "finished event hidden without using a slot",
			opts:        Options{HideFinishedEvents: true, VisiblePopulation: intPtr(2)},
			timestamps:  []int64{past, future, later},
			wantHidden:  []bool{true, false, false},
			wantVisible: 2,
		},
		{
			name:        "finished event hidden with unlimited population",
			opts:        Options{HideFinishedEvents: true},
			timestamps:  []int64{future, past, later},
			wantHidden:  []bool{false, true, false},
			wantVisible: 2,
		},
		{
			name:        "unlimited population shows everything",
			opts:        Options{},
			timestamps:  []int64{past, future, later, later},
			wantHidden:  []bool{false, false, false, false},
			wantVisible: 4,
		},
		{
			name:        "zero population hides everything",
			opts:        Options{VisiblePopulation: intPtr(0)},
			timestamps:  []int64{future, later},
			wantHidden:  []bool{true, true},
			wantVisible: 0,
		},
		{
			name:        "event without time only obeys the cap",
			opts:        Options{HideFinishedEvents: true, VisiblePopulation: intPtr(1)},
			timestamps:  []int64{0, future},
			wantHidden:  []bool{false, true},
			wantVisible: 1,
		},
		{
			name:        "empty list",
			opts:        Options{VisiblePopulation: intPtr(2)},
			timestamps:  nil,
			wantHidden:  nil,
			wantVisible: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			list := buildList(t, tt.timestamps...)

			stats, err := newTestFilter(tt.opts, &buf).Apply(list)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}

			if stats.Visible != tt.wantVisible {
				t.Errorf("Visible = %d, want %d", stats.Visible, tt.wantVisible)
			}
			if stats.Total != len(tt.timestamps) {
				t.Errorf("Total = %d, want %d", stats.Total, len(tt.timestamps))
			}

			got := hiddenFlags(list)
			if len(got) != len(tt.wantHidden) {
				t.Fatalf("got %d events, want %d", len(got), len(tt.wantHidden))
			}
			for i := range got {
				if got[i] != tt.wantHidden[i] {
					t.Errorf("event %d hidden = %v, want %v", i, got[i], tt.wantHidden[i])
				}
			}

			summary := fmt.Sprintf("%d / %d events are to be displayed", tt.wantVisible, len(tt.timestamps))
			if !strings.Contains(buf.String(), summary) {
				t.Errorf("log missing %q: %s", summary, buf.String())
			}
		})
	}
}

func TestFilter_Apply_StrictlyBeforeNow(t *testing.T) {
	var buf bytes.Buffer
	list := buildList(t, testNow.UnixMilli())

	stats, err := newTestFilter(Options{HideFinishedEvents: true}, &buf).Apply(list)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if stats.Visible != 1 {
		t.Errorf("event starting exactly now should stay visible")
	}
}

func TestFilter_Apply_KeepsExistingClasses(t *testing.T) {
	var buf bytes.Buffer
	list := buildList(t, testNow.Add(time.Hour).UnixMilli(), testNow.Add(2*time.Hour).UnixMilli())

	if _, err := newTestFilter(Options{VisiblePopulation: intPtr(1)}, &buf).Apply(list); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	class, _ := list.ChildrenFiltered("li").Eq(1).Attr("class")
	if class != "list-none hidden" {
		t.Errorf("class = %q, want %q", class, "list-none hidden")
	}
}

func TestFilter_Apply_CreatesClassAttribute(t *testing.T) {
	var buf bytes.Buffer
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<ul><li>a</li><li>b</li></ul>`))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	list := doc.Find("ul")

	if _, err := newTestFilter(Options{VisiblePopulation: intPtr(1)}, &buf).Apply(list); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	class, ok := list.ChildrenFiltered("li").Eq(1).Attr("class")
	if !ok || class != HiddenClass {
		t.Errorf("class = %q (present %v), want %q", class, ok, HiddenClass)
	}

	// Events without times are logged by position when they have no div id
	if !strings.Contains(buf.String(), "event=element 0") {
		t.Errorf("log missing positional label: %s", buf.String())
	}
}

func TestFilter_Apply_OnlyImmediateChildren(t *testing.T) {
	var buf bytes.Buffer
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<ul>
			<li><ul><li>nested one</li><li>nested two</li></ul></li>
			<li>second</li>
		</ul>`))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	list := doc.Find("ul").First()

	stats, err := newTestFilter(Options{VisiblePopulation: intPtr(1)}, &buf).Apply(list)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	if stats.Total != 2 {
		t.Errorf("Total = %d, want 2", stats.Total)
	}
	if doc.Find("ul ul li." + HiddenClass).Length() != 0 {
		t.Error("nested events must not be touched")
	}
}

func TestFilter_Apply_LogsLabelForUntimedEvent(t *testing.T) {
	var buf bytes.Buffer
	list := buildList(t, 0)

	if _, err := newTestFilter(Options{}, &buf).Apply(list); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	if !strings.Contains(buf.String(), "No time found for event event=e-1") {
		t.Errorf("log missing labelled diagnostic: %s", buf.String())
	}
}

func TestFilter_Apply_InvalidTimestamp(t *testing.T) {
	var buf bytes.Buffer
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<ul><li><time>Sat, Nov 11, 2023, 4:00 PM UTC+11</time></li></ul>`))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}

	if _, err := newTestFilter(Options{}, &buf).Apply(doc.Find("ul")); err == nil {
		t.Error("Apply() expected error for a time that was not rewritten")
	}
}

func TestAppendClass(t *testing.T) {
	original := make([]string, 2, 8)
	original[0], original[1] = "list-none", "flex"

	got := AppendClass(original, HiddenClass)
	again := AppendClass(original, "other")

	if strings.Join(got, " ") != "list-none flex hidden" {
		t.Errorf("AppendClass() = %v", got)
	}
	// Spare capacity in the input must not be shared between results
	if got[2] != HiddenClass {
		t.Errorf("first result changed by second call: %v", got)
	}
	if len(original) != 2 {
		t.Errorf("input modified: %v", original)
	}
	if strings.Join(again, " ") != "list-none flex other" {
		t.Errorf("AppendClass() = %v", again)
	}

	if got := AppendClass(nil, HiddenClass); len(got) != 1 || got[0] != HiddenClass {
		t.Errorf("AppendClass(nil) = %v", got)
	}

	dup := AppendClass([]string{HiddenClass}, HiddenClass)
	if len(dup) != 2 {
		t.Errorf("AppendClass() should not collapse duplicates, got %v", dup)
	}
}

func TestOptions_String(t *testing.T) {
	tests := []struct {
		opts Options
		want string
	}{
		{Options{}, "Visible population: unlimited"},
		{Options{VisiblePopulation: intPtr(2)}, "Visible population: 2"},
		{Options{HideFinishedEvents: true, VisiblePopulation: intPtr(3)}, "Hide finished events | Visible population: 3"},
	}

	for _, tt := range tests {
		if got := tt.opts.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
