package report

import (
	"bytes"
	"testing"
	"time"
)

func TestListRecordAndMerge(t *testing.T) {
	var run List
	run.Record("first")

	var stage List
	stage.Recordf("Failed to export the artboard: %s.", "icon")
	stage.Record("first")

	run.Merge(&stage)
	run.Merge(nil)

	want := []string{"first", "Failed to export the artboard: icon.", "first"}
	got := run.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	got[0] = "mutated"
	if run.Entries()[0] != "first" {
		t.Errorf("Entries() must return a copy")
	}
}

func TestNilListIsEmpty(t *testing.T) {
	var l *List
	if !l.Empty() {
		t.Errorf("Empty() on nil list = false, want true")
	}
	if l.Entries() != nil {
		t.Errorf("Entries() on nil list = %v, want nil", l.Entries())
	}
}

func TestNotice(t *testing.T) {
	withErrors := &List{}
	withErrors.Record("a")
	withErrors.Record("b")

	tests := []struct {
		name    string
		list    *List
		elapsed time.Duration
		timing  bool
		want    string
		wantOK  bool
	}{
		{
			name:   "errors win over timing",
			list:   withErrors,
			timing: true,
			want:   "The following errors occurred:\na\nb",
			wantOK: true,
		},
		{
			name:    "timing when clean",
			list:    &List{},
			elapsed: 1500 * time.Millisecond,
			timing:  true,
			want:    "Execution took 1500 milliseconds.",
			wantOK:  true,
		},
		{
			name:   "nothing to say",
			list:   &List{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Notice(tt.list, tt.elapsed, tt.timing)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Notice() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFlushWritesNothingWhenSilent(t *testing.T) {
	var buf bytes.Buffer
	if err := Flush(&buf, &List{}, time.Second, false); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Flush() wrote %q, want nothing", buf.String())
	}
}
