package thin

import (
	"errors"
	"strings"
	"testing"

	"github.com/grailbio/archaic/interval"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

// tabs turns a space-separated line into a tab-separated one.
func tabs(s string) string { return strings.Replace(s, " ", "\t", -1) }

func line(t *testing.T, f *Filter, in string) string {
	out, err := f.Line([]byte(in))
	assert.NoError(t, err)
	return string(out)
}

func TestFilterNoOp(t *testing.T) {
	f := NewFilter(nil, nil)
	for _, in := range []string{"## stuff", "## stuff", "# stuff", "stuff", "stuff\n", "stuff\tstuff\n"} {
		expect.EQ(t, line(t, f, in), in)
	}
	expect.EQ(t, f.State(), FilterBody)
}

func TestFilterBED(t *testing.T) {
	f := NewFilter([]interval.Interval{{Start: 3, End: 4}, {Start: 5, End: 6}}, nil)
	expect.EQ(t, line(t, f, "## stuff"), "## stuff")
	expect.EQ(t, f.State(), AwaitHeader)
	expect.EQ(t, line(t, f, "# stuff"), "# stuff")
	expect.EQ(t, f.State(), FilterBody)
	tests := []struct {
		pos  string
		keep bool
	}{
		{"3", false},
		{"4", true},
		{"5", false},
		{"6", true},
		{"7", false},
	}
	for _, tt := range tests {
		in := tabs("3 " + tt.pos + " a b c d e f g ./. 0|0 1|1\n")
		want := ""
		if tt.keep {
			want = in
		}
		expect.EQ(t, line(t, f, in), want, "pos %s", tt.pos)
	}
}

func TestFilterBEDNoBacktrack(t *testing.T) {
	f := NewFilter([]interval.Interval{{Start: 10, End: 20}, {Start: 30, End: 50}}, nil)
	line(t, f, "# stuff")
	tests := []struct {
		pos  string
		keep bool
	}{
		{"1", false},
		{"10", false},
		{"15", true},
		{"20", true},
		{"21", false},
		{"35", true},
		{"51", false},
		{"61", false},
		// Would be in [31, 51) but the cursor is past every interval.
		{"40", false},
	}
	for _, tt := range tests {
		in := tabs("3 " + tt.pos + " a b c d e f g ./. 0|0 1|1\n")
		expect.EQ(t, line(t, f, in) != "", tt.keep, "pos %s", tt.pos)
	}
}

func TestFilterEmptyIntervals(t *testing.T) {
	f := NewFilter([]interval.Interval{}, nil)
	expect.EQ(t, line(t, f, "##x\n"), "##x\n")
	expect.EQ(t, line(t, f, tabs("1 5 a b c d e f g\n")), "")
}

func TestFilterIndividuals(t *testing.T) {
	f := NewFilter(nil, []string{"u1", "u3"})
	expect.EQ(t, line(t, f, "## stuff"), "## stuff")
	expect.EQ(t, line(t, f, tabs("#c p a b c d e f g u1 u2 u3\n")), tabs("#c p a b c d e f g u1 u3\n"))
	expect.EQ(t, f.Columns(), []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 11})
	expect.EQ(t, line(t, f, tabs("3 1 a b c d e f g ./. 0|0 1|1\n")), tabs("3 1 a b c d e f g ./. 1|1\n"))

	f = NewFilter(nil, []string{"u1"})
	expect.EQ(t, line(t, f, tabs("#c p a b c d e f g u1 u2 u3\n")), tabs("#c p a b c d e f g u1\n"))
	expect.EQ(t, line(t, f, tabs("3 1 a b c d e f g ./. 0|0 1|1\n")), tabs("3 1 a b c d e f g ./.\n"))
	// Lines without a newline get one.
	expect.EQ(t, line(t, f, tabs("3 2 a b c d e f g 0|1 0|0 1|1")), tabs("3 2 a b c d e f g 0|1\n"))
}

func TestFilterIndividualsOrder(t *testing.T) {
	// Columns follow the header, not the allow-list; unknown names are ignored.
	f := NewFilter(nil, []string{"i5", "i7", "i10", "i1"})
	line(t, f, tabs("#c p a b c d e f g i1 i2 i3 i4 i5 i6 i7 i8 i9 i1000\n"))
	expect.EQ(t, f.Columns()[9:], []int{9, 13, 15})

	f = NewFilter(nil, []string{})
	expect.EQ(t, line(t, f, tabs("#c p a b c d e f g i1 i2\n")), tabs("#c p a b c d e f g\n"))
}

func TestFilterBoth(t *testing.T) {
	f := NewFilter([]interval.Interval{{Start: 10, End: 20}, {Start: 30, End: 50}}, []string{"u1", "u3"})
	expect.EQ(t, line(t, f, "## stuff"), "## stuff")
	expect.EQ(t, line(t, f, tabs("#c p a b c d e f g u1 u2 u3\n")), tabs("#c p a b c d e f g u1 u3\n"))
	expect.EQ(t, line(t, f, tabs("3 11 a b c d e f g ./. 0|0 1|1\n")), tabs("3 11 a b c d e f g ./. 1|1\n"))
	expect.EQ(t, line(t, f, tabs("3 61 a b c d e f g ./. 0|0 1|1\n")), "")
}

func TestFilterBodyBeforeHeader(t *testing.T) {
	// Not projected: the columns are unknown until the header.
	f := NewFilter([]interval.Interval{{Start: 10, End: 20}}, []string{"u1"})
	in := tabs("3 11 a b c d e f g ./. 0|0\n")
	expect.EQ(t, line(t, f, in), in)
	expect.EQ(t, f.State(), AwaitHeader)
}

func TestFilterBlankLines(t *testing.T) {
	f := NewFilter([]interval.Interval{{Start: 10, End: 20}}, nil)
	expect.EQ(t, line(t, f, "\n"), "")
	expect.EQ(t, line(t, f, ""), "")
}

func TestFilterErrors(t *testing.T) {
	f := NewFilter([]interval.Interval{{Start: 10, End: 20}}, []string{"u1"})
	line(t, f, "##x\n")
	_, err := f.Line([]byte(tabs("3 eleven a b c d e f g\n")))
	var lerr *LineError
	assert.True(t, errors.As(err, &lerr))
	expect.EQ(t, lerr.Line, 2)

	line(t, f, tabs("#c p a b c d e f g u1\n"))
	_, err = f.Line([]byte(tabs("3 11 a b c\n")))
	assert.True(t, errors.As(err, &lerr))
	expect.EQ(t, lerr.Line, 4)
}
