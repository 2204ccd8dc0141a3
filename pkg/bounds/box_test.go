package bounds

import (
	"context"
	"image"
	"math/rand"
	"testing"

	"github.com/yami-no-senshi/Blender-Python-tools/pkg/projection"
)

func px(x, y float64) projection.Pixel {
	return projection.Pixel{X: x, Y: y}
}

func randomPixels(r *rand.Rand, n int, w, h float64) []projection.Pixel {
	points := make([]projection.Pixel, n)
	for i := range points {
		points[i] = px(r.Float64()*w, r.Float64()*h)
	}
	return points
}

func TestNewIsInverted(t *testing.T) {
	b := New(1920, 1080)
	want := Box{Left: 1919, Top: 1079, Right: 0, Bottom: 0}
	if b != want {
		t.Errorf("New = %v, want %v", b, want)
	}
	if !b.Empty() {
		t.Error("initial box should be empty")
	}
	if b.Width() != 0 || b.Height() != 0 {
		t.Errorf("empty box size = %vx%v, want 0x0", b.Width(), b.Height())
	}
	if b.Rect() != (image.Rectangle{}) {
		t.Errorf("empty box rect = %v, want zero rectangle", b.Rect())
	}
}

func TestFoldSinglePoint(t *testing.T) {
	b := Fold(New(100, 100), px(30, 60))
	want := Box{Left: 30, Top: 60, Right: 30, Bottom: 60}
	if b != want {
		t.Errorf("Fold = %v, want %v", b, want)
	}
	if b.Empty() {
		t.Error("box with one point should not be empty")
	}
}

func TestFoldContainsEveryPoint(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	points := randomPixels(r, 200, 639, 479)

	b := Finalize(FoldAll(New(640, 480), points...), 640, 480)
	for _, p := range points {
		if !b.Contains(p) {
			t.Fatalf("box %v does not contain %v", b, p)
		}
	}
	if b.Left > b.Right || b.Top > b.Bottom {
		t.Errorf("finalized box is inverted: %v", b)
	}
}

func TestFinalizeClamps(t *testing.T) {
	tests := []struct {
		name   string
		points []projection.Pixel
		want   Box
	}{
		{
			"inside",
			[]projection.Pixel{px(10, 20), px(50, 5)},
			Box{Left: 10, Top: 5, Right: 50, Bottom: 20},
		},
		{
			"past right and bottom",
			[]projection.Pixel{px(10, 20), px(150, 300)},
			Box{Left: 10, Top: 20, Right: 99, Bottom: 49},
		},
		{
			"past left and top",
			[]projection.Pixel{px(-40, -3), px(20, 30)},
			Box{Left: 0, Top: 0, Right: 20, Bottom: 30},
		},
		{
			"entirely off screen",
			[]projection.Pixel{px(-10, -10), px(-5, -20)},
			Box{Left: 0, Top: 0, Right: 0, Bottom: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Finalize(FoldAll(New(100, 50), tc.points...), 100, 50)
			if got != tc.want {
				t.Errorf("Finalize = %v, want %v", got, tc.want)
			}
			if got.Left < 0 || got.Right > 99 || got.Top < 0 || got.Bottom > 49 {
				t.Errorf("box %v exceeds resolution", got)
			}
		})
	}
}

func TestFoldOrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	points := randomPixels(r, 50, 1200, 900)
	want := Finalize(FoldAll(New(1000, 800), points...), 1000, 800)

	for range 20 {
		shuffled := append([]projection.Pixel(nil), points...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := Finalize(FoldAll(New(1000, 800), shuffled...), 1000, 800); got != want {
			t.Fatalf("permutation gave %v, want %v", got, want)
		}
	}
}

func TestMerge(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	points := randomPixels(r, 100, 500, 500)

	whole := FoldAll(New(500, 500), points...)
	left := FoldAll(New(500, 500), points[:37]...)
	right := FoldAll(New(500, 500), points[37:]...)

	if got := Merge(left, right); got != whole {
		t.Errorf("Merge = %v, want %v", got, whole)
	}
	if Merge(left, right) != Merge(right, left) {
		t.Error("Merge is not commutative")
	}
	if got := Merge(New(500, 500), whole); got != whole {
		t.Errorf("merging with the initial box changed the result: %v", got)
	}
}

func TestRect(t *testing.T) {
	b := Box{Left: 10.2, Top: 4.9, Right: 20.5, Bottom: 8}
	want := image.Rect(10, 4, 22, 9)
	if got := b.Rect(); got != want {
		t.Errorf("Rect = %v, want %v", got, want)
	}
}

func TestAggregator(t *testing.T) {
	agg := NewAggregator(100, 100)
	if _, ok := agg.Box(); ok {
		t.Error("aggregator with no points should report !ok")
	}

	results := []projection.PointResult{
		{Index: 0, Pixel: px(10, 10)},
		{Index: 1, Err: projection.ErrDivisionByZero},
		{Index: 2, Pixel: px(120, 40)},
	}
	if skipped := agg.AddResults(results); skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if agg.Count() != 2 {
		t.Errorf("Count = %d, want 2", agg.Count())
	}

	b, ok := agg.Box()
	if !ok {
		t.Fatal("expected a box")
	}
	want := Box{Left: 10, Top: 10, Right: 99, Bottom: 40}
	if b != want {
		t.Errorf("Box = %v, want %v", b, want)
	}
}

func TestFoldParallelMatchesSequential(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	points := randomPixels(r, 1001, 2100, 1200)
	want := Finalize(FoldAll(New(1920, 1080), points...), 1920, 1080)

	for _, workers := range []int{1, 2, 3, 8} {
		got, err := FoldParallel(context.Background(), points, 1920, 1080, workers)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		if got != want {
			t.Errorf("workers=%d: got %v, want %v", workers, got, want)
		}
	}
}

func TestFoldParallelEmpty(t *testing.T) {
	got, err := FoldParallel(context.Background(), nil, 100, 100, 4)
	if err != nil {
		t.Fatal(err)
	}
	// Finalize clamps but leaves the inverted shape intact.
	if !got.Empty() {
		t.Errorf("empty fold should stay inverted, got %v", got)
	}
}

func BenchmarkFold(b *testing.B) {
	r := rand.New(rand.NewSource(1))
	points := randomPixels(r, 10000, 1920, 1080)

	for b.Loop() {
		_ = Finalize(FoldAll(New(1920, 1080), points...), 1920, 1080)
	}
}
