package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sehmus-akcakale/SnapLearn/vision"
)

func TestPoolRunsJobAndReportsResult(t *testing.T) {
	want := vision.Analysis{Summary: "ok"}
	p := New(1, func(ctx context.Context, imagePath string) (vision.Analysis, error) {
		if imagePath != "shot.png" {
			t.Errorf("imagePath = %q", imagePath)
		}
		return want, nil
	})
	defer p.Close()

	results := make(chan vision.Analysis, 1)
	ok := p.Submit(context.Background(), 3, "shot.png", func(capture int, a vision.Analysis, err error) {
		if capture != 3 {
			t.Errorf("capture = %d", capture)
		}
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		results <- a
	})
	if !ok {
		t.Fatal("submit rejected on idle pool")
	}

	select {
	case a := <-results:
		if a.Summary != want.Summary {
			t.Errorf("analysis = %+v", a)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback never fired")
	}
}

func TestPoolSubmitDropsWhenBusy(t *testing.T) {
	release := make(chan struct{})
	p := New(1, func(ctx context.Context, imagePath string) (vision.Analysis, error) {
		<-release
		return vision.Analysis{}, nil
	})
	defer p.Close()

	noop := func(int, vision.Analysis, error) {}
	if !p.Submit(context.Background(), 1, "a.png", noop) {
		t.Fatal("first submit should succeed")
	}
	// One job may slip into the queue slot while the first occupies the
	// worker; the one after that must drop.
	ok2 := p.Submit(context.Background(), 2, "b.png", noop)
	ok3 := p.Submit(context.Background(), 3, "c.png", noop)
	if ok2 && ok3 {
		t.Error("expected a submit to drop with the queue full")
	}
	close(release)
}

func TestPoolCloseDrainsQueuedJobs(t *testing.T) {
	done := make(chan int, 2)
	p := New(1, func(ctx context.Context, imagePath string) (vision.Analysis, error) {
		time.Sleep(20 * time.Millisecond)
		return vision.Analysis{}, errors.New("fail")
	})

	p.Submit(context.Background(), 1, "a.png", func(capture int, _ vision.Analysis, _ error) { done <- capture })
	p.Submit(context.Background(), 2, "b.png", func(capture int, _ vision.Analysis, _ error) { done <- capture })
	p.Close()

	if len(done) == 0 {
		t.Error("Close returned before any queued job completed")
	}
}
