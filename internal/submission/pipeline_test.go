package submission_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/joestump/studyshelf/internal/notify"
	"github.com/joestump/studyshelf/internal/store"
	"github.com/joestump/studyshelf/internal/submission"
	"github.com/joestump/studyshelf/internal/testutil"
	"github.com/joestump/studyshelf/internal/validation"
)

const fallback = "https://example.com/fallback.png"

type recordingNotifier struct {
	mu  sync.Mutex
	got []notify.Submission
}

func (n *recordingNotifier) Dispatch(_ context.Context, s notify.Submission) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, s)
}

type failingCreator struct{ err error }

func (f failingCreator) Create(context.Context, store.NewResource) (*store.Resource, error) {
	return nil, f.err
}

func validInput() submission.Input {
	return submission.Input{
		Name:          "Intro to Graphs",
		Author:        "Ada",
		URL:           "https://example.com/graphs",
		ContentType:   "video",
		Stage:         "week 3",
		SubmitterName: "alice",
		Review:        "Clear and short.",
		Tags:          []string{"algorithms", "graphs"},
	}
}

func newPipeline(t *testing.T) (*submission.Pipeline, *store.TagStore, *recordingNotifier) {
	t.Helper()
	db := testutil.NewTestDB(t)
	n := &recordingNotifier{}
	p := submission.New(store.NewResourceStore(db), n, submission.Options{
		FallbackThumbnail: fallback,
		PublicBaseURL:     "https://shelf.example.com/",
	})
	return p, store.NewTagStore(db), n
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *validation.Error", err)
	}
	return verr.Fields
}

func TestSubmit_WritesResourceAndTags(t *testing.T) {
	p, tags, n := newPipeline(t)
	ctx := context.Background()

	res, err := p.Submit(ctx, validInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Resource.ID == "" {
		t.Fatal("expected non-empty ID")
	}

	stored, err := tags.ListByResource(ctx, res.Resource.ID)
	if err != nil {
		t.Fatalf("ListByResource: %v", err)
	}
	if want := []string{"algorithms", "graphs"}; !reflect.DeepEqual(stored, want) {
		t.Errorf("tags = %v, want %v", stored, want)
	}
	if len(n.got) != 0 {
		t.Errorf("announcements = %d, want 0 before Announce", len(n.got))
	}
}

func TestSubmit_EmptyTags(t *testing.T) {
	p, tags, _ := newPipeline(t)
	ctx := context.Background()

	in := validInput()
	in.Tags = nil
	res, err := p.Submit(ctx, in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(res.Tags) != 0 {
		t.Errorf("result tags = %v, want none", res.Tags)
	}

	stored, err := tags.ListByResource(ctx, res.Resource.ID)
	if err != nil {
		t.Fatalf("ListByResource: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("stored tags = %v, want none", stored)
	}
}

func TestSubmit_EmptyTagStringStored(t *testing.T) {
	p, tags, _ := newPipeline(t)
	ctx := context.Background()

	in := validInput()
	in.Tags = []string{"ok", ""}
	res, err := p.Submit(ctx, in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	stored, err := tags.ListByResource(ctx, res.Resource.ID)
	if err != nil {
		t.Fatalf("ListByResource: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored tags = %q, want 2 entries", stored)
	}
}

func TestSubmit_ThumbnailDefaulting(t *testing.T) {
	p, _, _ := newPipeline(t)
	ctx := context.Background()

	res, err := p.Submit(ctx, validInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Resource.ThumbnailURL != fallback {
		t.Errorf("thumbnail = %q, want %q", res.Resource.ThumbnailURL, fallback)
	}

	in := validInput()
	in.ThumbnailURL = "https://example.com/mine.png"
	res, err = p.Submit(ctx, in)
	if err != nil {
		t.Fatalf("Submit with thumbnail: %v", err)
	}
	if res.Resource.ThumbnailURL != "https://example.com/mine.png" {
		t.Errorf("thumbnail = %q, want submitted value", res.Resource.ThumbnailURL)
	}
}

func TestSubmit_ValidationRejectsBeforeWrite(t *testing.T) {
	creator := failingCreator{err: errors.New("must not be called")}
	p := submission.New(creator, &recordingNotifier{}, submission.Options{FallbackThumbnail: fallback})

	in := validInput()
	in.Name = "  "
	in.URL = "not a url"
	_, err := p.Submit(context.Background(), in)

	fields := validationFields(t, err)
	for _, f := range []string{"name", "url"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("fields = %v, want %q entry", fields, f)
		}
	}
}

func TestSubmit_WhitespaceOnlyFieldsRejected(t *testing.T) {
	p, _, _ := newPipeline(t)

	in := validInput()
	in.ContentType = " \t"
	in.Stage = "   "
	_, err := p.Submit(context.Background(), in)

	fields := validationFields(t, err)
	for _, f := range []string{"content_type", "stage"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("fields = %v, want %q entry", fields, f)
		}
	}
}

func TestSubmit_StoreFailurePropagates(t *testing.T) {
	p := submission.New(failingCreator{err: store.ErrSubmissionIncomplete}, &recordingNotifier{},
		submission.Options{FallbackThumbnail: fallback})

	_, err := p.Submit(context.Background(), validInput())
	if !errors.Is(err, store.ErrSubmissionIncomplete) {
		t.Errorf("err = %v, want ErrSubmissionIncomplete", err)
	}
}

func TestSubmit_ReviewStoredAsSent(t *testing.T) {
	p, _, _ := newPipeline(t)

	in := validInput()
	in.Review = "O(n) < O(n^2) & more <b>bold</b>"
	res, err := p.Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Resource.Review != in.Review {
		t.Errorf("review = %q, want %q", res.Resource.Review, in.Review)
	}
}

func TestAnnounce(t *testing.T) {
	p, _, n := newPipeline(t)
	ctx := context.Background()

	res, err := p.Submit(ctx, validInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	p.Announce(ctx, res)

	if len(n.got) != 1 {
		t.Fatalf("announcements = %d, want 1", len(n.got))
	}
	got := n.got[0]
	want := notify.Submission{
		ResourceID:    res.Resource.ID,
		ResourceName:  "Intro to Graphs",
		SubmitterName: "alice",
		Permalink:     "https://shelf.example.com/resources/" + res.Resource.ID,
		Review:        "Clear and short.",
		ThumbnailURL:  fallback,
	}
	if got != want {
		t.Errorf("announcement = %+v, want %+v", got, want)
	}
}
