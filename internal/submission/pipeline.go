// Package submission turns a posted resource into stored rows and an
// announcement. Submit does the synchronous part; Announce hands the
// announcement to a background notifier and must be called only after the
// client has its response.
package submission

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/joestump/studyshelf/internal/metrics"
	"github.com/joestump/studyshelf/internal/notify"
	"github.com/joestump/studyshelf/internal/store"
	"github.com/joestump/studyshelf/internal/validation"
)

// Input is a validated submission. JSON names are used in validation messages.
type Input struct {
	Name          string   `json:"name" validate:"required,max=255"`
	Author        string   `json:"author" validate:"required,max=255"`
	URL           string   `json:"url" validate:"required,http_url,max=2048"`
	ContentType   string   `json:"content_type" validate:"required,max=64"`
	Stage         string   `json:"stage" validate:"required,max=64"`
	SubmitterName string   `json:"submitter_name" validate:"required,max=255"`
	Review        string   `json:"review"`
	ThumbnailURL  string   `json:"thumbnail_url" validate:"omitempty,http_url,max=2048"`
	Tags          []string `json:"tags" validate:"dive,max=255"`
}

// Result is a stored submission.
type Result struct {
	Resource *store.Resource
	Tags     []string
}

// ResourceCreator persists a resource and its tags atomically.
type ResourceCreator interface {
	Create(ctx context.Context, in store.NewResource) (*store.Resource, error)
}

// Notifier queues an announcement without blocking.
type Notifier interface {
	Dispatch(ctx context.Context, s notify.Submission)
}

type Pipeline struct {
	resources         ResourceCreator
	notifier          Notifier
	validator         *validation.Validator
	fallbackThumbnail string
	publicBaseURL     string
	logger            *zap.Logger
}

// Options configures a Pipeline.
type Options struct {
	FallbackThumbnail string
	PublicBaseURL     string
	Logger            *zap.Logger
}

func New(resources ResourceCreator, notifier Notifier, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		resources:         resources,
		notifier:          notifier,
		validator:         validation.New(),
		fallbackThumbnail: opts.FallbackThumbnail,
		publicBaseURL:     strings.TrimRight(opts.PublicBaseURL, "/"),
		logger:            logger.Named("submission"),
	}
}

// Submit validates in, substitutes the fallback thumbnail when none is
// given, and writes the resource with its tags. The review is stored as sent. Validation failures are
// returned as *validation.Error before anything is written.
func (p *Pipeline) Submit(ctx context.Context, in Input) (*Result, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Author = strings.TrimSpace(in.Author)
	in.URL = strings.TrimSpace(in.URL)
	in.ContentType = strings.TrimSpace(in.ContentType)
	in.Stage = strings.TrimSpace(in.Stage)
	in.SubmitterName = strings.TrimSpace(in.SubmitterName)
	in.ThumbnailURL = strings.TrimSpace(in.ThumbnailURL)

	if err := p.validator.Validate(in); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	thumbnail := in.ThumbnailURL
	if thumbnail == "" {
		thumbnail = p.fallbackThumbnail
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	r, err := p.resources.Create(ctx, store.NewResource{
		Name:          in.Name,
		Author:        in.Author,
		URL:           in.URL,
		ContentType:   in.ContentType,
		Stage:         in.Stage,
		SubmitterName: in.SubmitterName,
		Review:        in.Review,
		ThumbnailURL:  thumbnail,
		Tags:          tags,
	})
	if err != nil {
		status := "error"
		if errors.Is(err, store.ErrSubmissionIncomplete) {
			status = "incomplete"
		}
		metrics.SubmissionsTotal.WithLabelValues(status).Inc()
		p.logger.Error("submission failed",
			zap.String("name", in.Name),
			zap.String("submitter", in.SubmitterName),
			zap.Int("tags", len(tags)),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	metrics.TagsWrittenTotal.Add(float64(len(tags)))
	p.logger.Info("resource submitted", zap.String("resource_id", r.ID), zap.Int("tags", len(tags)))

	return &Result{Resource: r, Tags: tags}, nil
}

// Announce queues the chat announcement for a stored submission.
func (p *Pipeline) Announce(ctx context.Context, res *Result) {
	r := res.Resource
	p.notifier.Dispatch(ctx, notify.Submission{
		ResourceID:    r.ID,
		ResourceName:  r.Name,
		SubmitterName: r.SubmitterName,
		Permalink:     p.Permalink(r.ID),
		Review:        r.Review,
		ThumbnailURL:  r.ThumbnailURL,
	})
}

// Permalink returns the public URL of a resource.
func (p *Pipeline) Permalink(id string) string {
	return p.publicBaseURL + "/resources/" + id
}
