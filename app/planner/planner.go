// Package planner is the social-media planner: user-authored posts and
// content ideas kept as one bundle in device-local storage.
package planner

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"founder-hub/app/models"
	"founder-hub/app/store"

	"github.com/go-playground/validator/v10"
)

// StorageKey holds the whole planner bundle.
const StorageKey = "social-media-planner"

// SeedIdeas fill an empty planner.
var SeedIdeas = []models.Idea{
	{ID: "1", Title: "Share the story of why you started the company", Platform: models.PlatformLinkedIn},
	{ID: "2", Title: "Behind the scenes of this week's product work", Platform: models.PlatformTwitter},
	{ID: "3", Title: "Customer spotlight with a short quote", Platform: models.PlatformInstagram},
	{ID: "4", Title: "Three lessons from your first hundred users", Platform: models.PlatformTwitter},
	{ID: "5", Title: "Hiring post for your next role"},
}

func defaultBundle() models.PlannerBundle {
	return models.PlannerBundle{
		Posts: []models.Post{},
		Ideas: slices.Clone(SeedIdeas),
	}
}

type Planner struct {
	key      store.Key[models.PlannerBundle]
	validate *validator.Validate
	now      func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

type Option func(*Planner)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithRand replaces the generator used for simulated metrics.
func WithRand(r *rand.Rand) Option {
	return func(p *Planner) { p.rnd = r }
}

// New returns a planner validating with v, which gains the model enum tags.
// A nil v gets a fresh validator.
func New(v *validator.Validate, opts ...Option) *Planner {
	if v == nil {
		v = models.NewValidator()
	} else if err := models.RegisterValidations(v); err != nil {
		panic(err)
	}
	p := &Planner{
		key:      store.NewKey(StorageKey, defaultBundle),
		validate: v,
		now:      time.Now,
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load returns the stored bundle, or the seeded default when nothing usable
// is stored. A non-nil error reports an unreadable entry.
func (p *Planner) Load(ctx context.Context, b store.Backend) (models.PlannerBundle, error) {
	bundle, err := p.key.Load(ctx, b)
	if bundle.Posts == nil {
		bundle.Posts = []models.Post{}
	}
	if bundle.Ideas == nil {
		bundle.Ideas = []models.Idea{}
	}
	return bundle, err
}

// current loads the bundle for a mutation. A corrupt entry is replaced by the
// seeded default; a failing backend aborts the mutation.
func (p *Planner) current(ctx context.Context, b store.Backend) (models.PlannerBundle, error) {
	bundle, err := p.Load(ctx, b)
	if !store.Writable(err) {
		return models.PlannerBundle{}, err
	}
	return bundle, nil
}

func (p *Planner) save(ctx context.Context, b store.Backend, bundle models.PlannerBundle) error {
	bundle.LastSaved = p.now().UTC()
	err := p.key.Save(ctx, b, bundle)
	if errors.Is(err, store.ErrTooLarge) {
		return fmt.Errorf("%w: %v", ErrFull, err)
	}
	return err
}

// PostInput is what the author supplies for a new post.
type PostInput struct {
	Platform     string
	Content      string
	ScheduledFor *time.Time
}

// AddPost creates a draft, or a scheduled post when a time is given. New
// posts go first.
func (p *Planner) AddPost(ctx context.Context, b store.Backend, in PostInput) (models.Post, error) {
	bundle, err := p.current(ctx, b)
	if err != nil {
		return models.Post{}, err
	}
	now := p.now()

	post := models.Post{
		ID:           newID(now, postTaken(bundle.Posts)),
		Platform:     strings.TrimSpace(in.Platform),
		Content:      strings.TrimSpace(in.Content),
		Status:       models.StatusDraft,
		ScheduledFor: in.ScheduledFor,
		CreatedAt:    now.UTC(),
	}
	if post.ScheduledFor != nil {
		post.Status = models.StatusScheduled
	}
	if err := p.validate.Struct(post); err != nil {
		return models.Post{}, validationError(err)
	}

	bundle.Posts = append([]models.Post{post}, bundle.Posts...)
	if err := p.save(ctx, b, bundle); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// Publish marks a post published now and attaches simulated metrics.
func (p *Planner) Publish(ctx context.Context, b store.Backend, id string) (models.Post, error) {
	return p.updatePost(ctx, b, id, func(post *models.Post) {
		now := p.now().UTC()
		post.Status = models.StatusPublished
		post.PublishedAt = &now
		m := p.simulate()
		post.Metrics = &m
	})
}

// ToggleStatus flips a post between draft and scheduled.
func (p *Planner) ToggleStatus(ctx context.Context, b store.Backend, id string) (models.Post, error) {
	return p.updatePost(ctx, b, id, func(post *models.Post) {
		if post.Status == models.StatusScheduled {
			post.Status = models.StatusDraft
		} else {
			post.Status = models.StatusScheduled
		}
	})
}

func (p *Planner) updatePost(ctx context.Context, b store.Backend, id string, fn func(*models.Post)) (models.Post, error) {
	bundle, err := p.current(ctx, b)
	if err != nil {
		return models.Post{}, err
	}
	i := slices.IndexFunc(bundle.Posts, func(post models.Post) bool { return post.ID == id })
	if i < 0 {
		return models.Post{}, ErrNotFound
	}
	post := &bundle.Posts[i]
	if post.IsPublished() {
		return models.Post{}, ErrImmutable
	}

	fn(post)
	if err := p.save(ctx, b, bundle); err != nil {
		return models.Post{}, err
	}
	return *post, nil
}

// DeletePost removes a post. Nothing happens unless confirmed is set.
func (p *Planner) DeletePost(ctx context.Context, b store.Backend, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	bundle, err := p.current(ctx, b)
	if err != nil {
		return err
	}
	n := len(bundle.Posts)
	bundle.Posts = slices.DeleteFunc(bundle.Posts, func(post models.Post) bool { return post.ID == id })
	if len(bundle.Posts) == n {
		return ErrNotFound
	}
	return p.save(ctx, b, bundle)
}

// AddIdea records a new content idea ahead of the existing ones.
func (p *Planner) AddIdea(ctx context.Context, b store.Backend, title, platform string) (models.Idea, error) {
	bundle, err := p.current(ctx, b)
	if err != nil {
		return models.Idea{}, err
	}
	idea := models.Idea{
		ID:       newID(p.now(), ideaTaken(bundle.Ideas)),
		Title:    strings.TrimSpace(title),
		Platform: strings.TrimSpace(platform),
	}
	if err := p.validate.Struct(idea); err != nil {
		return models.Idea{}, validationError(err)
	}

	bundle.Ideas = append([]models.Idea{idea}, bundle.Ideas...)
	if err := p.save(ctx, b, bundle); err != nil {
		return models.Idea{}, err
	}
	return idea, nil
}

// ToggleIdea flips the used mark of an idea.
func (p *Planner) ToggleIdea(ctx context.Context, b store.Backend, id string) (models.Idea, error) {
	bundle, err := p.current(ctx, b)
	if err != nil {
		return models.Idea{}, err
	}
	i := slices.IndexFunc(bundle.Ideas, func(idea models.Idea) bool { return idea.ID == id })
	if i < 0 {
		return models.Idea{}, ErrNotFound
	}
	bundle.Ideas[i].Used = !bundle.Ideas[i].Used
	if err := p.save(ctx, b, bundle); err != nil {
		return models.Idea{}, err
	}
	return bundle.Ideas[i], nil
}

// DeleteIdea removes an idea. Nothing happens unless confirmed is set.
func (p *Planner) DeleteIdea(ctx context.Context, b store.Backend, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	bundle, err := p.current(ctx, b)
	if err != nil {
		return err
	}
	n := len(bundle.Ideas)
	bundle.Ideas = slices.DeleteFunc(bundle.Ideas, func(idea models.Idea) bool { return idea.ID == id })
	if len(bundle.Ideas) == n {
		return ErrNotFound
	}
	return p.save(ctx, b, bundle)
}

func (p *Planner) simulate() models.Metrics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return SimulateMetrics(p.rnd)
}

// Stats summarizes a bundle for the planner header.
func Stats(bundle models.PlannerBundle) models.PlannerStats {
	s := models.PlannerStats{TotalPosts: len(bundle.Posts)}
	var rateSum float64
	var rated int
	for _, post := range bundle.Posts {
		switch post.Status {
		case models.StatusDraft:
			s.Drafts++
		case models.StatusScheduled:
			s.Scheduled++
		case models.StatusPublished:
			s.Published++
		}
		if post.Metrics != nil {
			s.TotalViews += post.Metrics.Views
			rateSum += post.Metrics.EngagementRate
			rated++
		}
	}
	if rated > 0 {
		s.AvgEngagement = round2(rateSum / float64(rated))
	}
	for _, idea := range bundle.Ideas {
		if !idea.Used {
			s.OpenIdeas++
		}
	}
	return s
}

// newID derives an id from the creation time in milliseconds, moving forward
// until it is unused.
func newID(now time.Time, taken func(string) bool) string {
	ms := now.UnixMilli()
	id := strconv.FormatInt(ms, 10)
	for taken(id) {
		ms++
		id = strconv.FormatInt(ms, 10)
	}
	return id
}

func postTaken(posts []models.Post) func(string) bool {
	return func(id string) bool {
		return slices.ContainsFunc(posts, func(p models.Post) bool { return p.ID == id })
	}
}

func ideaTaken(ideas []models.Idea) func(string) bool {
	return func(id string) bool {
		return slices.ContainsFunc(ideas, func(i models.Idea) bool { return i.ID == id })
	}
}
