package models

import "time"

// Input limits of the planner forms.
const (
	MaxPostLength = 2200
	MaxIdeaLength = 200
)

type Metrics struct {
	Likes          int     `json:"likes"`
	Comments       int     `json:"comments"`
	Shares         int     `json:"shares"`
	Views          int     `json:"views"`
	EngagementRate float64 `json:"engagementRate"`
}

// Post is a user-authored social media post. IDs come from the creation time.
type Post struct {
	ID           string     `json:"id"`
	Platform     string     `json:"platform" validate:"required,platform"`
	Content      string     `json:"content" validate:"required,min=1,max=2200"`
	Status       string     `json:"status" validate:"required,status"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
	Metrics      *Metrics   `json:"metrics,omitempty"`
}

func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}

type Idea struct {
	ID       string `json:"id"`
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Platform string `json:"platform,omitempty" validate:"omitempty,platform"`
	Used     bool   `json:"used"`
}

// PlannerBundle is persisted as a single entry under one storage key.
type PlannerBundle struct {
	Posts     []Post    `json:"posts"`
	Ideas     []Idea    `json:"ideas"`
	LastSaved time.Time `json:"lastSaved"`
}

// PlannerStats are the planner's header figures.
type PlannerStats struct {
	TotalPosts    int
	Drafts        int
	Scheduled     int
	Published     int
	OpenIdeas     int
	AvgEngagement float64
	TotalViews    int
}
