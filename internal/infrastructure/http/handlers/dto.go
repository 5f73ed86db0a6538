package handlers

import (
	"time"

	"github.com/uiscraper/backend/internal/application/explorer"
	"github.com/uiscraper/backend/internal/domain"
)

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
	Plan         string `json:"plan,omitempty"`
}

func toUserResponse(id domain.Identity) userResponse {
	return userResponse{ID: id.UserID, Email: id.Email, Name: id.Name, ProfileImage: id.ProfileImage, Plan: string(id.Plan)}
}

type usageResponse struct {
	RemainingPoints int64      `json:"remainingPoints"`
	UsedPoints      int64      `json:"usedPoints"`
	TotalPoints     int64      `json:"totalPoints"`
	MsBeforeNext    int64      `json:"msBeforeNext"`
	Plan            string     `json:"plan"`
	PlanName        string     `json:"planName"`
	ResetTime       *time.Time `json:"resetTime"`
}

func toUsageResponse(u *domain.Usage) *usageResponse {
	if u == nil {
		return nil
	}
	out := &usageResponse{
		RemainingPoints: u.RemainingPoints,
		UsedPoints:      u.UsedPoints,
		TotalPoints:     u.TotalPoints,
		MsBeforeNext:    u.MsBeforeNext,
		Plan:            string(u.Plan),
		PlanName:        u.Plan.DisplayName(),
	}
	if !u.ResetTime.IsZero() {
		t := u.ResetTime.UTC()
		out.ResetTime = &t
	}
	return out
}

type projectResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{ID: p.ID.String(), Name: p.Name, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

type fragmentResponse struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	SandboxURL string            `json:"sandboxUrl"`
	Files      map[string]string `json:"files"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func toFragmentResponse(f *domain.Fragment) *fragmentResponse {
	if f == nil {
		return nil
	}
	return &fragmentResponse{ID: f.ID.String(), Title: f.Title, SandboxURL: f.SandboxURL, Files: f.Files, CreatedAt: f.CreatedAt}
}

type messageResponse struct {
	ID        string            `json:"id"`
	ProjectID string            `json:"projectId"`
	Role      string            `json:"role"`
	Type      string            `json:"type"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"createdAt"`
	Fragment  *fragmentResponse `json:"fragment"`
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        m.ID.String(),
		ProjectID: m.ProjectID.String(),
		Role:      string(m.Role),
		Type:      string(m.Type),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Fragment:  toFragmentResponse(m.Fragment),
	}
}

type bookmarkResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toBookmarkResponse(b *domain.Bookmark) bookmarkResponse {
	return bookmarkResponse{ID: b.ID.String(), URL: b.URL, Title: b.Title, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
}

type treeResponse struct {
	Status     string              `json:"status"`
	FragmentID string              `json:"fragmentId"`
	Title      string              `json:"title"`
	Tree       []explorer.TreeItem `json:"tree"`
}
