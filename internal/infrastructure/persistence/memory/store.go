package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uiscraper/backend/internal/application/ports"
	"github.com/uiscraper/backend/internal/domain"
)

// Store is an in-process backend for all repositories. Suitable for tests and single-instance
// development; data is lost on restart.
type Store struct {
	mu        sync.RWMutex
	projects  map[uuid.UUID]domain.Project
	messages  map[uuid.UUID]domain.Message
	fragments map[uuid.UUID]domain.Fragment
	bookmarks map[uuid.UUID]domain.Bookmark
	plans     map[string]domain.Plan
}

func NewStore() *Store {
	return &Store{
		projects:  make(map[uuid.UUID]domain.Project),
		messages:  make(map[uuid.UUID]domain.Message),
		fragments: make(map[uuid.UUID]domain.Fragment),
		bookmarks: make(map[uuid.UUID]domain.Bookmark),
		plans:     make(map[string]domain.Plan),
	}
}

func (s *Store) Projects() *ProjectRepository   { return &ProjectRepository{s: s} }
func (s *Store) Messages() *MessageRepository   { return &MessageRepository{s: s} }
func (s *Store) Bookmarks() *BookmarkRepository { return &BookmarkRepository{s: s} }
func (s *Store) Plans() *PlanStore              { return &PlanStore{s: s} }

// ProjectCount is used by tests to assert nothing was written.
func (s *Store) ProjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// MessageCount is used by tests to assert nothing was written.
func (s *Store) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

type ProjectRepository struct{ s *Store }

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.projects[project.ID.UUID] = *project
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, userID string, projectID domain.ProjectID) (*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.projects[projectID.UUID]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (r *ProjectRepository) List(ctx context.Context, userID string, limit, offset int) ([]*domain.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*domain.Project
	for _, p := range r.s.projects {
		if p.UserID == userID {
			p := p
			list = append(list, &p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func (r *ProjectRepository) Rename(ctx context.Context, userID string, projectID domain.ProjectID, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[projectID.UUID]
	if !ok || p.UserID != userID {
		return nil
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	r.s.projects[projectID.UUID] = p
	return nil
}

func (r *ProjectRepository) Touch(ctx context.Context, projectID domain.ProjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.projects[projectID.UUID]; ok {
		p.UpdatedAt = time.Now()
		r.s.projects[projectID.UUID] = p
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, userID string, projectID domain.ProjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[projectID.UUID]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(r.s.projects, projectID.UUID)
	for id, m := range r.s.messages {
		if m.ProjectID == projectID {
			delete(r.s.messages, id)
			for fid, f := range r.s.fragments {
				if f.MessageID == id {
					delete(r.s.fragments, fid)
				}
			}
		}
	}
	return true, nil
}

type MessageRepository struct{ s *Store }

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := *message
	m.Fragment = nil
	r.s.messages[m.ID] = m
	return nil
}

func (r *MessageRepository) CreateWithFragment(ctx context.Context, message *domain.Message, fragment *domain.Fragment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m := *message
	m.Fragment = nil
	r.s.messages[m.ID] = m
	f := *fragment
	f.Files = copyFiles(fragment.Files)
	r.s.fragments[f.ID] = f
	return nil
}

func (r *MessageRepository) ListByProject(ctx context.Context, projectID domain.ProjectID) ([]*domain.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*domain.Message
	for _, m := range r.s.messages {
		if m.ProjectID != projectID {
			continue
		}
		m := m
		for _, f := range r.s.fragments {
			if f.MessageID == m.ID {
				f := f
				f.Files = copyFiles(f.Files)
				m.Fragment = &f
				break
			}
		}
		list = append(list, &m)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *MessageRepository) GetFragment(ctx context.Context, userID string, fragmentID uuid.UUID) (*domain.Fragment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.fragments[fragmentID]
	if !ok {
		return nil, nil
	}
	m, ok := r.s.messages[f.MessageID]
	if !ok {
		return nil, nil
	}
	if p, ok := r.s.projects[m.ProjectID.UUID]; !ok || p.UserID != userID {
		return nil, nil
	}
	f.Files = copyFiles(f.Files)
	return &f, nil
}

type BookmarkRepository struct{ s *Store }

func (r *BookmarkRepository) Upsert(ctx context.Context, bookmark *domain.Bookmark) (*domain.Bookmark, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, b := range r.s.bookmarks {
		if b.UserID == bookmark.UserID && b.URL == bookmark.URL {
			b.Title = bookmark.Title
			b.UpdatedAt = bookmark.UpdatedAt
			r.s.bookmarks[id] = b
			return &b, nil
		}
	}
	b := *bookmark
	r.s.bookmarks[b.ID] = b
	return &b, nil
}

func (r *BookmarkRepository) UpdateTitle(ctx context.Context, userID string, id uuid.UUID, title string) (*domain.Bookmark, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookmarks[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	b.Title = title
	b.UpdatedAt = time.Now()
	r.s.bookmarks[id] = b
	return &b, nil
}

func (r *BookmarkRepository) DeleteByID(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookmarks[id]
	if !ok || b.UserID != userID {
		return false, nil
	}
	delete(r.s.bookmarks, id)
	return true, nil
}

func (r *BookmarkRepository) DeleteByURL(ctx context.Context, userID, url string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, b := range r.s.bookmarks {
		if b.UserID == userID && b.URL == url {
			delete(r.s.bookmarks, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *BookmarkRepository) List(ctx context.Context, userID string) ([]*domain.Bookmark, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*domain.Bookmark
	for _, b := range r.s.bookmarks {
		if b.UserID == userID {
			b := b
			list = append(list, &b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list, nil
}

type PlanStore struct{ s *Store }

func (p *PlanStore) SetPlan(ctx context.Context, userID string, plan domain.Plan) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.plans[userID] = plan
	return nil
}

func (p *PlanStore) GetPlan(ctx context.Context, userID string) (domain.Plan, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	if plan, ok := p.s.plans[userID]; ok {
		return plan, nil
	}
	return domain.PlanFree, nil
}

func copyFiles(files map[string]string) map[string]string {
	out := make(map[string]string, len(files))
	for k, v := range files {
		out[k] = v
	}
	return out
}

var (
	_ ports.ProjectRepository  = (*ProjectRepository)(nil)
	_ ports.MessageRepository  = (*MessageRepository)(nil)
	_ ports.BookmarkRepository = (*BookmarkRepository)(nil)
	_ ports.PlanStore          = (*PlanStore)(nil)
)
