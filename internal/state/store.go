// Package state holds the single authoritative in-memory state for a
// console session: the authenticated user, the project collection, the
// current selection and the notification list. All mutation goes through
// named operations serialized by one mutex; reads return copies so no
// consumer can observe a torn update.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	authdomain "github.com/playautopublish/console-backend/internal/auth/domain"
	notifdomain "github.com/playautopublish/console-backend/internal/notifications/domain"
	projdomain "github.com/playautopublish/console-backend/internal/projects/domain"
)

type EventKind string

const (
	EventUser          EventKind = "user"
	EventProjects      EventKind = "projects"
	EventSelection     EventKind = "selection"
	EventNotifications EventKind = "notifications"
)

// Event describes one store mutation for watchers.
type Event struct {
	Kind      EventKind `json:"kind"`
	ProjectID string    `json:"project_id,omitempty"`
}

// Store is constructed once at startup and injected into every consumer.
type Store struct {
	mu            sync.Mutex
	user          *authdomain.User
	projects      []projdomain.Project
	currentID     string
	notifications []notifdomain.Notification
	watchers      map[int]chan Event
	nextWatcher   int
}

func NewStore() *Store {
	return &Store{watchers: make(map[int]chan Event)}
}

// SetUser replaces the session user; nil clears it.
func (s *Store) SetUser(user *authdomain.User) {
	s.mu.Lock()
	if user == nil {
		s.user = nil
	} else {
		u := *user
		s.user = &u
	}
	s.mu.Unlock()
	s.emit(Event{Kind: EventUser})
}

// User returns a copy of the session user, or nil when logged out.
func (s *Store) User() *authdomain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// AddProject appends to the collection preserving insertion order. Ids are
// unique across the collection; a collision fails rather than shadowing the
// existing record.
func (s *Store) AddProject(p projdomain.Project) error {
	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == p.ID {
			s.mu.Unlock()
			return projdomain.ErrDuplicateProject
		}
	}
	s.projects = append(s.projects, p.Clone())
	s.mu.Unlock()
	s.emit(Event{Kind: EventProjects, ProjectID: p.ID})
	return nil
}

// Project returns a copy of the project with the given id.
func (s *Store) Project(id string) (projdomain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			return s.projects[i].Clone(), nil
		}
	}
	return projdomain.Project{}, projdomain.ErrProjectNotFound
}

// Projects returns a copy of the collection in insertion order.
func (s *Store) Projects() []projdomain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]projdomain.Project, len(s.projects))
	for i := range s.projects {
		out[i] = s.projects[i].Clone()
	}
	return out
}

// UpdateProject merges the patch into the matching project. The current
// selection references the collection entry by id, so the merged state is
// visible through both views by construction.
func (s *Store) UpdateProject(id string, patch projdomain.ProjectPatch) (projdomain.Project, error) {
	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}
		patch.Apply(&s.projects[i])
		if s.projects[i].Status == projdomain.StatusPublished {
			s.projects[i].Progress = 100
		}
		updated := s.projects[i].Clone()
		s.mu.Unlock()
		s.emit(Event{Kind: EventProjects, ProjectID: id})
		return updated, nil
	}
	s.mu.Unlock()
	return projdomain.Project{}, projdomain.ErrProjectNotFound
}

// DeleteProject removes the project and clears the selection if it pointed
// at the deleted id.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	idx := -1
	for i := range s.projects {
		if s.projects[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return projdomain.ErrProjectNotFound
	}
	s.projects = append(s.projects[:idx], s.projects[idx+1:]...)
	cleared := false
	if s.currentID == id {
		s.currentID = ""
		cleared = true
	}
	s.mu.Unlock()
	s.emit(Event{Kind: EventProjects, ProjectID: id})
	if cleared {
		s.emit(Event{Kind: EventSelection})
	}
	return nil
}

// SetCurrentProject points the selection at an existing project.
func (s *Store) SetCurrentProject(id string) error {
	s.mu.Lock()
	found := false
	for i := range s.projects {
		if s.projects[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return projdomain.ErrProjectNotFound
	}
	s.currentID = id
	s.mu.Unlock()
	s.emit(Event{Kind: EventSelection, ProjectID: id})
	return nil
}

// ClearCurrentProject drops the selection pointer.
func (s *Store) ClearCurrentProject() {
	s.mu.Lock()
	s.currentID = ""
	s.mu.Unlock()
	s.emit(Event{Kind: EventSelection})
}

// CurrentProject returns a copy of the selected project.
func (s *Store) CurrentProject() (projdomain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentID == "" {
		return projdomain.Project{}, projdomain.ErrNoCurrentProject
	}
	for i := range s.projects {
		if s.projects[i].ID == s.currentID {
			return s.projects[i].Clone(), nil
		}
	}
	// Selection should never outlive its project; treat a dangling pointer
	// as no selection.
	return projdomain.Project{}, projdomain.ErrNoCurrentProject
}

// AddNotification prepends to the list, keeping it newest-first. Missing id
// and timestamp are filled in.
func (s *Store) AddNotification(n notifdomain.Notification) notifdomain.Notification {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	s.mu.Lock()
	s.notifications = append([]notifdomain.Notification{n}, s.notifications...)
	s.mu.Unlock()
	s.emit(Event{Kind: EventNotifications})
	return n
}

// MarkNotificationRead flips read to true; unknown ids are a no-op.
func (s *Store) MarkNotificationRead(id string) bool {
	s.mu.Lock()
	marked := false
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			marked = true
			break
		}
	}
	s.mu.Unlock()
	if marked {
		s.emit(Event{Kind: EventNotifications})
	}
	return marked
}

func (s *Store) ClearNotifications() {
	s.mu.Lock()
	s.notifications = nil
	s.mu.Unlock()
	s.emit(Event{Kind: EventNotifications})
}

// Notifications returns a copy of the list, newest-first.
func (s *Store) Notifications() []notifdomain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notifdomain.Notification(nil), s.notifications...)
}

// UnreadCount is the badge count derived from the notification list.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for i := range s.notifications {
		if !s.notifications[i].Read {
			count++
		}
	}
	return count
}

// Watch registers a change listener. The returned cancel func must be
// called when the consumer goes away. Slow consumers drop events rather
// than block mutations.
func (s *Store) Watch() (<-chan Event, func()) {
	s.mu.Lock()
	id := s.nextWatcher
	s.nextWatcher++
	ch := make(chan Event, 16)
	s.watchers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if w, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(w)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Store) emit(ev Event) {
	s.mu.Lock()
	for _, ch := range s.watchers {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}
