package project_test

import (
	"context"
	"sync"
	"time"

	membershipstore "github.com/dalemusser/taskforge/internal/app/store/memberships"
	projectstore "github.com/dalemusser/taskforge/internal/app/store/projects"
	taskstore "github.com/dalemusser/taskforge/internal/app/store/tasks"
	userstore "github.com/dalemusser/taskforge/internal/app/store/users"
	"github.com/dalemusser/taskforge/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memory is an in-memory stand-in for the mongo stores, implementing every
// store interface the service consumes with the same error contracts.
type memory struct {
	mu          sync.Mutex
	users       map[primitive.ObjectID]*models.User
	projects    map[primitive.ObjectID]*models.Project
	memberships map[primitive.ObjectID]map[primitive.ObjectID]*models.Membership // projectID -> userID
	tasks       map[primitive.ObjectID]*models.Task
}

func newMemory() *memory {
	return &memory{
		users:       make(map[primitive.ObjectID]*models.User),
		projects:    make(map[primitive.ObjectID]*models.Project),
		memberships: make(map[primitive.ObjectID]map[primitive.ObjectID]*models.Membership),
		tasks:       make(map[primitive.ObjectID]*models.Task),
	}
}

// Test seeding helpers.

func (m *memory) addUser(name, email string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: primitive.NewObjectID(), Name: name, Email: email}
	m.users[u.ID] = u
	return u
}

func (m *memory) addProject(name string, ownerID primitive.ObjectID) *models.Project {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Project{
		ID:      primitive.NewObjectID(),
		Name:    name,
		Status:  models.ProjectActive,
		OwnerID: ownerID,
	}
	m.projects[p.ID] = p
	m.memberships[p.ID] = map[primitive.ObjectID]*models.Membership{
		ownerID: {
			ID:        primitive.NewObjectID(),
			ProjectID: p.ID,
			UserID:    ownerID,
			Role:      models.RoleOwner,
			JoinedAt:  time.Now(),
		},
	}
	return p
}

func (m *memory) addMembership(projectID, userID primitive.ObjectID, role string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberships[projectID][userID] = &models.Membership{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
}

func (m *memory) addTask(projectID primitive.ObjectID, title string) *models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &models.Task{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Title:     title,
		Status:    models.TaskTodo,
		Priority:  models.PriorityMedium,
		CreatedAt: time.Now(),
	}
	m.tasks[t.ID] = t
	return t
}

// UserStore.

func (m *memory) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, userstore.ErrNotFound
	}
	return u, nil
}

func (m *memory) ListByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[primitive.ObjectID]*models.User)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// projectStores adapts memory to the ProjectStore interface.
type projectStores struct{ *memory }

func (m projectStores) Create(_ context.Context, ownerID primitive.ObjectID, name, description string) (*models.Project, *models.Membership, error) {
	p := m.addProject(name, ownerID)
	p.Description = description
	m.mu.Lock()
	defer m.mu.Unlock()
	return p, m.memberships[p.ID][ownerID], nil
}

func (m projectStores) GetByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, projectstore.ErrNotFound
	}
	return p, nil
}

func (m projectStores) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Project
	for _, id := range ids {
		if p, ok := m.projects[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m projectStores) Update(_ context.Context, id primitive.ObjectID, fields projectstore.UpdateFields) (*models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok {
		return nil, projectstore.ErrNotFound
	}
	if fields.Name != nil {
		p.Name = *fields.Name
	}
	if fields.Description != nil {
		p.Description = *fields.Description
	}
	if fields.Status != nil {
		p.Status = *fields.Status
	}
	p.UpdatedAt = time.Now()
	return p, nil
}

func (m projectStores) Touch(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.projects[id]; ok {
		p.UpdatedAt = time.Now()
	}
	return nil
}

func (m projectStores) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.projects[id]; !ok {
		return projectstore.ErrNotFound
	}
	delete(m.projects, id)
	delete(m.memberships, id)
	for tid, t := range m.tasks {
		if t.ProjectID == id {
			delete(m.tasks, tid)
		}
	}
	return nil
}

// membershipStores adapts memory to MembershipStore and the policy's
// MembershipReader.
type membershipStores struct{ *memory }

func (m membershipStores) Add(_ context.Context, projectID, userID primitive.ObjectID, role string) (*models.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.memberships[projectID]
	if !ok {
		rows = make(map[primitive.ObjectID]*models.Membership)
		m.memberships[projectID] = rows
	}
	if _, dup := rows[userID]; dup {
		return nil, membershipstore.ErrDuplicateMembership
	}
	mem := &models.Membership{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	rows[userID] = mem
	return mem, nil
}

func (m membershipStores) Get(_ context.Context, projectID, userID primitive.ObjectID) (*models.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.memberships[projectID][userID]
	if !ok {
		return nil, membershipstore.ErrNotFound
	}
	return mem, nil
}

func (m membershipStores) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Membership
	for _, mem := range m.memberships[projectID] {
		out = append(out, *mem)
	}
	return out, nil
}

func (m membershipStores) ProjectIDsForUser(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []primitive.ObjectID
	for pid, rows := range m.memberships {
		if _, ok := rows[userID]; ok {
			out = append(out, pid)
		}
	}
	return out, nil
}

func (m membershipStores) UpdateRole(_ context.Context, projectID, userID primitive.ObjectID, role string) (*models.Membership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.memberships[projectID][userID]
	if !ok {
		return nil, membershipstore.ErrNotFound
	}
	if mem.Role == models.RoleOwner {
		return nil, membershipstore.ErrOwnerProtected
	}
	mem.Role = role
	return mem, nil
}

func (m membershipStores) Remove(_ context.Context, projectID, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.memberships[projectID][userID]
	if !ok {
		return membershipstore.ErrNotFound
	}
	if mem.Role == models.RoleOwner {
		return membershipstore.ErrOwnerProtected
	}
	delete(m.memberships[projectID], userID)
	return nil
}

// taskStores adapts memory to the TaskStore interface.
type taskStores struct{ *memory }

func (m taskStores) Create(_ context.Context, t *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.tasks[t.ID] = t
	return nil
}

func (m taskStores) GetByID(_ context.Context, id primitive.ObjectID) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, taskstore.ErrNotFound
	}
	return t, nil
}

func (m taskStores) ListByProject(_ context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Task
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m taskStores) Update(_ context.Context, id primitive.ObjectID, fields taskstore.UpdateFields) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, taskstore.ErrNotFound
	}
	if fields.Title != nil {
		t.Title = *fields.Title
	}
	if fields.Description != nil {
		t.Description = *fields.Description
	}
	if fields.Status != nil {
		t.Status = *fields.Status
	}
	if fields.Priority != nil {
		t.Priority = *fields.Priority
	}
	if fields.ClearAssignee {
		t.AssigneeID = nil
	} else if fields.AssigneeID != nil {
		t.AssigneeID = fields.AssigneeID
	}
	if fields.ClearDueDate {
		t.DueDate = nil
	} else if fields.DueDate != nil {
		t.DueDate = fields.DueDate
	}
	t.UpdatedAt = time.Now()
	return t, nil
}

func (m taskStores) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return taskstore.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m taskStores) CountPerProject(_ context.Context, projectIDs []primitive.ObjectID) (map[primitive.ObjectID]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[primitive.ObjectID]int)
	for _, t := range m.tasks {
		out[t.ProjectID]++
	}
	return out, nil
}

// recorder captures emitted events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []recorded
}

type recorded struct {
	name    string
	payload any
}

func (r *recorder) Emit(name string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{name, payload})
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.events...)
}
