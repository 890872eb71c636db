package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/draftdeck/design-service/entity"
	"github.com/draftdeck/design-service/infra/produce"
	"github.com/google/uuid"
)

// In-memory fakes for the workflow's store and collaborator
// interfaces. The design store mirrors the repository semantics:
// transactional version allocation, atomic sibling clearing, and
// version slots that survive deletion.

type fakeDesignStore struct {
	mu    sync.Mutex
	files map[uuid.UUID]*entity.DesignFile

	// maxAllocated tracks the historical maximum per lineage so that
	// deleted versions never free their slots.
	maxAllocated map[string]int

	// conflictNext forces the next insert to lose a simulated
	// allocation race.
	conflictNext bool
}

func newFakeDesignStore() *fakeDesignStore {
	return &fakeDesignStore{
		files:        make(map[uuid.UUID]*entity.DesignFile),
		maxAllocated: make(map[string]int),
	}
}

func lineageKey(projectID uuid.UUID, category string) string {
	return projectID.String() + "/" + category
}

func (s *fakeDesignStore) CreateWithNextVersion(file *entity.DesignFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflictNext {
		s.conflictNext = false
		return fmt.Errorf("%w: project %s category %q", entity.ErrVersionConflict, file.ProjectID, file.Category)
	}

	key := lineageKey(file.ProjectID, file.Category)
	file.VersionNumber = s.maxAllocated[key] + 1
	s.maxAllocated[key] = file.VersionNumber
	file.CreatedAt = time.Now()

	copied := *file
	s.files[file.ID] = &copied
	return nil
}

func (s *fakeDesignStore) FindByID(id uuid.UUID) (*entity.DesignFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
	}
	copied := *file
	return &copied, nil
}

func (s *fakeDesignStore) FindByProjectID(projectID uuid.UUID) ([]entity.DesignFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var files []entity.DesignFile
	for _, f := range s.files {
		if f.ProjectID == projectID {
			files = append(files, *f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].CreatedAt.Before(files[j].CreatedAt) })
	return files, nil
}

func (s *fakeDesignStore) FindByCategory(projectID uuid.UUID, category string) ([]entity.DesignFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var files []entity.DesignFile
	for _, f := range s.files {
		if f.ProjectID == projectID && f.Category == category {
			files = append(files, *f)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].VersionNumber > files[j].VersionNumber })
	return files, nil
}

func (s *fakeDesignStore) NextVersion(projectID uuid.UUID, category string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxAllocated[lineageKey(projectID, category)] + 1, nil
}

func (s *fakeDesignStore) PromoteCurrentApproved(id uuid.UUID, approvedBy uuid.UUID, approvedAt time.Time) (*entity.DesignFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
	}

	for _, sibling := range s.files {
		if sibling.ProjectID == file.ProjectID && sibling.Category == file.Category && sibling.ID != file.ID {
			sibling.IsCurrentApproved = false
		}
	}

	file.ApprovalStatus = entity.ApprovalStatusApproved
	file.IsCurrentApproved = true
	file.ApprovedBy = &approvedBy
	file.ApprovedAt = &approvedAt

	copied := *file
	return &copied, nil
}

func (s *fakeDesignStore) UpdateStatus(id uuid.UUID, status entity.ApprovalStatus, adminComments *string) (*entity.DesignFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
	}

	file.ApprovalStatus = status
	file.AdminComments = adminComments

	copied := *file
	return &copied, nil
}

func (s *fakeDesignStore) SetFrozen(id uuid.UUID, frozen bool) (*entity.DesignFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
	}

	file.IsFrozen = frozen
	copied := *file
	return &copied, nil
}

func (s *fakeDesignStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("%w: design file %s", entity.ErrNotFound, id)
	}
	delete(s.files, id)
	return nil
}

func (s *fakeDesignStore) AnyFrozenInCategory(projectID uuid.UUID, category string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.ProjectID == projectID && f.Category == category && f.IsFrozen {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeDesignStore) AnyFrozenInProject(projectID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.files {
		if f.ProjectID == projectID && f.IsFrozen {
			return true, nil
		}
	}
	return false, nil
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*entity.DesignComment
	order    []uuid.UUID
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[uuid.UUID]*entity.DesignComment)}
}

func (s *fakeCommentStore) Create(comment *entity.DesignComment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment.CreatedAt = time.Now()
	copied := *comment
	s.comments[comment.ID] = &copied
	s.order = append(s.order, comment.ID)
	return nil
}

func (s *fakeCommentStore) FindByID(id uuid.UUID) (*entity.DesignComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("%w: comment %s", entity.ErrNotFound, id)
	}
	copied := *comment
	return &copied, nil
}

func (s *fakeCommentStore) FindByFileID(fileID uuid.UUID) ([]entity.DesignComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var comments []entity.DesignComment
	for _, id := range s.order {
		if c := s.comments[id]; c != nil && c.FileID == fileID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (s *fakeCommentStore) SetResolved(id uuid.UUID, resolved bool) (*entity.DesignComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("%w: comment %s", entity.ErrNotFound, id)
	}
	comment.IsResolved = resolved
	copied := *comment
	return &copied, nil
}

type fakeEventStore struct {
	mu     sync.Mutex
	events []entity.ApprovalEvent
}

func (s *fakeEventStore) Create(event *entity.ApprovalEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.CreatedAt = time.Now()
	s.events = append(s.events, *event)
	return nil
}

func (s *fakeEventStore) FindByFileID(fileID uuid.UUID) ([]entity.ApprovalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []entity.ApprovalEvent
	for _, e := range s.events {
		if e.FileID == fileID {
			events = append(events, e)
		}
	}
	return events, nil
}

type fakeObjectStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	failNames map[string]bool
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{
		objects:   make(map[string][]byte),
		failNames: make(map[string]bool),
	}
}

func (s *fakeObjectStorage) Put(_ context.Context, path string, reader io.Reader, _ int64, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range s.failNames {
		if bytes.Contains([]byte(path), []byte(name)) {
			return "", fmt.Errorf("simulated storage outage for %s", name)
		}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.objects[path] = data
	return "https://cdn.example.com/" + path, nil
}

type fakePermissions struct {
	mu     sync.Mutex
	denied map[string]bool
}

func newFakePermissions() *fakePermissions {
	return &fakePermissions{denied: make(map[string]bool)}
}

func (p *fakePermissions) deny(action string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.denied[action] = true
}

func (p *fakePermissions) HasPermission(_ context.Context, _ uuid.UUID, action string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.denied[action], nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []produce.DesignEventMessage
}

func (p *fakePublisher) Publish(_ context.Context, msg produce.DesignEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return nil
}

type nopLogger struct{}

func (nopLogger) InfoWithContextf(context.Context, string, ...interface{})         {}
func (nopLogger) WarningWithContextf(context.Context, string, ...interface{})      {}
func (nopLogger) ErrorWithContextf(context.Context, error, string, ...interface{}) {}

type testEnv struct {
	svc       *DesignService
	files     *fakeDesignStore
	comments  *fakeCommentStore
	events    *fakeEventStore
	storage   *fakeObjectStorage
	perms     *fakePermissions
	publisher *fakePublisher
}

func newTestEnv() *testEnv {
	files := newFakeDesignStore()
	comments := newFakeCommentStore()
	events := &fakeEventStore{}
	storage := newFakeObjectStorage()
	perms := newFakePermissions()
	publisher := &fakePublisher{}

	svc := NewDesignService(files, comments, events, storage, perms, publisher, nopLogger{})

	return &testEnv{
		svc:       svc,
		files:     files,
		comments:  comments,
		events:    events,
		storage:   storage,
		perms:     perms,
		publisher: publisher,
	}
}

func uploadOf(name, contentType, content string) UploadFile {
	return UploadFile{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(content)),
		Reader:      bytes.NewReader([]byte(content)),
	}
}
