package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/narama3535-tech/fazancloud/internal/domain"
	"github.com/narama3535-tech/fazancloud/internal/kv"
	"github.com/narama3535-tech/fazancloud/internal/storage"
)

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	createErr error
	getErr    error
	updateErr error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) key(username string) string {
	return strings.ToLower(username)
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.users[m.key(user.Username)]; exists {
		return domain.ErrUserAlreadyExists
	}
	clone := *user
	m.users[m.key(user.Username)] = &clone
	return nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, exists := m.users[m.key(username)]
	if !exists {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, exists := m.users[m.key(user.Username)]; !exists {
		return domain.ErrUserNotFound
	}
	clone := *user
	m.users[m.key(user.Username)] = &clone
	return nil
}

func (m *MockUserRepository) Rename(ctx context.Context, oldUsername, newUsername string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, exists := m.users[m.key(oldUsername)]
	if !exists {
		return domain.ErrUserNotFound
	}
	if _, taken := m.users[m.key(newUsername)]; taken {
		return domain.ErrUserAlreadyExists
	}
	delete(m.users, m.key(oldUsername))
	u.Username = newUsername
	m.users[m.key(newUsername)] = u
	return nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.User
	for _, u := range m.users {
		clone := *u
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.users[m.key(username)]
	return exists, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	products map[string]*domain.Product
	order    []string
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[string]*domain.Product)}
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; exists {
		return domain.ErrProductAlreadyExists
	}
	clone := *product
	m.products[product.ID] = &clone
	m.order = append(m.order, product.ID)
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, exists := m.products[id]
	if !exists {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *MockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var result []*domain.Product
	for _, id := range m.order {
		clone := *m.products[id]
		result = append(result, &clone)
	}
	return result, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return domain.ErrProductNotFound
	}
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	if _, exists := m.products[id]; !exists {
		return domain.ErrProductNotFound
	}
	delete(m.products, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

// MockCommentRepository is a mock implementation of repository.CommentRepository.
type MockCommentRepository struct {
	comments map[string]*domain.Comment
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{comments: make(map[string]*domain.Comment)}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	clone := *comment
	m.comments[comment.ID] = &clone
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, exists := m.comments[id]
	if !exists {
		return nil, domain.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *MockCommentRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Comment, error) {
	var result []*domain.Comment
	for _, c := range m.comments {
		if c.ProductID == productID {
			clone := *c
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp > result[j].Timestamp
	})
	return result, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if _, exists := m.comments[comment.ID]; !exists {
		return domain.ErrCommentNotFound
	}
	clone := *comment
	m.comments[comment.ID] = &clone
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	if _, exists := m.comments[id]; !exists {
		return domain.ErrCommentNotFound
	}
	delete(m.comments, id)
	return nil
}

// MockChatRepository is a mock implementation of repository.ChatRepository.
type MockChatRepository struct {
	transcripts map[string][]domain.ChatMessage
}

func NewMockChatRepository() *MockChatRepository {
	return &MockChatRepository{transcripts: make(map[string][]domain.ChatMessage)}
}

func (m *MockChatRepository) Save(ctx context.Context, username string, messages []domain.ChatMessage) error {
	m.transcripts[username] = append([]domain.ChatMessage(nil), messages...)
	return nil
}

func (m *MockChatRepository) History(ctx context.Context, username string) ([]domain.ChatMessage, error) {
	return append([]domain.ChatMessage(nil), m.transcripts[username]...), nil
}

// MockLogRepository is a mock implementation of repository.LogRepository.
type MockLogRepository struct {
	mu      sync.Mutex
	entries []*domain.LogEntry
}

func NewMockLogRepository() *MockLogRepository {
	return &MockLogRepository{}
}

func (m *MockLogRepository) Append(ctx context.Context, entry *domain.LogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *entry
	m.entries = append(m.entries, &clone)
	if len(m.entries) > domain.MaxLogEntries {
		m.entries = m.entries[len(m.entries)-domain.MaxLogEntries:]
	}
	return nil
}

func (m *MockLogRepository) List(ctx context.Context, limit int) ([]*domain.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.LogEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(result) >= limit {
			break
		}
		clone := *m.entries[i]
		result = append(result, &clone)
	}
	return result, nil
}

func (m *MockLogRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.entries)), nil
}

// hasLogMessage reports whether an audit entry with the given message
// prefix was recorded.
func (m *MockLogRepository) hasLogMessage(prefix string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if strings.HasPrefix(e.Message, prefix) {
			return true
		}
	}
	return false
}

// MockKVStore is a mock implementation of kv.Store.
type MockKVStore struct {
	values map[string][]byte
}

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{values: make(map[string][]byte)}
}

func (m *MockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, exists := m.values[key]
	if !exists {
		return nil, kv.ErrKeyNotFound
	}
	return v, nil
}

func (m *MockKVStore) Set(ctx context.Context, key string, value []byte) error {
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockKVStore) Remove(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

// MockImageStore is a mock implementation of storage.ImageStore.
type MockImageStore struct {
	images  map[string][]byte
	deleted []string
}

func NewMockImageStore() *MockImageStore {
	return &MockImageStore{images: make(map[string][]byte)}
}

func (m *MockImageStore) Store(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.images[key] = data
	return nil
}

func (m *MockImageStore) Retrieve(ctx context.Context, key string) (io.ReadCloser, string, error) {
	data, exists := m.images[key]
	if !exists {
		return nil, "", storage.ErrImageNotFound
	}
	return io.NopCloser(strings.NewReader(string(data))), "image/jpeg", nil
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	delete(m.images, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MockImageStore) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.images[key]
	return exists, nil
}
