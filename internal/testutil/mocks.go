package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerly/ledgerly-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users    map[uuid.UUID]*domain.User
	ByEmail  map[string]*domain.User
	CreateFn func(user *domain.User) (*domain.User, error)
	UpdateFn func(user *domain.User) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:   make(map[uuid.UUID]*domain.User),
		ByEmail: make(map[string]*domain.User),
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(user)
	}
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrUserAlreadyExists
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.Users[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByIdentifier retrieves a user by email or username
func (m *MockUserRepository) GetByIdentifier(identifier string) (*domain.User, error) {
	if user, ok := m.ByEmail[identifier]; ok {
		return user, nil
	}
	for _, user := range m.Users {
		if strings.EqualFold(user.Username, identifier) {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Update updates an existing user
func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(user)
	}
	existing, ok := m.Users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(m.ByEmail, existing.Email)
	user.UpdatedAt = time.Now()
	m.Users[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.ID] = user
	m.ByEmail[user.Email] = user
}

// MockSubCategoryRepository is a mock implementation of domain.SubCategoryRepository
type MockSubCategoryRepository struct {
	SubCategories map[uuid.UUID]*domain.SubCategory
	CreateFn      func(subCategory *domain.SubCategory) (*domain.SubCategory, error)
	UpdateFn      func(userID uuid.UUID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.SubCategory, error)
}

// NewMockSubCategoryRepository creates a new MockSubCategoryRepository
func NewMockSubCategoryRepository() *MockSubCategoryRepository {
	return &MockSubCategoryRepository{
		SubCategories: make(map[uuid.UUID]*domain.SubCategory),
	}
}

// Create creates a new sub-category
func (m *MockSubCategoryRepository) Create(subCategory *domain.SubCategory) (*domain.SubCategory, error) {
	if m.CreateFn != nil {
		return m.CreateFn(subCategory)
	}
	subCategory.ID = uuid.New()
	subCategory.CreatedAt = time.Now()
	subCategory.UpdatedAt = subCategory.CreatedAt
	m.SubCategories[subCategory.ID] = subCategory
	return subCategory, nil
}

// GetByID retrieves a sub-category by ID within a user scope
func (m *MockSubCategoryRepository) GetByID(userID uuid.UUID, id uuid.UUID) (*domain.SubCategory, error) {
	subCategory, ok := m.SubCategories[id]
	if !ok || subCategory.UserID != userID {
		return nil, domain.ErrSubCategoryNotFound
	}
	return subCategory, nil
}

// GetAllByUser retrieves all sub-categories for a user
func (m *MockSubCategoryRepository) GetAllByUser(userID uuid.UUID, typeFilter *domain.CategoryType) ([]*domain.SubCategory, error) {
	result := []*domain.SubCategory{}
	for _, subCategory := range m.SubCategories {
		if subCategory.UserID != userID {
			continue
		}
		if typeFilter != nil && subCategory.Type != *typeFilter {
			continue
		}
		result = append(result, subCategory)
	}
	return result, nil
}

// Update updates a sub-category's name and type
func (m *MockSubCategoryRepository) Update(userID uuid.UUID, id uuid.UUID, name string, categoryType domain.CategoryType) (*domain.SubCategory, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(userID, id, name, categoryType)
	}
	subCategory, ok := m.SubCategories[id]
	if !ok || subCategory.UserID != userID {
		return nil, domain.ErrSubCategoryNotFound
	}
	subCategory.Name = name
	subCategory.Type = categoryType
	subCategory.UpdatedAt = time.Now()
	return subCategory, nil
}

// AddSubCategory adds a sub-category to the mock repository (helper for tests)
func (m *MockSubCategoryRepository) AddSubCategory(subCategory *domain.SubCategory) {
	m.SubCategories[subCategory.ID] = subCategory
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions []*domain.Transaction
	ListFn       func(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

// List retrieves a filtered, paginated page of a user's transactions,
// newest first
func (m *MockTransactionRepository) List(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if m.ListFn != nil {
		return m.ListFn(userID, filters)
	}

	var filtered []*domain.Transaction
	for _, t := range m.Transactions {
		if t.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.From != nil && t.CreatedAt.Before(*filters.From) {
				continue
			}
			if filters.To != nil && t.CreatedAt.After(*filters.To) {
				continue
			}
			if filters.SubCategoryID != nil && t.SubCategoryID != *filters.SubCategoryID {
				continue
			}
			if filters.Type != nil && (t.SubCategory == nil || t.SubCategory.Type != *filters.Type) {
				continue
			}
		}
		filtered = append(filtered, t)
	}
	if filtered == nil {
		filtered = []*domain.Transaction{}
	}

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	total := int64(len(filtered))
	totalPage := int32(total / int64(pageSize))
	if total%int64(pageSize) > 0 {
		totalPage++
	}
	if totalPage < 1 {
		totalPage = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start >= int32(len(filtered)) {
		filtered = []*domain.Transaction{}
	} else {
		if end > int32(len(filtered)) {
			end = int32(len(filtered))
		}
		filtered = filtered[start:end]
	}

	return &domain.PaginatedTransactions{
		Items:     filtered,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		TotalPage: totalPage,
	}, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.Transactions = append(m.Transactions, transaction)
}

// MockLedgerStore is an in-memory implementation of domain.LedgerStore. Each
// RunAtomic call runs against a staged copy of the store under a mutex:
// the copy replaces the live state only when fn returns nil, so a failed
// unit leaves no partial writes behind, and concurrent units serialize the
// way row locks serialize them in Postgres.
type MockLedgerStore struct {
	mu           sync.Mutex
	Users        map[uuid.UUID]*domain.User
	SubCateg     map[uuid.UUID]*domain.SubCategory
	Transactions map[uuid.UUID]*domain.Transaction
	RunAtomicFn  func(timeout time.Duration, fn func(ctx context.Context, tx domain.LedgerTx) error) error
}

// NewMockLedgerStore creates a new MockLedgerStore
func NewMockLedgerStore() *MockLedgerStore {
	return &MockLedgerStore{
		Users:        make(map[uuid.UUID]*domain.User),
		SubCateg:     make(map[uuid.UUID]*domain.SubCategory),
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddUser adds a user to the store (helper for tests)
func (m *MockLedgerStore) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users[user.ID] = user
}

// AddSubCategory adds a sub-category to the store (helper for tests)
func (m *MockLedgerStore) AddSubCategory(subCategory *domain.SubCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubCateg[subCategory.ID] = subCategory
}

// AddTransaction adds a transaction to the store (helper for tests)
func (m *MockLedgerStore) AddTransaction(transaction *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transactions[transaction.ID] = transaction
}

// UserBalance returns the current running balance for a user (helper for tests)
func (m *MockLedgerStore) UserBalance(userID uuid.UUID) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[userID]; ok {
		return user.TotalAmount
	}
	return decimal.Zero
}

// TransactionCount returns the number of stored transactions (helper for tests)
func (m *MockLedgerStore) TransactionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Transactions)
}

// RunAtomic runs fn against a staged copy and commits it only on success
func (m *MockLedgerStore) RunAtomic(timeout time.Duration, fn func(ctx context.Context, tx domain.LedgerTx) error) error {
	if m.RunAtomicFn != nil {
		return m.RunAtomicFn(timeout, fn)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	staged := &mockLedgerTx{
		users:        copyUsers(m.Users),
		subCateg:     copySubCategories(m.SubCateg),
		transactions: copyTransactions(m.Transactions),
	}

	if err := fn(ctx, staged); err != nil {
		return err
	}

	m.Users = staged.users
	m.SubCateg = staged.subCateg
	m.Transactions = staged.transactions
	return nil
}

// mockLedgerTx operates on the staged copies owned by one RunAtomic call
type mockLedgerTx struct {
	users        map[uuid.UUID]*domain.User
	subCateg     map[uuid.UUID]*domain.SubCategory
	transactions map[uuid.UUID]*domain.Transaction
}

func (t *mockLedgerTx) FindTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	if transaction, ok := t.transactions[id]; ok {
		return transaction, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (t *mockLedgerTx) FindSubCategory(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	if subCategory, ok := t.subCateg[id]; ok {
		return subCategory, nil
	}
	return nil, domain.ErrSubCategoryNotFound
}

func (t *mockLedgerTx) InsertTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	inserted := *transaction
	inserted.ID = uuid.New()
	inserted.CreatedAt = time.Now()
	inserted.UpdatedAt = inserted.CreatedAt
	t.transactions[inserted.ID] = &inserted
	return &inserted, nil
}

func (t *mockLedgerTx) UpdateTransaction(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	if _, ok := t.transactions[transaction.ID]; !ok {
		return nil, domain.ErrTransactionNotFound
	}
	updated := *transaction
	updated.UpdatedAt = time.Now()
	t.transactions[updated.ID] = &updated
	return &updated, nil
}

func (t *mockLedgerTx) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if _, ok := t.transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(t.transactions, id)
	return nil
}

func (t *mockLedgerTx) IncrementUserBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal) error {
	user, ok := t.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.TotalAmount = user.TotalAmount.Add(delta)
	user.UpdatedAt = time.Now()
	return nil
}

func copyUsers(src map[uuid.UUID]*domain.User) map[uuid.UUID]*domain.User {
	dst := make(map[uuid.UUID]*domain.User, len(src))
	for id, user := range src {
		u := *user
		dst[id] = &u
	}
	return dst
}

func copySubCategories(src map[uuid.UUID]*domain.SubCategory) map[uuid.UUID]*domain.SubCategory {
	dst := make(map[uuid.UUID]*domain.SubCategory, len(src))
	for id, subCategory := range src {
		s := *subCategory
		dst[id] = &s
	}
	return dst
}

func copyTransactions(src map[uuid.UUID]*domain.Transaction) map[uuid.UUID]*domain.Transaction {
	dst := make(map[uuid.UUID]*domain.Transaction, len(src))
	for id, transaction := range src {
		t := *transaction
		dst[id] = &t
	}
	return dst
}
