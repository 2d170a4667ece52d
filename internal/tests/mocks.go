package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"feedai/internal/domain"
	"feedai/internal/redis"
	"feedai/internal/repository"
	"feedai/internal/service"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount          int32
	UpdateIncentiveCallCount int32

	// Error injection
	CreateError          error
	UpdateIncentiveError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(user), nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, copyUser(u))
	}
	return result, nil
}

func (m *MockUserRepository) UpdateIncentive(ctx context.Context, id string, oldPoints, newPoints int, badges []string) error {
	atomic.AddInt32(&m.UpdateIncentiveCallCount, 1)
	if m.UpdateIncentiveError != nil {
		return m.UpdateIncentiveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if user.Points != oldPoints {
		return repository.ErrConflict
	}
	user.Points = newPoints
	user.Badges = append([]string(nil), badges...)
	return nil
}

func (m *MockUserRepository) QueryTopDonors(ctx context.Context, limit int) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	donors := make([]*domain.User, 0)
	for _, u := range m.users {
		if u.Type == domain.UserTypeDonor {
			donors = append(donors, copyUser(u))
		}
	}
	sort.Slice(donors, func(i, j int) bool {
		if donors[i].Points != donors[j].Points {
			return donors[i].Points > donors[j].Points
		}
		return donors[i].Name < donors[j].Name
	})
	if len(donors) > limit {
		donors = donors[:limit]
	}
	return donors, nil
}

// GetUser returns the user by ID (for test assertions).
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// copyUser deep-copies a user so tests cannot mutate shared state through
// the badge slice.
func copyUser(u *domain.User) *domain.User {
	copy := *u
	copy.Badges = append([]string(nil), u.Badges...)
	return &copy
}

// ──────────────────────────────────────────────
// MOCK RECIPIENT REPOSITORY
// ──────────────────────────────────────────────

// MockRecipientRepository is a mock implementation of RecipientRepository.
type MockRecipientRepository struct {
	mu       sync.RWMutex
	profiles map[string]*domain.RecipientProfile

	// Counters
	UpsertCallCount       int32
	GetAllActiveCallCount int32

	// Error injection
	UpsertError       error
	GetAllActiveError error
}

// NewMockRecipientRepository creates a new mock recipient repository.
func NewMockRecipientRepository() *MockRecipientRepository {
	return &MockRecipientRepository{
		profiles: make(map[string]*domain.RecipientProfile),
	}
}

// AddProfile adds a profile to the mock repository.
func (m *MockRecipientRepository) AddProfile(profile *domain.RecipientProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
}

func (m *MockRecipientRepository) GetProfile(ctx context.Context, userID string) (*domain.RecipientProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	profile, ok := m.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyProfile(profile), nil
}

func (m *MockRecipientRepository) UpsertProfile(ctx context.Context, profile *domain.RecipientProfile) error {
	atomic.AddInt32(&m.UpsertCallCount, 1)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = copyProfile(profile)
	return nil
}

func (m *MockRecipientRepository) GetAllActive(ctx context.Context) ([]*domain.RecipientProfile, error) {
	atomic.AddInt32(&m.GetAllActiveCallCount, 1)
	if m.GetAllActiveError != nil {
		return nil, m.GetAllActiveError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.RecipientProfile, 0)
	for _, p := range m.profiles {
		if p.Active {
			result = append(result, copyProfile(p))
		}
	}
	// Deterministic candidate order.
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})
	return result, nil
}

func copyProfile(p *domain.RecipientProfile) *domain.RecipientProfile {
	copy := *p
	copy.FoodPreferences = append([]string(nil), p.FoodPreferences...)
	copy.AvailableHours = append([]domain.HourWindow(nil), p.AvailableHours...)
	return &copy
}

// ──────────────────────────────────────────────
// MOCK DONATION REPOSITORY
// ──────────────────────────────────────────────

// MockDonationRepository is a mock implementation of DonationRepository.
type MockDonationRepository struct {
	mu        sync.RWMutex
	donations map[string]*domain.Donation

	// Counters
	CreateCallCount           int32
	UpdateStatusFromCallCount int32

	// Error injection
	CreateError           error
	UpdateStatusFromError error
}

// NewMockDonationRepository creates a new mock donation repository.
func NewMockDonationRepository() *MockDonationRepository {
	return &MockDonationRepository{
		donations: make(map[string]*domain.Donation),
	}
}

// AddDonation adds a donation to the mock repository.
func (m *MockDonationRepository) AddDonation(donation *domain.Donation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.donations[donation.ID] = donation
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.donations[donation.ID] = donation
	return nil
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	donation, ok := m.donations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *donation
	return &copy, nil
}

func (m *MockDonationRepository) ListByDonor(ctx context.Context, donorID string) ([]*domain.Donation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Donation, 0)
	for _, d := range m.donations {
		if d.DonorID == donorID {
			copy := *d
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockDonationRepository) ListAvailable(ctx context.Context) ([]*domain.Donation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Donation, 0)
	for _, d := range m.donations {
		if d.Status == domain.DonationStatusAvailable {
			copy := *d
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockDonationRepository) Update(ctx context.Context, donation *domain.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.donations[donation.ID]; !ok {
		return repository.ErrNotFound
	}
	m.donations[donation.ID] = donation
	return nil
}

func (m *MockDonationRepository) UpdateStatusFrom(ctx context.Context, id string, from, to domain.DonationStatus) error {
	atomic.AddInt32(&m.UpdateStatusFromCallCount, 1)
	if m.UpdateStatusFromError != nil {
		return m.UpdateStatusFromError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[id]
	if !ok {
		return repository.ErrNotFound
	}
	if donation.Status != from {
		return repository.ErrConflict
	}
	donation.Status = to
	return nil
}

// GetDonation returns the donation by ID (for test assertions).
func (m *MockDonationRepository) GetDonation(id string) *domain.Donation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.donations[id]
}

// ──────────────────────────────────────────────
// MOCK MATCH REPOSITORY
// ──────────────────────────────────────────────

// MockMatchRepository is a mock implementation of MatchRepository.
type MockMatchRepository struct {
	mu      sync.RWMutex
	matches map[string]*domain.Match

	// Counters
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockMatchRepository creates a new mock match repository.
func NewMockMatchRepository() *MockMatchRepository {
	return &MockMatchRepository{
		matches: make(map[string]*domain.Match),
	}
}

// AddMatch adds a match to the mock repository.
func (m *MockMatchRepository) AddMatch(match *domain.Match) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[match.ID] = match
}

func (m *MockMatchRepository) Create(ctx context.Context, match *domain.Match) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[match.ID] = match
	return nil
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	match, ok := m.matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *match
	return &copy, nil
}

func (m *MockMatchRepository) ListByDonor(ctx context.Context, donorID string) ([]*domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Match, 0)
	for _, match := range m.matches {
		if match.DonorID == donorID {
			copy := *match
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockMatchRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Match, 0)
	for _, match := range m.matches {
		if match.RecipientID == recipientID {
			copy := *match
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *MockMatchRepository) Update(ctx context.Context, match *domain.Match) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[match.ID]; !ok {
		return repository.ErrNotFound
	}
	m.matches[match.ID] = match
	return nil
}

// GetMatch returns the match by ID (for test assertions).
func (m *MockMatchRepository) GetMatch(id string) *domain.Match {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.matches[id]
}

// CountMatches returns the number of matches.
func (m *MockMatchRepository) CountMatches() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matches)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireDonationLock(ctx context.Context, donationID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:donation:"+donationID, ttl)
}

func (m *MockLockStore) ReleaseDonationLock(ctx context.Context, donationID string) error {
	return m.release("lock:donation:" + donationID)
}

func (m *MockLockStore) AcquireDonorLock(ctx context.Context, donorID string, ttl time.Duration) (bool, error) {
	return m.acquire("lock:donor:"+donorID, ttl)
}

func (m *MockLockStore) ReleaseDonorLock(ctx context.Context, donorID string) error {
	return m.release("lock:donor:" + donorID)
}

func (m *MockLockStore) acquire(key string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) release(key string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, key)
	return nil
}

// IsLocked checks whether a key is held (for test assertions).
func (m *MockLockStore) IsLocked(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks[key]
	return exists && time.Now().Before(expiry)
}

// ClearLocks clears all locks (for test cleanup).
func (m *MockLockStore) ClearLocks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks = make(map[string]time.Time)
}

// ──────────────────────────────────────────────
// MOCK RANK STORE
// ──────────────────────────────────────────────

// MockRankStore is a mock implementation of RankStoreInterface.
type MockRankStore struct {
	mu     sync.RWMutex
	points map[string]float64

	// Counters
	AddPointsCallCount int32

	// Error injection
	AddPointsError error
}

// NewMockRankStore creates a new mock rank store.
func NewMockRankStore() *MockRankStore {
	return &MockRankStore{
		points: make(map[string]float64),
	}
}

func (m *MockRankStore) AddPoints(ctx context.Context, donorID string, points int) error {
	atomic.AddInt32(&m.AddPointsCallCount, 1)
	if m.AddPointsError != nil {
		return m.AddPointsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[donorID] += float64(points)
	return nil
}

func (m *MockRankStore) SetPoints(ctx context.Context, donorID string, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points[donorID] = float64(points)
	return nil
}

func (m *MockRankStore) GetRank(ctx context.Context, donorID string) (*redis.DonorRank, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	score, ok := m.points[donorID]
	if !ok {
		return nil, nil
	}
	rank := int64(1)
	for id, p := range m.points {
		if id != donorID && p > score {
			rank++
		}
	}
	return &redis.DonorRank{DonorID: donorID, Rank: rank, Points: score}, nil
}

func (m *MockRankStore) RemoveDonor(ctx context.Context, donorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.points, donorID)
	return nil
}

// Points returns the mirrored points for a donor (for test assertions).
func (m *MockRankStore) Points(donorID string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.points[donorID]
}

// ──────────────────────────────────────────────
// MOCK MATCHING / GAMIFICATION SERVICES
// ──────────────────────────────────────────────

// MockMatchingService is a mock implementation of MatchingServiceInterface.
type MockMatchingService struct {
	mu sync.Mutex

	// Canned result
	Match *domain.Match
	Err   error

	// Counters
	FindCallCount int32
}

func (m *MockMatchingService) FindOptimalMatch(ctx context.Context, donation *domain.Donation) (*domain.Match, error) {
	atomic.AddInt32(&m.FindCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Match, nil
}

// MockGamificationService is a mock implementation of
// GamificationServiceInterface.
type MockGamificationService struct {
	mu sync.Mutex

	// Canned result
	Result *service.AwardResult
	Err    error

	// Counters
	AwardCallCount int32
}

func (m *MockGamificationService) AwardForDonation(ctx context.Context, donorID string, donation *domain.Donation) (*service.AwardResult, error) {
	atomic.AddInt32(&m.AwardCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
