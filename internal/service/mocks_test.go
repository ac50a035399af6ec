package service

import (
	"context"
	"strings"
	"sync"

	"GlobetrotterService/internal/models"
	"GlobetrotterService/pkg/apperrors"
)

// MockDestinationRepository хранит направления в памяти
type MockDestinationRepository struct {
	mu           sync.Mutex
	destinations []models.Destination
	err          error
	reads        int
}

func NewMockDestinationRepository(cities ...string) *MockDestinationRepository {
	m := &MockDestinationRepository{}
	for _, city := range cities {
		m.destinations = append(m.destinations, models.Destination{
			ID:      uint(len(m.destinations) + 1),
			City:    city,
			Country: city + "land",
			Clues:   []string{city + " clue A", city + " clue B"},
			FunFact: []string{city + " fact A", city + " fact B"},
			Trivia:  []string{},
		})
	}
	return m
}

func (m *MockDestinationRepository) Random(ctx context.Context) (*models.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if len(m.destinations) == 0 {
		return nil, apperrors.NotFound("No destinations found")
	}
	d := m.destinations[len(m.destinations)-1]
	return &d, nil
}

func (m *MockDestinationRepository) GetByCity(ctx context.Context, city string) (*models.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	for _, d := range m.destinations {
		if d.City == city {
			return &d, nil
		}
	}
	return nil, apperrors.NotFound("Destination not found")
}

func (m *MockDestinationRepository) GetByID(ctx context.Context, id uint) (*models.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if m.err != nil {
		return nil, m.err
	}
	for _, d := range m.destinations {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, apperrors.NotFound("Destination not found")
}

func (m *MockDestinationRepository) ListAll(ctx context.Context) ([]models.Destination, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]models.Destination, len(m.destinations))
	copy(out, m.destinations)
	return out, nil
}

func (m *MockDestinationRepository) Create(ctx context.Context, destination *models.Destination) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, d := range m.destinations {
		if d.City == destination.City {
			return apperrors.Conflict("Destination already exists", nil)
		}
	}
	destination.ID = uint(len(m.destinations) + 1)
	m.destinations = append(m.destinations, *destination)
	return nil
}

func (m *MockDestinationRepository) BulkCreate(ctx context.Context, destinations []models.Destination) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}

	seen := map[string]bool{}
	for _, d := range m.destinations {
		seen[d.City] = true
	}
	for _, d := range destinations {
		if seen[d.City] {
			return 0, apperrors.Conflict("Destination already exists", nil)
		}
		seen[d.City] = true
	}

	for _, d := range destinations {
		d.ID = uint(len(m.destinations) + 1)
		m.destinations = append(m.destinations, d)
	}
	return len(destinations), nil
}

func (m *MockDestinationRepository) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// MockDestinationCache простой кэш в памяти
type MockDestinationCache struct {
	mu     sync.Mutex
	byID   map[uint]models.Destination
	byCity map[string]models.Destination
}

func NewMockDestinationCache() *MockDestinationCache {
	return &MockDestinationCache{
		byID:   map[uint]models.Destination{},
		byCity: map[string]models.Destination{},
	}
}

func (c *MockDestinationCache) SetDestination(ctx context.Context, d *models.Destination) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[d.ID] = *d
	c.byCity[d.City] = *d
}

func (c *MockDestinationCache) GetDestinationByID(ctx context.Context, id uint) (*models.Destination, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.byID[id]
	return &d, ok
}

func (c *MockDestinationCache) GetDestinationByCity(ctx context.Context, city string) (*models.Destination, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.byCity[city]
	return &d, ok
}

// MockUserRepository хранит пользователей в памяти
type MockUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
	calls int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: map[string]*models.User{}}
}

func (m *MockUserRepository) Register(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	if _, exists := m.users[user.UsernameKey]; exists {
		return apperrors.Conflict("Username already taken", nil)
	}
	m.users[user.UsernameKey] = user
	return nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[models.FoldKey(username)]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

// sequence возвращает заранее заданные значения, ограничивая их диапазоном [0, n)
func sequence(values ...int) func(n int) int {
	var mu sync.Mutex
	i := 0
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		if len(values) == 0 {
			return 0
		}
		v := values[i%len(values)]
		i++
		return v % n
	}
}

func cities(options []string) string {
	return strings.Join(options, ",")
}
