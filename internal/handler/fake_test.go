package handler_test

import (
	"sync"
	"time"

	"github.com/sysu-ecnc-dev/appointment-manager/backend/internal/domain"
)

// fakeRepo 是 handler.Repository 的内存实现
type fakeRepo struct {
	mu         sync.Mutex
	nextID     int64
	users      map[string]domain.User
	businesses map[string]domain.Business
	services   map[int64]domain.Service
	clients    map[int64]domain.Client
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:      map[string]domain.User{},
		businesses: map[string]domain.Business{},
		services:   map[int64]domain.Service{},
		clients:    map[int64]domain.Client{},
	}
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) CreateUser(user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user.CreatedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f.users[user.ID] = *user
	return nil
}

func (f *fakeRepo) GetUserByID(id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "用户", ID: id}
	}
	return &u, nil
}

func (f *fakeRepo) GetAllUsers() ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := []*domain.User{}
	for _, u := range f.users {
		user := u
		users = append(users, &user)
	}
	return users, nil
}

func (f *fakeRepo) CreateBusiness(b *domain.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b.ID = f.id()
	f.businesses[b.OwnerID] = *b
	return nil
}

func (f *fakeRepo) GetBusinessByOwnerID(ownerID string) (*domain.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.businesses[ownerID]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "商家", ID: ownerID}
	}
	return &b, nil
}

func (f *fakeRepo) UpdateBusiness(b *domain.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.businesses[b.OwnerID] = *b
	return nil
}

func (f *fakeRepo) CreateService(s *domain.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s.ID = f.id()
	f.services[s.ID] = *s
	return nil
}

func (f *fakeRepo) GetServicesByOwnerID(ownerID string) ([]*domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	services := []*domain.Service{}
	for id := int64(1); id <= f.nextID; id++ {
		if s, ok := f.services[id]; ok && s.OwnerID == ownerID {
			services = append(services, &s)
		}
	}
	return services, nil
}

func (f *fakeRepo) GetServiceByID(id int64) (*domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.services[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "服务", ID: id}
	}
	return &s, nil
}

func (f *fakeRepo) GetOwnerIDByServiceID(id int64) (string, error) {
	s, err := f.GetServiceByID(id)
	if err != nil {
		return "", err
	}
	return s.OwnerID, nil
}

func (f *fakeRepo) UpdateService(s *domain.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.services[s.ID] = *s
	return nil
}

func (f *fakeRepo) DeleteService(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.services, id)
	return nil
}

func (f *fakeRepo) CreateClient(c *domain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c.ID = f.id()
	f.clients[c.ID] = *c
	return nil
}

func (f *fakeRepo) GetClientByID(id int64) (*domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.clients[id]
	if !ok {
		return nil, &domain.NotFoundError{Entity: "客户", ID: id}
	}
	return &c, nil
}

func (f *fakeRepo) GetClientsByOwnerID(ownerID string) ([]*domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	clients := []*domain.Client{}
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.clients[id]; ok && c.OwnerID == ownerID {
			clients = append(clients, &c)
		}
	}
	return clients, nil
}

func (f *fakeRepo) GetClientIDByPhone(ownerID, phone string) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, c := range f.clients {
		if c.OwnerID == ownerID && c.Phone == phone {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (f *fakeRepo) UpdateClient(c *domain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.clients[c.ID] = *c
	return nil
}

func (f *fakeRepo) DeleteClient(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.clients, id)
	return nil
}
