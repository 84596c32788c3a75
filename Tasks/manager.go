package Tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type State string

const (
	StatePending    State = "PENDING"
	StateProcessing State = "PROCESSING"
	StateSuccess    State = "SUCCESS"
	StateFailure    State = "FAILURE"
)

// Status is the polled handle of a background task: the state plus
// either a human-readable status line or the result payload.
type Status struct {
	State  State                  `json:"state"`
	Status string                 `json:"status,omitempty"`
	Result map[string]interface{} `json:"result,omitempty"`
}

// Store persists task statuses so they survive between the enqueue call
// and later polling.
type Store interface {
	Put(id string, status Status) error
	Get(id string) (Status, bool, error)
}

type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]Status
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: make(map[string]Status)}
}

func (s *MemoryStore) Put(id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[id] = status
	return nil
}

func (s *MemoryStore) Get(id string) (Status, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.tasks[id]
	return status, ok, nil
}

// RedisStore keeps task statuses in redis with a 24h TTL so handles
// remain pollable across restarts.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(addr, password string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Network:  "tcp",
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	var err error
	for i := 0; i < 5; i++ {
		if _, err = client.Ping(context.Background()).Result(); err == nil {
			break
		}
		log.Printf("Failed to connect to Redis (Attempt %d/5): %s", i+1, err.Error())
		time.Sleep(5 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{Client: client, TTL: 24 * time.Hour}, nil
}

func (s *RedisStore) Put(id string, status Status) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.Client.Set(context.Background(), "task:"+id, data, s.TTL).Err()
}

func (s *RedisStore) Get(id string) (Status, bool, error) {
	data, err := s.Client.Get(context.Background(), "task:"+id).Result()
	if err == redis.Nil {
		return Status{}, false, nil
	}
	if err != nil {
		return Status{}, false, err
	}
	var status Status
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return Status{}, false, err
	}
	return status, true, nil
}

// Manager runs fire-and-forget background tasks and tracks their
// lifecycle through the Store. Failures, including panics, are captured
// into the task's failure state instead of propagating. Retries default
// to zero, matching observed behavior; a failed task stays failed.
type Manager struct {
	store   Store
	retries int
	wg      sync.WaitGroup
}

func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// SetRetries configures how many extra attempts a failing task gets.
func (m *Manager) SetRetries(n int) {
	m.retries = n
}

type TaskFunc func() (map[string]interface{}, error)

// Enqueue registers the task handle and starts the work in the
// background. The returned id is the opaque handle for polling.
func (m *Manager) Enqueue(name string, fn TaskFunc) string {
	id := uuid.NewString()
	if err := m.store.Put(id, Status{State: StatePending, Status: "Pending..."}); err != nil {
		log.Printf("Failed to store task %s: %v", id, err)
	}

	m.wg.Add(1)
	go m.run(id, name, fn)

	return id
}

func (m *Manager) run(id, name string, fn TaskFunc) {
	defer m.wg.Done()

	m.put(id, Status{State: StateProcessing, Status: "Processing..."})

	var result map[string]interface{}
	var err error
	for attempt := 0; attempt <= m.retries; attempt++ {
		result, err = m.attempt(fn)
		if err == nil {
			break
		}
	}

	if err != nil {
		log.Printf("Task %s (%s) failed: %v", name, id, err)
		m.put(id, Status{State: StateFailure, Status: err.Error()})
		return
	}

	m.put(id, Status{State: StateSuccess, Result: result})
}

func (m *Manager) attempt(fn TaskFunc) (result map[string]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn()
}

func (m *Manager) Status(id string) (Status, bool) {
	status, ok, err := m.store.Get(id)
	if err != nil {
		log.Printf("Failed to read task %s: %v", id, err)
		return Status{}, false
	}
	return status, ok
}

// Wait blocks until all enqueued tasks have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) put(id string, status Status) {
	if err := m.store.Put(id, status); err != nil {
		log.Printf("Failed to store task %s: %v", id, err)
	}
}
