package thumbs

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sagan/mapic/util/pathutil"
)

// Manager runs at most one Worker at a time, all sharing one Cache.
type Manager struct {
	mu     sync.Mutex
	cache  *Cache
	worker *Worker
	group  *errgroup.Group
}

func NewManager(cache *Cache) *Manager {
	return &Manager{cache: cache}
}

func (m *Manager) Cache() *Cache {
	return m.cache
}

// Start stops the current worker (waiting for it) and starts a new one over the images of dir.
func (m *Manager) Start(ctx context.Context, dir string, options Options) (*Worker, error) {
	files, err := pathutil.ListImages(dir)
	if err != nil {
		return nil, err
	}
	return m.StartFiles(ctx, files, options), nil
}

// StartFiles is similar to Start but processes the files list.
func (m *Manager) StartFiles(ctx context.Context, files []string, options Options) *Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.stopLocked(); err != nil {
		log.Debugf("previous thumbnail worker: %v", err)
	}
	worker := NewWorker(files, m.cache, options)
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(ctx)
	})
	m.worker = worker
	m.group = group
	return worker
}

// Stop requests the current worker to abort and waits for it to return.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

func (m *Manager) stopLocked() error {
	if m.worker == nil {
		return nil
	}
	m.worker.Abort()
	err := m.group.Wait()
	m.worker = nil
	m.group = nil
	return err
}

// Wait waits for the current worker to finish.
func (m *Manager) Wait() error {
	m.mu.Lock()
	group := m.group
	m.mu.Unlock()
	if group == nil {
		return nil
	}
	return group.Wait()
}

// Current returns the running (or last finished) worker, or nil.
func (m *Manager) Current() *Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.worker
}
