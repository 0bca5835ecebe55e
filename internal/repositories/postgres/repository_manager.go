package postgres

import (
	"context"
	"fmt"

	"github.com/guided-platform/matching-service/internal/repositories"
)

// repositoryManager implements repositories.RepositoryManager.
type repositoryManager struct {
	config      RepositoryConfig
	repository  repositories.Repository
	initialized bool
}

// NewRepositoryManager creates a repository manager from the given configuration.
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{
		config: config,
	}
}

// Initialize wires up the repository instances.
func (m *repositoryManager) Initialize() error {
	if m.initialized {
		return nil
	}

	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	m.repository = NewPostgreSQLRepository(m.config)
	m.initialized = true

	return nil
}

// GetRepository returns the repository aggregate. Panics if Initialize was not called.
func (m *repositoryManager) GetRepository() repositories.Repository {
	if !m.initialized {
		panic("repository manager not initialized")
	}
	return m.repository
}

// HealthCheck verifies the underlying connections are reachable.
func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if !m.initialized {
		return fmt.Errorf("repository manager not initialized")
	}
	return m.repository.Ping(ctx)
}

// Shutdown closes all repository connections.
func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if !m.initialized {
		return nil
	}

	if err := m.repository.Close(); err != nil {
		return fmt.Errorf("failed to close repository: %w", err)
	}

	m.initialized = false
	return nil
}
