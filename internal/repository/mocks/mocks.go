package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pressdeck/overview/internal/domain/content"
	"github.com/pressdeck/overview/internal/domain/taxonomy"
	"github.com/pressdeck/overview/internal/repository"
)

// PreferenceRepository is a mock for repository.PreferenceRepository.
type PreferenceRepository struct {
	mock.Mock
}

func (m *PreferenceRepository) Get(ctx context.Context, userID, key string) (string, error) {
	args := m.Called(ctx, userID, key)
	return args.String(0), args.Error(1)
}

func (m *PreferenceRepository) Set(ctx context.Context, userID, key, value string) error {
	args := m.Called(ctx, userID, key, value)
	return args.Error(0)
}

// ItemRepository is a mock for repository.ItemRepository.
type ItemRepository struct {
	mock.Mock
}

func (m *ItemRepository) List(ctx context.Context, opts repository.ListItemsOptions) ([]content.Item, error) {
	args := m.Called(ctx, opts)
	if items, ok := args.Get(0).([]content.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

// GroupRepository is a mock for repository.GroupRepository.
type GroupRepository struct {
	mock.Mock
}

func (m *GroupRepository) ListRoots(ctx context.Context) ([]taxonomy.Group, error) {
	args := m.Called(ctx)
	if groups, ok := args.Get(0).([]taxonomy.Group); ok {
		return groups, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupRepository) Get(ctx context.Context, id string) (*taxonomy.Group, error) {
	args := m.Called(ctx, id)
	if group, ok := args.Get(0).(*taxonomy.Group); ok {
		return group, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *GroupRepository) Descendants(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

// AuthorRepository is a mock for repository.AuthorRepository.
type AuthorRepository struct {
	mock.Mock
}

func (m *AuthorRepository) Get(ctx context.Context, id string) (*content.Author, error) {
	args := m.Called(ctx, id)
	if author, ok := args.Get(0).(*content.Author); ok {
		return author, args.Error(1)
	}
	return nil, args.Error(1)
}
