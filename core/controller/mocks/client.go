package mocks

import (
	"context"

	"campusctl/core/controller"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of controller.Client
type Client struct {
	mock.Mock
}

func (m *Client) List(ctx context.Context, kind controller.Kind, filters map[string]string, pageIndex, pageSize int) ([]controller.Object, error) {
	args := m.Called(ctx, kind, filters, pageIndex, pageSize)
	if objs, ok := args.Get(0).([]controller.Object); ok {
		return objs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListAll(ctx context.Context, kind controller.Kind, filters map[string]string) ([]controller.Object, error) {
	args := m.Called(ctx, kind, filters)
	if objs, ok := args.Get(0).([]controller.Object); ok {
		return objs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Create(ctx context.Context, kind controller.Kind, obj controller.Object) (controller.Object, error) {
	args := m.Called(ctx, kind, obj)
	if created, ok := args.Get(0).(controller.Object); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Update(ctx context.Context, kind controller.Kind, id string, fields controller.Object) (controller.Object, error) {
	args := m.Called(ctx, kind, id, fields)
	if updated, ok := args.Get(0).(controller.Object); ok {
		return updated, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Delete(ctx context.Context, kind controller.Kind, id string) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}
