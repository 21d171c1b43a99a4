package reconcile

import (
	"context"
	"testing"

	"campusctl/core/controller"
	"campusctl/core/controller/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApplyBatch_Isolation(t *testing.T) {
	// Three units; unit 2's apply fails. Units 1 and 3 must still succeed
	// and all three results come back in input order.
	units := []Unit{
		{Kind: controller.KindSite, Object: Properties{"name": "one", "description": "a"}},
		{Kind: controller.KindSite, Object: Properties{"name": "two", "description": "b"}},
		{Kind: controller.KindSite, Object: Properties{"name": "three", "description": "c"}},
	}

	client := new(mocks.Client)
	client.On("ListAll", mock.Anything, controller.KindSite, map[string]string{"name": "one"}).
		Return([]controller.Object{{"id": "s1", "name": "one", "description": "old"}}, nil)
	client.On("ListAll", mock.Anything, controller.KindSite, map[string]string{"name": "two"}).
		Return([]controller.Object{{"id": "s2", "name": "two", "description": "old"}}, nil)
	client.On("ListAll", mock.Anything, controller.KindSite, map[string]string{"name": "three"}).
		Return([]controller.Object{{"id": "s3", "name": "three", "description": "old"}}, nil)

	client.On("Update", mock.Anything, controller.KindSite, "s1", mock.Anything).
		Return(controller.Object{"id": "s1"}, nil)
	client.On("Update", mock.Anything, controller.KindSite, "s2", mock.Anything).
		Return(nil, &controller.APIError{Status: 500, Method: "PUT", URL: "/sites/s2"})
	client.On("Update", mock.Anything, controller.KindSite, "s3", mock.Anything).
		Return(controller.Object{"id": "s3"}, nil)

	batch := ApplyBatch(context.Background(), client, units, Options{})
	require.Len(t, batch.Results, 3)
	assert.False(t, batch.OK)

	assert.NoError(t, batch.Results[0].Err)
	assert.True(t, batch.Results[0].Applied)

	require.Error(t, batch.Results[1].Err)
	var applyErr *ApplyError
	assert.ErrorAs(t, batch.Results[1].Err, &applyErr)

	assert.NoError(t, batch.Results[2].Err)
	assert.True(t, batch.Results[2].Applied)

	// Positional correspondence to input order.
	assert.Equal(t, "one", batch.Results[0].Unit.Name())
	assert.Equal(t, "two", batch.Results[1].Unit.Name())
	assert.Equal(t, "three", batch.Results[2].Unit.Name())
}

func TestApplyBatch_AllConvergedIsOK(t *testing.T) {
	units := []Unit{
		{Kind: controller.KindSite, Object: Properties{"name": "one", "description": "a"}},
		{Kind: controller.KindSite, Object: Properties{"name": "two", "description": "b"}},
	}

	client := new(mocks.Client)
	client.On("ListAll", mock.Anything, controller.KindSite, map[string]string{"name": "one"}).
		Return([]controller.Object{{"id": "s1", "name": "one", "description": "a"}}, nil)
	client.On("ListAll", mock.Anything, controller.KindSite, map[string]string{"name": "two"}).
		Return([]controller.Object{{"id": "s2", "name": "two", "description": "b"}}, nil)

	batch := ApplyBatch(context.Background(), client, units, Options{})
	assert.True(t, batch.OK)
	for _, r := range batch.Results {
		assert.Equal(t, ChangeNone, r.Decision.Type)
		assert.False(t, r.Applied)
	}
}

func TestApplyBatch_WorkerPool(t *testing.T) {
	units := make([]Unit, 6)
	client := new(mocks.Client)
	for i, name := range []string{"a", "b", "c", "d", "e", "f"} {
		units[i] = Unit{Kind: controller.KindSite, Object: Properties{"name": name, "description": name}}
		client.On("ListAll", mock.Anything, controller.KindSite, map[string]string{"name": name}).
			Return([]controller.Object{{"id": name, "name": name, "description": name}}, nil)
	}

	batch := ApplyBatch(context.Background(), client, units, Options{Workers: 3})
	require.Len(t, batch.Results, 6)
	assert.True(t, batch.OK)
	for i, r := range batch.Results {
		assert.Equal(t, units[i].Name(), r.Unit.Name())
	}
}

func TestApplyBatch_CancelledUnitsSkipped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	units := []Unit{
		{Kind: controller.KindSite, Object: Properties{"name": "one"}},
		{Kind: controller.KindSite, Object: Properties{"name": "two"}},
	}

	client := new(mocks.Client)
	batch := ApplyBatch(ctx, client, units, Options{})
	require.Len(t, batch.Results, 2)
	assert.False(t, batch.OK)
	for _, r := range batch.Results {
		assert.True(t, r.Skipped)
		assert.ErrorIs(t, r.Err, ErrSkipped)
		assert.False(t, r.Applied)
	}
	client.AssertNotCalled(t, "ListAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyBatch_Empty(t *testing.T) {
	client := new(mocks.Client)
	batch := ApplyBatch(context.Background(), client, nil, Options{})
	assert.True(t, batch.OK)
	assert.Empty(t, batch.Results)
}
