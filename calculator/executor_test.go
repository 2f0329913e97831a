package calculator

import (
	"context"
	"fmt"
	"testing"

	"firecalc/fire"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch(t *testing.T) {
	var jobs []Job
	for i := 0; i < 5; i++ {
		jobs = append(jobs, Job{
			Name:      fmt.Sprintf("job-%d", i),
			Parameter: slab(10, 0.005, 0.5, 10, fire.Constant(200*float64(i+1))),
			Method:    MethodGaussSeidel,
		})
	}
	bad := slab(10, 0.005, 0.5, 10, fire.Constant(1000))
	bad.Nodes = 2
	jobs[2].Parameter = bad

	results := RunBatch(context.Background(), jobs, 3)
	require.Len(t, results, len(jobs))
	for i, r := range results {
		assert.Equal(t, jobs[i].Name, r.Name)
		assert.Equal(t, MethodGaussSeidel, r.Method)
		if i == 2 {
			assert.ErrorIs(t, r.Err, ErrConfig)
			continue
		}
		require.NoError(t, r.Err)
		assert.Equal(t, 21, r.History.Size())
	}

	// 气体温度越高，受火面温度越高
	a, _ := results[0].History.Last()
	b, _ := results[4].History.Last()
	assert.Greater(t, b.Field[0], a.Field[0])
}

func TestRunBatchCancelled(t *testing.T) {
	jobs := []Job{
		{Name: "a", Parameter: slab(10, 0.005, 0.5, 10, fire.Constant(500)), Method: MethodExplicit},
		{Name: "b", Parameter: slab(10, 0.005, 0.5, 10, fire.Constant(500)), Method: MethodExplicit},
		{Name: "c", Parameter: slab(10, 0.005, 0.5, 10, fire.Constant(500)), Method: MethodExplicit},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := RunBatch(ctx, jobs, 1)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.NotNil(t, r.History)
	}
}

func TestRunBatchEmpty(t *testing.T) {
	assert.Empty(t, RunBatch(context.Background(), nil, 4))
}
