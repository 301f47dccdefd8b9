package job

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()

	got, ok := r.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRegistry_PutGetReturnsSnapshot(t *testing.T) {
	r := NewRegistry()
	j := New("id-1", "/tmp/a.mp3", Metadata{ClientName: "Acme"})
	r.Put(j)

	// mutating the caller's copy after Put must not leak into the registry
	j.Status = StatusError

	got, ok := r.Get("id-1")
	require.True(t, ok)
	assert.Equal(t, StatusStarted, got.Status)

	// nor does mutating a snapshot
	got.Stages[StageConversion] = StageState{Status: StageError}
	again, _ := r.Get("id-1")
	assert.Equal(t, StagePending, again.Stage(StageConversion).Status)
}

func TestRegistry_UpdateRollsBackOnError(t *testing.T) {
	r := NewRegistry()
	r.Put(New("id-1", "/tmp/a.mp3", Metadata{}))

	_, err := r.Update("id-1", func(j *Job) error {
		j.Status = StatusProcessing
		return errors.New("nope")
	})
	require.Error(t, err)

	got, _ := r.Get("id-1")
	assert.Equal(t, StatusStarted, got.Status)

	snap, err := r.Update("id-1", (*Job).StartProcessing)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, snap.Status)

	_, err = r.Update("missing", (*Job).StartProcessing)
	assert.Error(t, err)
}

func TestRegistry_ConcurrentReadersAndWriters(t *testing.T) {
	r := NewRegistry()
	const jobs = 8

	for i := range jobs {
		r.Put(New(fmt.Sprintf("job-%d", i), "/tmp/a.mp3", Metadata{}))
	}

	var wg sync.WaitGroup
	for i := range jobs {
		id := fmt.Sprintf("job-%d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := r.Update(id, (*Job).StartProcessing)
			assert.NoError(t, err)
			for _, s := range []StageName{StageConversion, StageTranscription, StageSummary} {
				_, err := r.Update(id, func(j *Job) error { return j.BeginStage(s) })
				assert.NoError(t, err)
				_, err = r.Update(id, func(j *Job) error { return j.CompleteStage(s, "") })
				assert.NoError(t, err)
			}
			_, err = r.Update(id, (*Job).Complete)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			for range 100 {
				got, ok := r.Get(id)
				if !assert.True(t, ok) {
					return
				}
				// a completed status is only ever visible with summary completed
				if got.Status == StatusCompleted {
					assert.Equal(t, StageCompleted, got.Stage(StageSummary).Status)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, jobs, r.Len())
	for _, j := range r.List() {
		assert.Equal(t, StatusCompleted, j.Status)
	}
}
