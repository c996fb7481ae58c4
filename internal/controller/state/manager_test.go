package state

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_States(t *testing.T) {
	sm := NewManager()

	require.Equal(t, StateNone, sm.GetState(1))

	sm.SetState(1, StateAddMakeupDate)
	sm.SetData(1, KeyPackageID, int64(42))
	require.Equal(t, StateAddMakeupDate, sm.GetState(1))

	id, ok := sm.GetInt64(1, KeyPackageID)
	require.True(t, ok)
	require.Equal(t, int64(42), id)

	sm.SetData(1, KeyLessonID, "not a number")
	_, ok = sm.GetInt64(1, KeyLessonID)
	require.False(t, ok)

	data := sm.GetAllData(1)
	data[KeyPackageID] = int64(7)
	id, _ = sm.GetInt64(1, KeyPackageID)
	require.Equal(t, int64(42), id)

	sm.ClearState(1)
	require.Equal(t, StateNone, sm.GetState(1))
	require.Nil(t, sm.GetAllData(1))
}

func TestManager_CommitGuard(t *testing.T) {
	sm := NewManager()

	require.True(t, sm.TryBeginCommit(10, 1))
	require.False(t, sm.TryBeginCommit(10, 2))
	require.True(t, sm.TryBeginCommit(11, 2))

	sm.EndCommit(10)
	require.True(t, sm.TryBeginCommit(10, 2))
}

func TestManager_CommitGuardConcurrent(t *testing.T) {
	sm := NewManager()

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(operator int64) {
			defer wg.Done()
			if sm.TryBeginCommit(99, operator) {
				winners.Add(1)
			}
		}(int64(i))
	}
	wg.Wait()

	require.Equal(t, int32(1), winners.Load())
}

func TestManager_StudentCommitGuard(t *testing.T) {
	sm := NewManager()

	var (
		wg      sync.WaitGroup
		winners atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(operator int64) {
			defer wg.Done()
			if sm.TryBeginStudentCommit(5, operator) {
				winners.Add(1)
			}
		}(int64(i))
	}
	wg.Wait()
	require.Equal(t, int32(1), winners.Load())

	// пакет 5 и ученик 5 блокируются независимо
	require.True(t, sm.TryBeginCommit(5, 1))

	sm.EndStudentCommit(5)
	require.True(t, sm.TryBeginStudentCommit(5, 2))
}
