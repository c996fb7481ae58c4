package state

import (
	"sync"
)

// Manager управляет состояниями пользователей и блокировками коммитов
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData

	commitsMu sync.Mutex
	commits   map[int64]int64 // packageID -> telegramID оператора, который применяет изменения

	// studentID -> telegramID; новые пакеты ученика создаются по одному
	studentCommits map[int64]int64
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		states:         make(map[int64]*UserData),
		commits:        make(map[int64]int64),
		studentCommits: make(map[int64]int64),
	}
}

// TryBeginCommit занимает пакет на время применения изменений.
// Возвращает false, если по пакету уже идёт коммит (например, двойное нажатие кнопки).
func (sm *Manager) TryBeginCommit(packageID, telegramID int64) bool {
	sm.commitsMu.Lock()
	defer sm.commitsMu.Unlock()

	if _, busy := sm.commits[packageID]; busy {
		return false
	}
	sm.commits[packageID] = telegramID
	return true
}

// EndCommit освобождает пакет
func (sm *Manager) EndCommit(packageID int64) {
	sm.commitsMu.Lock()
	defer sm.commitsMu.Unlock()

	delete(sm.commits, packageID)
}

// TryBeginStudentCommit занимает ученика на время создания нового пакета,
// иначе два нажатия могут создать два пакета на одни и те же даты.
func (sm *Manager) TryBeginStudentCommit(studentID, telegramID int64) bool {
	sm.commitsMu.Lock()
	defer sm.commitsMu.Unlock()

	if _, busy := sm.studentCommits[studentID]; busy {
		return false
	}
	sm.studentCommits[studentID] = telegramID
	return true
}

// EndStudentCommit освобождает ученика
func (sm *Manager) EndStudentCommit(studentID int64) {
	sm.commitsMu.Lock()
	defer sm.commitsMu.Unlock()

	delete(sm.studentCommits, studentID)
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		// Если состояние None, удаляем запись
		delete(sm.states, telegramID)
		return
	}

	if _, exists := sm.states[telegramID]; !exists {
		sm.states[telegramID] = &UserData{
			State: state,
			Data:  make(map[string]interface{}),
		}
	} else {
		sm.states[telegramID].State = state
	}
}

// GetData получает временные данные пользователя
func (sm *Manager) GetData(telegramID int64, key string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// SetData устанавливает временные данные пользователя
func (sm *Manager) SetData(telegramID int64, key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.states[telegramID]; !exists {
		// Создаём запись если её нет
		sm.states[telegramID] = &UserData{
			State: StateNone,
			Data:  make(map[string]interface{}),
		}
	}
	sm.states[telegramID].Data[key] = value
}

// ClearState очищает состояние и данные пользователя
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}

// GetInt64 получает числовые временные данные пользователя
func (sm *Manager) GetInt64(telegramID int64, key string) (int64, bool) {
	v, ok := sm.GetData(telegramID, key)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetAllData получает все временные данные пользователя
func (sm *Manager) GetAllData(telegramID int64) map[string]interface{} {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		// Возвращаем копию, чтобы избежать race condition
		dataCopy := make(map[string]interface{})
		for k, v := range userData.Data {
			dataCopy[k] = v
		}
		return dataCopy
	}
	return nil
}
