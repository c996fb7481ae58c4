package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ожидание даты от оператора
	StateAddMakeupDate  UserState = "add_makeup_date"  // data: package_id
	StateMoveLessonDate UserState = "move_lesson_date" // data: lesson_id
)

// Ключи временных данных
const (
	KeyPackageID = "package_id"
	KeyLessonID  = "lesson_id"
	KeyChunks    = "chunks" // []schedule.Chunk последнего превью блоков
	KeyChunksFor = "chunks_student_id"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
