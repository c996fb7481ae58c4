package common

// Форматы callback data. Telegram ограничивает их 64 байтами,
// поэтому даты блоков хранятся в state, а в кнопке только индекс.
const (
	Noop = "noop"

	ViewStudent    = "view_student:"    // view_student:student_id
	ViewPackage    = "view_package:"    // view_package:package_id
	RegenPreview   = "regen_preview:"   // regen_preview:package_id
	RegenCommit    = "regen_commit:"    // regen_commit:package_id
	ChunksPreview  = "chunks_preview:"  // chunks_preview:student_id
	ChunksExtend   = "chunks_extend:"   // chunks_extend:student_id
	ChunkCommit    = "chunk_commit:"    // chunk_commit:student_id:chunk_index
	AddPackage     = "add_package:"     // add_package:student_id
	TogglePayment  = "pay_toggle:"      // pay_toggle:package_id
	AddMakeup      = "makeup_add:"      // makeup_add:package_id
	DeleteMakeup   = "makeup_delete:"   // makeup_delete:lesson_id
	PinLesson      = "lesson_pin:"      // lesson_pin:lesson_id
	MoveLesson     = "lesson_move:"     // lesson_move:lesson_id
	MarkAttended   = "lesson_attended:" // lesson_attended:lesson_id
	DeleteClosure  = "closure_delete:"  // closure_delete:closure_id
	ExportSize     = "export:"          // export:4, export:8, export:0
	DeletePackage  = "package_delete:"  // package_delete:package_id
	ConfirmDeleteP = "package_delete_confirm:"
)
