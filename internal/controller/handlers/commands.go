package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/state"
	"github.com/Freeeeeet/tuition_scheduler/internal/errs"
	"github.com/Freeeeeet/tuition_scheduler/internal/grid"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот для расписания пакетов занятий.\n\n"+
			"/students - Сетка учеников и пакетов\n"+
			"/closures - Праздники и закрытия\n"+
			"/export - Выгрузка в Excel\n"+
			"/help - Все команды",
		update.Message.From.FirstName,
	)

	h.reply(ctx, b, update, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	helpText := "📚 Справка по командам:\n\n" +
		"Ученики:\n" +
		"/students [4|8] [группа] - Сетка учеников\n" +
		"/student <id> - Карточка ученика\n" +
		"/addstudent Имя; Tue,Thu; 8; 2024-01-02[; конец][; группа][; B1]\n" +
		"/editstudent <id> <та же строка> - Изменить ученика\n" +
		"/deletestudent <id> - Удалить ученика с пакетами\n\n" +
		"Пакеты:\n" +
		"/package <id> - Уроки пакета\n" +
		"/preview <id> - Пересчитать даты пакета\n" +
		"/chunks <id ученика> [all] - Предложить следующие пакеты\n" +
		"/addpackage <id ученика> - Создать следующий пакет\n" +
		"/paid <id>, /unpaid <id> - Отметка оплаты\n" +
		"/makeup <id пакета> <дата> - Добавить отработку\n" +
		"/stale - Пакеты, которым нужен пересчёт\n\n" +
		"Закрытия:\n" +
		"/closures - Список\n" +
		"/closure <начало> <конец> [причина] - Добавить\n\n" +
		"/export [4|8] - Выгрузка в Excel\n" +
		"/cancel - Отменить ввод"

	h.reply(ctx, b, update, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.reply(ctx, b, update, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.reply(ctx, b, update, "✅ Операция отменена.")
}

// HandleStudents показывает сетку: /students [4|8] [группа]
func (h *Handlers) HandleStudents(ctx context.Context, b *bot.Bot, update *models.Update) {
	var f grid.Filters
	for _, arg := range commandArgs(update.Message.Text) {
		if size, err := strconv.Atoi(arg); err == nil {
			f.Size = &size
			continue
		}
		group := arg
		f.Group = &group
	}

	rows, err := h.schedules.Dashboard(ctx, f)
	if err != nil {
		h.replyError(ctx, b, update, "students", err)
		return
	}
	if len(rows) == 0 {
		h.reply(ctx, b, update, "📭 Учеников нет.\n\nДобавить: /addstudent")
		return
	}

	var text strings.Builder
	kb := keyboard.NewBuilder()
	var buttons []models.InlineKeyboardButton
	students := 0
	for _, row := range rows {
		text.WriteString(formatting.FormatGridRow(row) + "\n")
		if row.IsFirstForStudent {
			students++
			buttons = append(buttons, keyboard.IDButton("👤 "+row.Student.Name, common.ViewStudent, row.Student.ID))
		}
	}
	fmt.Fprintf(&text, "\n%d %s", students, formatting.PluralizeStudents(students))
	kb.Grid(2, buttons...)

	h.replyWithKeyboard(ctx, b, update, text.String(), kb.Build())
}

// HandleStudent показывает карточку ученика: /student <id>
func (h *Handlers) HandleStudent(ctx context.Context, b *bot.Bot, update *models.Update) {
	studentID, err := parseID(update.Message.Text, "student_id")
	if err != nil {
		h.replyError(ctx, b, update, "student", err)
		return
	}

	student, err := h.students.Get(ctx, studentID)
	if err != nil {
		h.replyError(ctx, b, update, "student", err)
		return
	}

	text, kb := common.BuildStudentScreen(student)
	h.replyWithKeyboard(ctx, b, update, text, kb)
}

// HandleAddStudent создаёт ученика с первым пакетом
func (h *Handlers) HandleAddStudent(ctx context.Context, b *bot.Bot, update *models.Update) {
	_, line, _ := strings.Cut(strings.TrimSpace(update.Message.Text), " ")
	if strings.TrimSpace(line) == "" {
		h.reply(ctx, b, update, "Формат: /addstudent Имя; Tue,Thu; 8; 2024-01-02[; конец][; группа][; B1]")
		return
	}

	in, err := parseStudentInput(line)
	if err != nil {
		h.replyError(ctx, b, update, "addstudent", err)
		return
	}

	student, err := h.students.Create(ctx, in)
	if err != nil {
		h.replyError(ctx, b, update, "addstudent", err)
		return
	}

	text, kb := common.BuildStudentScreen(student)
	h.replyWithKeyboard(ctx, b, update, "✅ Ученик создан\n\n"+text, kb)
}

// HandleEditStudent обновляет ученика: /editstudent <id> Имя; Tue,Thu; 8; 2024-01-02[; ...]
func (h *Handlers) HandleEditStudent(ctx context.Context, b *bot.Bot, update *models.Update) {
	studentID, err := parseID(update.Message.Text, "student_id")
	if err != nil {
		h.replyError(ctx, b, update, "editstudent", err)
		return
	}

	_, rest, _ := strings.Cut(strings.TrimSpace(update.Message.Text), " ")
	_, line, _ := strings.Cut(strings.TrimSpace(rest), " ")
	if strings.TrimSpace(line) == "" {
		h.reply(ctx, b, update, "Формат: /editstudent <id> Имя; Tue,Thu; 8; 2024-01-02[; конец][; группа][; B1]")
		return
	}

	in, err := parseStudentInput(line)
	if err != nil {
		h.replyError(ctx, b, update, "editstudent", err)
		return
	}

	student, err := h.students.Update(ctx, studentID, in)
	if err != nil {
		h.replyError(ctx, b, update, "editstudent", err)
		return
	}

	text, kb := common.BuildStudentScreen(student)
	h.replyWithKeyboard(ctx, b, update, "✅ Ученик обновлён, проверьте /stale\n\n"+text, kb)
}

// HandleDeleteStudent удаляет ученика вместе с пакетами: /deletestudent <id>
func (h *Handlers) HandleDeleteStudent(ctx context.Context, b *bot.Bot, update *models.Update) {
	studentID, err := parseID(update.Message.Text, "student_id")
	if err != nil {
		h.replyError(ctx, b, update, "deletestudent", err)
		return
	}

	if err := h.students.Delete(ctx, studentID); err != nil {
		h.replyError(ctx, b, update, "deletestudent", err)
		return
	}

	h.logger.Info("Student deleted from bot",
		zap.Int64("student_id", studentID),
		zap.Int64("operator_id", update.Message.From.ID),
	)
	h.reply(ctx, b, update, fmt.Sprintf("🗑 Ученик #%d удалён вместе с пакетами", studentID))
}

// HandlePackage показывает уроки пакета: /package <id>
func (h *Handlers) HandlePackage(ctx context.Context, b *bot.Bot, update *models.Update) {
	packageID, err := parseID(update.Message.Text, "package_id")
	if err != nil {
		h.replyError(ctx, b, update, "package", err)
		return
	}

	pkg, err := h.schedules.GetPackage(ctx, packageID)
	if err != nil {
		h.replyError(ctx, b, update, "package", err)
		return
	}

	text, kb := common.BuildPackageScreen(pkg)
	h.replyWithKeyboard(ctx, b, update, text, kb)
}

// HandlePreview показывает превью пересчёта: /preview <id>
func (h *Handlers) HandlePreview(ctx context.Context, b *bot.Bot, update *models.Update) {
	packageID, err := parseID(update.Message.Text, "package_id")
	if err != nil {
		h.replyError(ctx, b, update, "preview", err)
		return
	}

	preview, err := h.schedules.PreviewRegeneration(ctx, packageID)
	if err != nil {
		h.replyError(ctx, b, update, "preview", err)
		return
	}

	text, kb := common.BuildPreviewScreen(preview)
	h.replyWithKeyboard(ctx, b, update, text, kb)
}

// HandleChunks предлагает следующие пакеты: /chunks <id ученика> [all]
func (h *Handlers) HandleChunks(ctx context.Context, b *bot.Bot, update *models.Update) {
	studentID, err := parseID(update.Message.Text, "student_id")
	if err != nil {
		h.replyError(ctx, b, update, "chunks", err)
		return
	}
	args := commandArgs(update.Message.Text)
	extend := len(args) > 1 && strings.EqualFold(args[1], "all")

	chunks, err := h.schedules.PreviewChunks(ctx, studentID, nil, extend)
	if err != nil {
		h.replyError(ctx, b, update, "chunks", err)
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.SetData(telegramID, state.KeyChunks, chunks)
	h.stateManager.SetData(telegramID, state.KeyChunksFor, studentID)

	text, kb := common.BuildChunksScreen(studentID, chunks)
	h.replyWithKeyboard(ctx, b, update, text, kb)
}

// HandleAddPackage создаёт следующий пакет: /addpackage <id ученика>
func (h *Handlers) HandleAddPackage(ctx context.Context, b *bot.Bot, update *models.Update) {
	studentID, err := parseID(update.Message.Text, "student_id")
	if err != nil {
		h.replyError(ctx, b, update, "addpackage", err)
		return
	}

	if !h.stateManager.TryBeginStudentCommit(studentID, update.Message.From.ID) {
		h.reply(ctx, b, update, common.ErrorMessage(common.ErrCommitRunning))
		return
	}
	defer h.stateManager.EndStudentCommit(studentID)

	pkg, err := h.schedules.AddPackage(ctx, studentID)
	if err != nil {
		h.replyError(ctx, b, update, "addpackage", err)
		return
	}

	text, kb := common.BuildPackageScreen(pkg)
	h.replyWithKeyboard(ctx, b, update, "✅ Пакет создан\n\n"+text, kb)
}

// HandlePaid и HandleUnpaid меняют отметку оплаты
func (h *Handlers) HandlePaid(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setPaid(ctx, b, update, true)
}

func (h *Handlers) HandleUnpaid(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.setPaid(ctx, b, update, false)
}

func (h *Handlers) setPaid(ctx context.Context, b *bot.Bot, update *models.Update, paid bool) {
	packageID, err := parseID(update.Message.Text, "package_id")
	if err != nil {
		h.replyError(ctx, b, update, "paid", err)
		return
	}

	if err := h.schedules.SetPaymentStatus(ctx, packageID, paid); err != nil {
		h.replyError(ctx, b, update, "paid", err)
		return
	}

	h.reply(ctx, b, update, fmt.Sprintf("Пакет #%d: %s", packageID, formatting.FormatPaid(paid)))
}

// HandleMakeup добавляет отработку: /makeup <id пакета> <дата>
func (h *Handlers) HandleMakeup(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update.Message.Text)
	if len(args) != 2 {
		h.reply(ctx, b, update, "Формат: /makeup <id пакета> <дата>")
		return
	}

	packageID, err := parseID(update.Message.Text, "package_id")
	if err != nil {
		h.replyError(ctx, b, update, "makeup", err)
		return
	}
	h.addMakeup(ctx, b, update, packageID, args[1])
}

func (h *Handlers) addMakeup(ctx context.Context, b *bot.Bot, update *models.Update, packageID int64, rawDate string) {
	date, err := formatting.ParseDate(rawDate)
	if err != nil {
		h.replyError(ctx, b, update, "makeup", errs.NewValidationError("date", "use 2024-01-13 or 13.01.2024"))
		return
	}

	if _, err := h.schedules.AddMakeup(ctx, packageID, date); err != nil {
		h.replyError(ctx, b, update, "makeup", err)
		return
	}

	pkg, err := h.schedules.GetPackage(ctx, packageID)
	if err != nil {
		h.replyError(ctx, b, update, "makeup", err)
		return
	}

	text, kb := common.BuildPackageScreen(pkg)
	h.replyWithKeyboard(ctx, b, update, "✅ Отработка добавлена\n\n"+text, kb)
}

// HandleStale показывает пакеты, расписание которых изменится при пересчёте
func (h *Handlers) HandleStale(ctx context.Context, b *bot.Bot, update *models.Update) {
	ids, err := h.schedules.StalePackages(ctx)
	if err != nil {
		h.replyError(ctx, b, update, "stale", err)
		return
	}

	text, kb := BuildStaleScreen(ids)
	h.replyWithKeyboard(ctx, b, update, text, kb)
}

// BuildStaleScreen формирует список пакетов, ожидающих пересчёта
func BuildStaleScreen(ids []int64) (string, *models.InlineKeyboardMarkup) {
	if len(ids) == 0 {
		return "✅ Все расписания актуальны", keyboard.Empty()
	}

	buttons := make([]models.InlineKeyboardButton, len(ids))
	for i, id := range ids {
		buttons[i] = keyboard.IDButton(fmt.Sprintf("🔄 #%d", id), common.RegenPreview, id)
	}
	text := fmt.Sprintf("⚠️ %d %s требуют пересчёта", len(ids), formatting.PluralizePackages(len(ids)))
	return text, keyboard.NewBuilder().Grid(3, buttons...).Build()
}

// HandleClosures показывает список закрытий
func (h *Handlers) HandleClosures(ctx context.Context, b *bot.Bot, update *models.Update) {
	closures, err := h.closures.List(ctx)
	if err != nil {
		h.replyError(ctx, b, update, "closures", err)
		return
	}

	text, kb := common.BuildClosuresScreen(closures)
	h.replyWithKeyboard(ctx, b, update, text, kb)
}

// HandleAddClosure добавляет закрытие: /closure <начало> <конец> [причина]
func (h *Handlers) HandleAddClosure(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update.Message.Text)
	if len(args) < 2 {
		h.reply(ctx, b, update, "Формат: /closure 2024-04-13 2024-04-16 [причина]")
		return
	}

	start, err := formatting.ParseDate(args[0])
	if err != nil {
		h.replyError(ctx, b, update, "closure", errs.NewValidationError("start_date", "use 2024-04-13 or 13.04.2024"))
		return
	}
	end, err := formatting.ParseDate(args[1])
	if err != nil {
		h.replyError(ctx, b, update, "closure", errs.NewValidationError("end_date", "use 2024-04-16 or 16.04.2024"))
		return
	}

	c, err := h.closures.Create(ctx, service.ClosureInput{
		StartDate: start,
		EndDate:   end,
		Reason:    strings.Join(args[2:], " "),
	})
	if err != nil {
		h.replyError(ctx, b, update, "closure", err)
		return
	}

	h.logger.Info("Closure added from bot",
		zap.Int64("closure_id", c.ID),
		zap.Int64("operator_id", update.Message.From.ID),
	)
	h.reply(ctx, b, update, fmt.Sprintf("✅ Закрытие #%d: %s — %s\n\nПроверьте /stale",
		c.ID, formatting.FormatDate(c.StartDate), formatting.FormatDate(c.EndDate)))
}

// HandleExport выгружает сетку в xlsx: /export [4|8]
func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		kb := keyboard.NewBuilder().Row(
			keyboard.Button("4 урока", common.ExportSize+strconv.Itoa(model.PackageSizeSmall)),
			keyboard.Button("8 уроков", common.ExportSize+strconv.Itoa(model.PackageSizeLarge)),
			keyboard.Button("Все", common.ExportSize+"0"),
		).Build()
		h.replyWithKeyboard(ctx, b, update, "📊 Какие пакеты выгрузить?", kb)
		return
	}

	size, err := strconv.Atoi(args[0])
	if err != nil || (size != 0 && !model.ValidPackageSize(size)) {
		h.replyError(ctx, b, update, "export", errs.NewValidationError("size", "must be 4 or 8"))
		return
	}

	if err := common.SendDashboard(ctx, b, update.Message.Chat.ID, h.schedules, size); err != nil {
		h.replyError(ctx, b, update, "export", err)
	}
}
