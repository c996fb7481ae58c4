package common

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tuition_scheduler/internal/model"
	"github.com/Freeeeeet/tuition_scheduler/internal/schedule"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
	"github.com/go-telegram/bot/models"
)

// BuildStudentScreen формирует карточку ученика со списком пакетов
func BuildStudentScreen(s *model.Student) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s (#%d)\n", s.Name, s.ID)
	if s.CEFR != "" || s.Group != "" {
		fmt.Fprintf(&b, "🎓 %s %s\n", s.CEFR, s.Group)
	}
	fmt.Fprintf(&b, "📅 %s, пакеты по %d\n", formatting.FormatWeekdays(s.Weekdays()), s.PackageSize)
	fmt.Fprintf(&b, "▶️ %s", formatting.FormatDate(s.StartDate))
	if !s.EndDate.IsZero() {
		fmt.Fprintf(&b, " → %s", formatting.FormatDate(s.EndDate))
	}
	fmt.Fprintf(&b, "\n\n📦 %d %s:\n", len(s.Packages), formatting.PluralizePackages(len(s.Packages)))

	kb := keyboard.NewBuilder()
	var buttons []models.InlineKeyboardButton
	for _, p := range s.Packages {
		fmt.Fprintf(&b, "#%d: %s → %s, %s\n",
			p.ID,
			formatting.FormatDate(p.FirstLessonDate),
			formatting.FormatDate(p.LastLessonDate()),
			formatting.FormatPaid(p.PaymentStatus),
		)
		buttons = append(buttons, keyboard.IDButton(fmt.Sprintf("📦 #%d", p.ID), ViewPackage, p.ID))
	}

	kb.Grid(3, buttons...).
		Row(keyboard.IDButton("➕ Следующий пакет", AddPackage, s.ID)).
		Row(
			keyboard.IDButton("🗂 Предложить пакет", ChunksPreview, s.ID),
			keyboard.IDButton("🗂 До конца", ChunksExtend, s.ID),
		)

	return b.String(), kb.Build()
}

// BuildPackageScreen формирует экран пакета с уроками и действиями
func BuildPackageScreen(p *model.Package) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "📦 Пакет #%d, %d %s, %s\n\n", p.ID, p.Size, formatting.PluralizeLessons(p.Size), formatting.FormatPaid(p.PaymentStatus))

	kb := keyboard.NewBuilder()
	var pins, makeups []models.InlineKeyboardButton
	for _, l := range p.Lessons {
		b.WriteString(formatting.FormatLesson(l) + "\n")
		if l.IsMakeup {
			makeups = append(makeups, keyboard.IDButton("🗑 ↩️ "+formatting.FormatDate(l.Date), DeleteMakeup, l.ID))
			continue
		}
		label := fmt.Sprintf("📌 %d", l.LessonNumber)
		if l.IsManualOverride {
			label = fmt.Sprintf("🔓 %d", l.LessonNumber)
		}
		pins = append(pins,
			keyboard.IDButton(label, PinLesson, l.ID),
			keyboard.IDButton(fmt.Sprintf("✏️ %d", l.LessonNumber), MoveLesson, l.ID),
			keyboard.IDButton(fmt.Sprintf("✔️ %d", l.LessonNumber), MarkAttended, l.ID),
		)
	}
	b.WriteString("\n📌 закреплённые уроки не меняются при пересчёте")

	payLabel := "💰 Отметить оплату"
	if p.PaymentStatus {
		payLabel = "↩️ Снять оплату"
	}

	kb.Grid(3, pins...).
		Grid(2, makeups...).
		Row(
			keyboard.IDButton("🔄 Пересчитать", RegenPreview, p.ID),
			keyboard.IDButton(payLabel, TogglePayment, p.ID),
		).
		Row(
			keyboard.IDButton("➕ Отработка", AddMakeup, p.ID),
			keyboard.IDButton("🗑 Удалить пакет", DeletePackage, p.ID),
		).
		Row(keyboard.IDButton("⬅️ Ученик", ViewStudent, p.StudentID))

	return b.String(), kb.Build()
}

// BuildPreviewScreen формирует превью регенерации с кнопкой применения
func BuildPreviewScreen(preview *service.RegenerationPreview) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	fmt.Fprintf(&b, "🔄 Пересчёт пакета #%d (%s)\n\n", preview.Package.ID, preview.Student.Name)
	for _, p := range preview.Proposed {
		b.WriteString(formatting.FormatProposed(p) + "\n")
	}

	kb := keyboard.NewBuilder()
	if preview.HasChanges {
		b.WriteString("\nПрименить изменения?")
		kb.Row(keyboard.IDButton("✅ Применить", RegenCommit, preview.Package.ID))
	} else {
		b.WriteString("\n✅ Расписание актуально")
	}
	kb.Row(keyboard.IDButton("⬅️ Назад", ViewPackage, preview.Package.ID))

	return b.String(), kb.Build()
}

// BuildChunksScreen формирует список предложенных пакетов; кнопки только у полных блоков
func BuildChunksScreen(studentID int64, chunks []schedule.Chunk) (string, *models.InlineKeyboardMarkup) {
	var b strings.Builder
	b.WriteString("🗂 Предложенные пакеты\n")

	kb := keyboard.NewBuilder()
	for _, c := range chunks {
		dates := make([]string, len(c.Dates))
		for i, d := range c.Dates {
			dates[i] = formatting.FormatDate(d)
		}
		mark := "✅"
		if !c.Committable {
			mark = "⚠️ неполный,"
		}
		fmt.Fprintf(&b, "\n%d) %s %d %s: %s", c.Index+1, mark, len(c.Dates), formatting.PluralizeLessons(len(c.Dates)), strings.Join(dates, ", "))

		if c.Committable {
			kb.Row(keyboard.Button(
				fmt.Sprintf("✅ Создать пакет %d", c.Index+1),
				fmt.Sprintf("%s%d:%d", ChunkCommit, studentID, c.Index),
			))
		}
	}
	kb.Row(keyboard.IDButton("⬅️ Ученик", ViewStudent, studentID))

	return b.String(), kb.Build()
}

// BuildClosuresScreen формирует список закрытий с кнопками удаления
func BuildClosuresScreen(closures []*model.Closure) (string, *models.InlineKeyboardMarkup) {
	if len(closures) == 0 {
		return "🗓 Закрытий нет\n\nДобавить: /closure 2024-04-13 2024-04-16 Songkran", keyboard.Empty()
	}

	var b strings.Builder
	b.WriteString("🗓 Закрытия:\n")

	kb := keyboard.NewBuilder()
	for _, c := range closures {
		fmt.Fprintf(&b, "\n#%d %s — %s", c.ID, formatting.FormatDate(c.StartDate), formatting.FormatDate(c.EndDate))
		if c.Reason != "" {
			b.WriteString(" " + c.Reason)
		}
		kb.Row(keyboard.IDButton(fmt.Sprintf("🗑 #%d", c.ID), DeleteClosure, c.ID))
	}

	return b.String(), kb.Build()
}
