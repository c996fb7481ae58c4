package common

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/grid"
	"github.com/Freeeeeet/tuition_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// SendDashboard выгружает сетку в xlsx и отправляет файлом. size 0 - все пакеты
func SendDashboard(ctx context.Context, b *bot.Bot, chatID int64, schedules *service.ScheduleService, size int) error {
	var f grid.Filters
	if size != 0 {
		f.Size = &size
	}

	var buf bytes.Buffer
	name, err := schedules.ExportDashboard(ctx, &buf, f)
	if err != nil {
		return err
	}

	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:   chatID,
		Document: &models.InputFileUpload{Filename: name, Data: &buf},
		Caption:  "📊 " + name,
	})
	if err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}
