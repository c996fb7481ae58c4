package callbacks

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tuition_scheduler/internal/controller/state"
	"github.com/Freeeeeet/tuition_scheduler/internal/schedule"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleChunksPreview предлагает даты следующих пакетов и запоминает их для коммита
func (h *Handler) handleChunksPreview(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, extend bool) {
	studentID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		h.fail(ctx, b, callback, "chunks_preview", err)
		return
	}

	chunks, err := h.Schedules.PreviewChunks(ctx, studentID, nil, extend)
	if err != nil {
		h.fail(ctx, b, callback, "chunks_preview", err)
		return
	}

	h.State.SetData(callback.From.ID, state.KeyChunks, chunks)
	h.State.SetData(callback.From.ID, state.KeyChunksFor, studentID)

	text, kb := common.BuildChunksScreen(studentID, chunks)
	common.EditOrSend(ctx, b, chatID(callback), common.GetMessageFromCallback(callback), text, kb)
	common.AnswerCallback(ctx, b, callback.ID, "")
}

// handleChunkCommit создаёт пакет из ранее показанного полного блока
func (h *Handler) handleChunkCommit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	ids, err := common.ParseIDsFromCallback(callback.Data, 2)
	if err != nil {
		h.fail(ctx, b, callback, "chunk_commit", err)
		return
	}
	studentID, index := ids[0], int(ids[1])

	chunk, ok := h.stagedChunk(callback.From.ID, studentID, index)
	if !ok {
		common.AnswerCallbackAlert(ctx, b, callback.ID, "⚠️ Превью устарело, откройте его заново")
		return
	}

	if !h.State.TryBeginStudentCommit(studentID, callback.From.ID) {
		common.AnswerCallbackAlert(ctx, b, callback.ID, common.ErrorMessage(common.ErrCommitRunning))
		return
	}
	defer h.State.EndStudentCommit(studentID)

	pkg, err := h.Schedules.CommitChunk(ctx, studentID, chunk.Dates)
	if err != nil {
		h.fail(ctx, b, callback, "chunk_commit", err)
		return
	}

	// после коммита индексы остальных блоков больше не актуальны
	h.State.ClearState(callback.From.ID)

	common.AnswerCallback(ctx, b, callback.ID, fmt.Sprintf("✅ Пакет #%d создан", pkg.ID))
	h.showStudent(ctx, b, callback, studentID)
}

func (h *Handler) stagedChunk(telegramID, studentID int64, index int) (schedule.Chunk, bool) {
	forID, ok := h.State.GetInt64(telegramID, state.KeyChunksFor)
	if !ok || forID != studentID {
		return schedule.Chunk{}, false
	}

	v, ok := h.State.GetData(telegramID, state.KeyChunks)
	if !ok {
		return schedule.Chunk{}, false
	}
	chunks, ok := v.([]schedule.Chunk)
	if !ok || index < 0 || index >= len(chunks) || !chunks[index].Committable {
		return schedule.Chunk{}, false
	}
	return chunks[index], true
}
