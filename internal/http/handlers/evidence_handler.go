package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/escrow-backend/internal/http/handlers/common"
	"github.com/ignatzorin/escrow-backend/internal/models"
	"github.com/ignatzorin/escrow-backend/internal/pkg/apperror"
	"github.com/ignatzorin/escrow-backend/internal/repository"
	"github.com/ignatzorin/escrow-backend/internal/service"
	"github.com/ignatzorin/escrow-backend/internal/storage"
)

// Разрешённые типы подтверждающих документов
var allowedMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// Разрешённые расширения файлов
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// EvidenceHandler управляет загрузкой подтверждающих документов.
type EvidenceHandler struct {
	repo        *repository.EvidenceDocumentRepository
	storage     *storage.EvidenceStorage
	settlements *service.SettlementService
}

// NewEvidenceHandler создаёт новый хэндлер.
func NewEvidenceHandler(repo *repository.EvidenceDocumentRepository, storage *storage.EvidenceStorage, settlements *service.SettlementService) *EvidenceHandler {
	return &EvidenceHandler{repo: repo, storage: storage, settlements: settlements}
}

// Upload обрабатывает POST /escrow/accounts/:id/evidence.
func (h *EvidenceHandler) Upload(c *gin.Context) {
	clientID, err := common.CurrentClientID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Счёт должен существовать до приёма файла
	if _, err := h.settlements.GetAccount(c.Request.Context(), accountID); err != nil {
		if apperror.IsNotFound(err) {
			common.RespondError(c, http.StatusNotFound, "escrow счёт не найден")
			return
		}
		_ = c.Error(err)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поле file обязательно"})
		return
	}
	if file.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "файл не может быть пустым"})
		return
	}
	if file.Size > h.storage.MaxUploadBytes() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "размер файла превышает лимит"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "неподдерживаемый формат файла. Разрешены: .pdf, .jpg, .jpeg, .png",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	// Проверяем магические байты (реальный тип файла)
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не удалось прочитать файл"})
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "не удалось определить тип файла",
		})
		return
	}

	contentType := kind.MIME.Value
	if !allowedMimeTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("неподдерживаемый тип файла (%s). Разрешены PDF и изображения", contentType),
		})
		return
	}

	expectedExt := "." + kind.Extension
	// .jpg и .jpeg - это одно и то же
	if ext != expectedExt && !(ext == ".jpg" && expectedExt == ".jpeg") && !(ext == ".jpeg" && expectedExt == ".jpg") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("расширение файла (%s) не соответствует реальному типу (%s)", ext, expectedExt),
		})
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сбросить позицию файла"})
			return
		}
	}

	relativePath, size, err := h.storage.Save(c.Request.Context(), accountID, file.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	doc := &models.EvidenceDocument{
		ID:              uuid.New(),
		EscrowAccountID: accountID,
		FileName:        file.Filename,
		FilePath:        filepath.ToSlash(relativePath),
		MimeType:        contentType,
		SizeBytes:       size,
		UploadedBy:      clientID,
	}

	if err := h.repo.Create(c.Request.Context(), doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	common.RespondSuccess(c, http.StatusCreated, "документ загружен", doc)
}

// List обрабатывает GET /escrow/accounts/:id/evidence.
func (h *EvidenceHandler) List(c *gin.Context) {
	accountID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	docs, err := h.repo.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": docs})
}

// Download обрабатывает GET /escrow/evidence/:documentId.
func (h *EvidenceHandler) Download(c *gin.Context) {
	docID, err := common.ParseUUIDParam(c, "documentId")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.repo.GetByID(c.Request.Context(), docID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "документ не найден"})
		return
	}

	f, err := h.storage.Open(c.Request.Context(), doc.FilePath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "файл не найден"})
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Header("Content-Type", doc.MimeType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, f)
}
