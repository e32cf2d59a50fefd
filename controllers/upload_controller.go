package controllers

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/excelanalytics/config"
	"github.com/cppla/excelanalytics/metrics"
	"github.com/cppla/excelanalytics/models"
	"github.com/cppla/excelanalytics/repository"
	"github.com/cppla/excelanalytics/sheet"
	"github.com/cppla/excelanalytics/utils"
)

// UploadController parses spreadsheets and manages the caller's uploads.
type UploadController struct {
	uploads repository.UploadRepositoryI
}

func NewUploadController(db *gorm.DB) *UploadController {
	return &UploadController{uploads: repository.NewUploadRepository(db)}
}

type uploadMeta struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Columns   []string  `json:"columns"`
	RowCount  int       `json:"row_count"`
	Summary   string    `json:"summary"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Upload accepts a multipart "file", parses its first sheet and stores the rows.
func (u *UploadController) Upload(ctx *gin.Context, claims *utils.Claims) {
	header, err := ctx.FormFile("file")
	if err != nil {
		utils.Fail(ctx, utils.Validation(40030, "no file uploaded"))
		return
	}

	fileName := utils.SanitizeText(filepath.Base(header.Filename))
	if fileName == "" || fileName == "." {
		utils.Fail(ctx, utils.Validation(40031, "invalid file name"))
		return
	}
	if !sheet.Supported(fileName) {
		utils.Fail(ctx, utils.Validation(40032, "unsupported file type, expected one of "+strings.Join(sheet.Extensions, ", ")))
		return
	}

	maxMB := config.Get().MaxUploadSizeMB
	maxSize := int64(maxMB) * 1024 * 1024
	tooLarge := utils.Validation(40033, fmt.Sprintf("file size exceeds %dMB", maxMB))
	if header.Size > maxSize {
		utils.Fail(ctx, tooLarge)
		return
	}

	f, err := header.Open()
	if err != nil {
		utils.Fail(ctx, utils.Internal(50030, err))
		return
	}
	defer f.Close()

	// multipart sizes can lie; enforce the limit on the bytes actually read
	content, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		utils.Fail(ctx, utils.Internal(50031, err))
		return
	}
	if int64(len(content)) > maxSize {
		utils.Fail(ctx, tooLarge)
		return
	}

	columns, rows, err := sheet.Parse(bytes.NewReader(content), fileName)
	if err != nil {
		metrics.RecordUpload(false, 0)
		utils.Fail(ctx, utils.Validation(40034, "failed to process spreadsheet: "+err.Error()))
		return
	}
	metrics.RecordUpload(true, len(rows))

	upload, err := u.uploads.Create(ctx.Request.Context(), &models.Upload{
		UserID:   claims.UserID,
		FileName: fileName,
		Columns:  columns,
		RawData:  rows,
		Summary:  fmt.Sprintf("Parsed %d rows from %s", len(rows), fileName),
		Size:     fmt.Sprintf("%.1f KB", float64(len(content))/1024),
	})
	if err != nil {
		utils.Fail(ctx, utils.Internal(50032, err))
		return
	}

	utils.Created(ctx, "File uploaded and processed", gin.H{
		"summary": upload.Summary,
		"upload": uploadMeta{
			ID:        upload.ID,
			FileName:  upload.FileName,
			Columns:   upload.Columns,
			RowCount:  len(upload.RawData),
			Summary:   upload.Summary,
			Size:      upload.Size,
			CreatedAt: upload.CreatedAt,
		},
	})
}

// History lists the caller's uploads, newest first.
func (u *UploadController) History(ctx *gin.Context, claims *utils.Claims) {
	uploads, err := u.uploads.ListByOwner(ctx.Request.Context(), claims.UserID)
	if err != nil {
		utils.Fail(ctx, utils.Internal(50033, err))
		return
	}
	utils.Success(ctx, uploads)
}

// Get returns one upload with its rows. Only the owner or an admin may read it.
func (u *UploadController) Get(ctx *gin.Context, claims *utils.Claims) {
	upload, err := u.uploads.FindByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		utils.Fail(ctx, storeError(err, "upload not found"))
		return
	}
	if upload.UserID != claims.UserID && !claims.Role.IsAdmin() {
		utils.Fail(ctx, utils.Unauthorized(40311, "you can only view your own uploads"))
		return
	}
	utils.Success(ctx, upload)
}

// Delete removes one of the caller's uploads.
func (u *UploadController) Delete(ctx *gin.Context, claims *utils.Claims) {
	if err := u.uploads.DeleteByID(ctx.Request.Context(), ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		utils.Fail(ctx, storeError(err, "upload not found"))
		return
	}
	utils.Success(ctx, gin.H{"message": "upload deleted"})
}
