package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	backupUC "github.com/khoahotran/portfolio-cms/internal/application/usecase/backup"
	"github.com/khoahotran/portfolio-cms/pkg/apperror"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

const maxBackupSize = 8 << 20

type BackupHandler struct {
	backupUseCase *backupUC.BackupUseCase
	logger        logger.Logger
}

func NewBackupHandler(uc *backupUC.BackupUseCase, log logger.Logger) *BackupHandler {
	return &BackupHandler{
		backupUseCase: uc,
		logger:        log,
	}
}

func (h *BackupHandler) Export(c *gin.Context) {
	out, err := h.backupUseCase.Export(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.FileName))
	c.Data(http.StatusOK, "application/json", out.Data)
}

func (h *BackupHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBackupSize)
	raw, err := c.GetRawData()
	if err != nil {
		c.Error(apperror.NewInvalidInput("cannot read backup file", err))
		return
	}
	if err := h.backupUseCase.Import(c.Request.Context(), raw); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Data imported successfully!"})
}

func (h *BackupHandler) Upload(c *gin.Context) {
	out, err := h.backupUseCase.Upload(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, out)
}
