package handler

import (
	"github.com/NelsonAGM/AdminRST-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	svc *service.UploadService
}

func NewUploadHandler(svc *service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

type uploadedFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Upload stores order photos or a signature image and returns the URLs
// to put into the order's photo/signature fields.
// POST /api/v1/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	if !h.svc.Enabled() {
		Error(c, 50300, "object storage is not configured")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		BadRequest(c, "cannot parse upload: "+err.Error())
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		BadRequest(c, "no files uploaded")
		return
	}

	var uploaded []uploadedFile
	for _, fileHeader := range files {
		src, err := fileHeader.Open()
		if err != nil {
			InternalError(c, "read upload: "+err.Error())
			return
		}
		url, err := h.svc.Store(c.Request.Context(), src, fileHeader.Filename, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
		src.Close()
		if err != nil {
			InternalError(c, err.Error())
			return
		}
		uploaded = append(uploaded, uploadedFile{
			URL:      url,
			Filename: fileHeader.Filename,
			Size:     fileHeader.Size,
		})
	}
	Created(c, gin.H{"files": uploaded})
}
