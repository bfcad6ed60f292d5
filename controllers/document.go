package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"agency-backoffice-api/services"

	"github.com/gin-gonic/gin"
)

// formFiles returns the uploaded files of a multipart field, or nil.
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}

func newDocumentService() *services.DocumentService {
	return services.NewDocumentService(getDB(), services.NewFileStorage(""))
}

// GET /documents
func ListDocuments(c *gin.Context) {
	docs, err := newDocumentService().List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load documents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": len(docs)})
}

// POST /documents (multipart: client_name, document_type, file)
func UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondFail(c, http.StatusBadRequest, "All fields are required.")
		return
	}
	uid, _ := getCurrentUserID(c)

	doc, err := newDocumentService().Upload(c.Request.Context(), c.PostForm("client_name"), c.PostForm("document_type"), file, uid)
	if err != nil {
		respondError(c, err, "File upload failed.")
		return
	}
	respondOK(c, http.StatusCreated, "File uploaded successfully", gin.H{"document": doc})
}

// GET /documents/:id/download
func DownloadDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	svc := newDocumentService()
	doc, err := svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to load document")
		return
	}
	path, err := svc.Path(doc)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	// Set headers for download
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	c.Header("Content-Type", "application/octet-stream")

	c.File(path)
}

// DELETE /documents/:id (admin)
func DeleteDocument(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := newDocumentService().Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Could not delete document")
		return
	}
	respondOK(c, http.StatusOK, "Document deleted", nil)
}
