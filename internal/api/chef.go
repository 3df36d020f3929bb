package api

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chefshare/backend/internal/apperror"
	"github.com/chefshare/backend/internal/middleware"
	"github.com/chefshare/backend/internal/service"
)

// uploadInputFromHeader opens the multipart file and wraps it for the
// upload pipeline. The returned close func must run after the upload.
func uploadInputFromHeader(header *multipart.FileHeader) (service.UploadInput, func(), error) {
	file, err := header.Open()
	if err != nil {
		return service.UploadInput{}, nil, apperror.Internal(err)
	}
	in := service.UploadInput{
		FileName:    header.Filename,
		Reader:      file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}
	return in, func() { file.Close() }, nil
}

// UploadProfilePicture handles POST /api/chef/uploadProfilePicture.
// The uploaded blob is linked to the chef record; only after the link
// succeeds is the previous picture's blob deleted, best effort.
func (a *API) UploadProfilePicture(c *gin.Context) {
	identity, ok := middleware.CurrentChef(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Chef is not authorized"})
		return
	}

	header, err := c.FormFile("profilePicture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}

	in, closeFile, err := uploadInputFromHeader(header)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeFile()

	var oldKey string
	ref, err := a.uploads.UploadAndLink(c.Request.Context(), in, service.UploadTarget{
		Folder: "profilePicture",
		Link: func(ctx context.Context, ref service.BlobRef) error {
			var linkErr error
			oldKey, linkErr = a.auth.SetProfilePicture(ctx, identity.ID, ref.URL, ref.Key)
			return linkErr
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	a.uploads.DeleteBlob(c.Request.Context(), oldKey)

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile picture uploaded successfully",
		"url":     ref.URL,
		"key":     ref.Key,
	})
}

type updateBioRequest struct {
	Bio string `json:"bio"`
}

// UpdateBio handles PATCH /api/chef/bio.
func (a *API) UpdateBio(c *gin.Context) {
	identity, ok := middleware.CurrentChef(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "Chef is not authorized"})
		return
	}

	var req updateBioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	chef, err := a.auth.UpdateBio(c.Request.Context(), identity.ID, req.Bio)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bio updated successfully",
		"chef":    toChefView(chef),
	})
}
