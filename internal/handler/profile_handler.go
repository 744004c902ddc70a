package handler

import (
	"io"
	"net/http"

	"backend/internal/apperr"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	profileService service.ProfileService
	authService    service.AuthService
}

func NewProfileHandler(profileService service.ProfileService, authService service.AuthService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, authService: authService}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/api/profile", middleware.AuthRequired(h.authService))
	{
		profile.GET("", h.GetMyProfile)
		profile.PUT("", h.UpsertProfile)
		profile.POST("/photos", h.UploadPhotos)
		profile.PUT("/photos/reorder", h.ReorderPhotos)
		profile.DELETE("/photos/:id", h.DeletePhoto)
	}
}

// GetMyProfile returns the caller's own profile with photos and plan
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.MyProfileResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/profile [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)
	result, err := h.profileService.GetMyProfile(c.Request.Context(), user)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpsertProfile creates or replaces the caller's profile
// @Summary      Upsert profile
// @Description  Creates the profile on first call and marks the user registered. Subsequent calls replace the stored fields.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpsertProfileRequest  true  "Profile Payload"
// @Success      200      {object}  response.Response{data=service.ProfileView}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/profile [put]
func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	var req service.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	result, err := h.profileService.Upsert(c.Request.Context(), user.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UploadPhotos adds photos to the caller's profile
// @Summary      Upload profile photos
// @Description  Accepts up to six images per profile, five megabytes each.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        photos  formData  file  true  "Image files"
// @Success      201     {object}  response.Response{data=[]model.Photo}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Router       /api/profile/photos [post]
func (h *ProfileHandler) UploadPhotos(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid multipart form: "+err.Error()))
		return
	}

	files := form.File["photos"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No photos in request"))
		return
	}

	uploads := make([]service.PhotoUpload, 0, len(files))
	for _, file := range files {
		f, err := file.Open()
		if err != nil {
			response.Fail(c, apperr.Wrap(apperr.KindInternal, "failed to read upload", err))
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			response.Fail(c, apperr.Wrap(apperr.KindInternal, "failed to read upload", err))
			return
		}
		uploads = append(uploads, service.PhotoUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	user := middleware.CurrentUser(c)
	photos, err := h.profileService.UploadPhotos(c.Request.Context(), user.ID, uploads)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, photos))
}

// ReorderPhotos rewrites the display order of the caller's photos
// @Summary      Reorder profile photos
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ReorderPhotosRequest  true  "Photo Order Payload"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/profile/photos/reorder [put]
func (h *ProfileHandler) ReorderPhotos(c *gin.Context) {
	var req service.ReorderPhotosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.profileService.ReorderPhotos(c.Request.Context(), user.ID, req); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"reordered": true}))
}

// DeletePhoto removes one photo and renumbers the rest
// @Summary      Delete profile photo
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Photo ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/profile/photos/{id} [delete]
func (h *ProfileHandler) DeletePhoto(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid photo id"))
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.profileService.DeletePhoto(c.Request.Context(), user.ID, photoID); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
