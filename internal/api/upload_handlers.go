package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"user-api/internal/models"
)

type ProfilePictureResponse struct {
	UserID   int64  `json:"user_id" example:"1"`
	FilePath string `json:"file_path" example:"uploads/user_1_avatar.png"`
	Message  string `json:"message" example:"Profile picture uploaded successfully"`
}

type FileUploadResponse struct {
	FileName string `json:"file_name" example:"avatar.png"`
	FileURL  string `json:"file_url" example:"https://bucket.s3.us-east-1.amazonaws.com/avatar.png"`
	Message  string `json:"message" example:"File uploaded successfully to S3"`
}

const multipartMemory = 32 << 20

// formFile reads the "file" part of a size bounded multipart body.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Storage.MaxUploadBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, err
		}
		return nil, nil, models.NewValidationError("", "No file part in the request")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, models.NewValidationError("", "No file part in the request")
	}
	return file, header, nil
}

// @Summary      Upload a profile picture
// @Description  Stores a png, jpg or jpeg image for an existing user on local disk.
// @Tags         uploads
// @Accept       mpfd
// @Produce      json
// @Param        id    path      int   true  "User ID"
// @Param        file  formData  file  true  "Image"
// @Success      200   {object}  ProfilePictureResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      413   {object}  ErrorResponse
// @Router       /users/{id}/upload [post]
func (s *Server) UploadProfilePictureHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	file, header, err := s.formFile(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	asset, err := s.users.UploadProfilePicture(r.Context(), id, header.Filename, file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ProfilePictureResponse{
		UserID:   id,
		FilePath: asset.Location,
		Message:  "Profile picture uploaded successfully",
	})
}

// @Summary      Upload a file to S3
// @Description  Stores a png, jpg or jpeg image in the configured bucket with a private ACL.
// @Tags         uploads
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  true  "Image"
// @Success      200   {object}  FileUploadResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      413   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse
// @Router       /files/upload [post]
func (s *Server) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	asset, err := s.users.UploadFile(r.Context(), header.Filename, header.Size, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, FileUploadResponse{
		FileName: asset.StorageKey,
		FileURL:  asset.Location,
		Message:  "File uploaded successfully to S3",
	})
}
