package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/webserver"
)

func registerUploadRoutes() {
	webserver.ApiPOST("/uploads/:bucket", uploadImage)
}

// @Summary upload an image
// @Description Anonymous uploads and storage failures return a data URI.
// @Tags Uploads
// @Accept multipart/form-data
// @Param bucket path string true "bucket" Enums(product-images, store-images)
// @Param file formData file true "image"
// @Success 201 {object} Response
// @Router /uploads/{bucket} [post]
func uploadImage(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "NO_FILE", "Please select an image file", err.Error())
	}
	src, err := fh.Open()
	if err != nil {
		return serviceError(c, err, "Failed to read upload")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return serviceError(c, err, "Failed to read upload")
	}
	result, err := GetAppContext(c).Uploader().Upload(c.Request().Context(),
		c.Param("bucket"), webserver.CurrentUserID(c), fh.Filename, data)
	if err != nil {
		return serviceError(c, err, "Failed to upload image")
	}
	return created(c, result)
}
