package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pistanero/storefront/internal/storage"
)

type UploadHandler struct {
	Images *storage.ImageStore
}

// UploadImages accepts one or more "images" form files and returns their
// public URLs plus thumbnail URLs.
func (h *UploadHandler) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form required")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no images uploaded")
	}

	folder := c.FormValue("folder")
	if folder == "" {
		folder = "products"
	}

	var urls, thumbs []string
	for _, file := range files {
		url, thumbURL, err := h.Images.SaveImage(file, folder)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "could not save "+file.Filename+": "+err.Error())
		}
		urls = append(urls, url)
		thumbs = append(thumbs, thumbURL)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"urls":   urls,
		"thumbs": thumbs,
	})
}
