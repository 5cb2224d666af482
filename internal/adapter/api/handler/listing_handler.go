package handler

import (
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"flatmatex/internal/usecase"
	"flatmatex/pkg/errors"
	"flatmatex/pkg/response"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

// CreateListing accepts a multipart form: listing fields plus up to 3
// image files under "images".
func (h *ListingHandler) CreateListing(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	input, err := bindListingForm(c)
	if err != nil {
		return response.Error(c, err)
	}

	var images []usecase.ImageUpload
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files := form.File["images"]
		if len(files) > h.listingUseCase.MaxImageCount() {
			// Reject on the header count before any file is opened.
			return response.Error(c, errors.Validation(fmt.Sprintf("at most %d images per listing", h.listingUseCase.MaxImageCount()), nil))
		}

		var opened []multipart.File
		defer func() {
			for _, f := range opened {
				f.Close()
			}
		}()

		for _, fileHeader := range files {
			file, err := fileHeader.Open()
			if err != nil {
				return response.Error(c, errors.Validation("failed to read uploaded image", err))
			}
			opened = append(opened, file)

			images = append(images, usecase.ImageUpload{
				Reader:      file,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Size:        fileHeader.Size,
			})
		}
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), uid, input, images)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetListing(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	input, err := bindListingForm(c)
	if err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), c.Param("id"), uid, input)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	if err := h.listingUseCase.DeleteListing(c.Request().Context(), c.Param("id"), uid); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Listing deleted"})
}

func (h *ListingHandler) ListMyListings(c echo.Context) error {
	uid, _ := c.Get("uid").(string)

	listings, err := h.listingUseCase.ListMyListings(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

// SearchListings handles GET /api/search-flatmates with the full filter,
// sort and pagination parameter set.
func (h *ListingHandler) SearchListings(c echo.Context) error {
	params, err := usecase.ParseSearchQuery(usecase.SearchQuery{
		State:       c.QueryParam("state"),
		City:        c.QueryParam("city"),
		Location:    c.QueryParam("location"),
		MinPrice:    c.QueryParam("minPrice"),
		MaxPrice:    c.QueryParam("maxPrice"),
		Furnishing:  c.QueryParam("furnishing"),
		Gender:      c.QueryParam("gender"),
		Preferences: c.QueryParams()["preferences"],
		SortBy:      c.QueryParam("sortBy"),
		Page:        c.QueryParam("page"),
		Limit:       c.QueryParam("limit"),
	})
	if err != nil {
		return response.Error(c, err)
	}

	listings, total, err := h.listingUseCase.SearchListings(c.Request().Context(), params)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, params.Page, params.Limit)
}

func bindListingForm(c echo.Context) (usecase.CreateListingInput, error) {
	input := usecase.CreateListingInput{
		Furnishing:  c.FormValue("furnishing"),
		State:       c.FormValue("state"),
		City:        c.FormValue("city"),
		Location:    c.FormValue("location"),
		Gender:      c.FormValue("gender"),
		Description: c.FormValue("description"),
	}

	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, errors.Validation("price must be a number", err)
		}
		input.Price = &price
	}

	for _, tag := range strings.Split(c.FormValue("preferences"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			input.Preferences = append(input.Preferences, tag)
		}
	}

	return input, nil
}
