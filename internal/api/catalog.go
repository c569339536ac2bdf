package api

import (
	"net/http" // HTTP status codes

	"shop_backend/internal/domain"  // Catalog models
	"shop_backend/internal/service" // Catalog service

	"github.com/gin-gonic/gin" // Gin web framework
)

// Request struct for bulk deletes
type IDsRequest struct {
	IDs []string `json:"ids" binding:"required"` // Documents to delete
}

// ListProductsHandler pages through products, newest first
func ListProductsHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pageParams(c)
		result, err := catalog.Products(c.Request.Context(), page, pageSize)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, result)
	}
}

// GetProductHandler returns one product
func GetProductHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.Product(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, product)
	}
}

// HotProductsHandler returns the hot products
func HotProductsHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.HotProducts(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, products)
	}
}

// NewProductsHandler returns the newest products
func NewProductsHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.NewProducts(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, products)
	}
}

// CreateProductHandler adds a product
func CreateProductHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product domain.Product
		if err := c.ShouldBindJSON(&product); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		if err := catalog.CreateProduct(c.Request.Context(), &product); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusCreated, product)
	}
}

// UpdateProductHandler rewrites a product
func UpdateProductHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product domain.Product
		if err := c.ShouldBindJSON(&product); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		product.ID = c.Param("id") // The path names the document
		if err := catalog.UpdateProduct(c.Request.Context(), &product); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, product)
	}
}

// DeleteProductsHandler removes products by id
func DeleteProductsHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req IDsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		n, err := catalog.DeleteProducts(c.Request.Context(), req.IDs)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, gin.H{"deleted": n})
	}
}

// ListCategoriesHandler returns every category, or one page when page is given
func ListCategoriesHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if c.Query("page") == "" {
			categories, err := catalog.Categories(ctx)
			if err != nil {
				fail(c, err)
				return
			}
			respond(c, http.StatusOK, categories)
			return
		}
		page, pageSize := pageParams(c)
		result, err := catalog.CategoryPage(ctx, page, pageSize)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, result)
	}
}

// GetCategoryHandler returns one category
func GetCategoryHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := catalog.Category(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, category)
	}
}

// CategoryProductsHandler returns the products of a category
func CategoryProductsHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := catalog.CategoryProducts(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, products)
	}
}

// CreateCategoryHandler adds a category
func CreateCategoryHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category domain.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		if err := catalog.CreateCategory(c.Request.Context(), &category); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusCreated, category)
	}
}

// UpdateCategoryHandler rewrites a category
func UpdateCategoryHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category domain.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		category.ID = c.Param("id")
		if err := catalog.UpdateCategory(c.Request.Context(), &category); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, category)
	}
}

// DeleteCategoryHandler removes a category
func DeleteCategoryHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, nil)
	}
}

// ActiveBannersHandler returns the home page banners
func ActiveBannersHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		banners, err := catalog.ActiveBanners(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, banners)
	}
}

// ListBannersHandler pages through every banner
func ListBannersHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pageParams(c)
		result, err := catalog.BannerPage(c.Request.Context(), page, pageSize)
		if err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, result)
	}
}

// CreateBannerHandler adds a banner
func CreateBannerHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banner domain.Banner
		if err := c.ShouldBindJSON(&banner); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		if err := catalog.CreateBanner(c.Request.Context(), &banner); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusCreated, banner)
	}
}

// UpdateBannerHandler rewrites a banner
func UpdateBannerHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banner domain.Banner
		if err := c.ShouldBindJSON(&banner); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		banner.ID = c.Param("id")
		if err := catalog.UpdateBanner(c.Request.Context(), &banner); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, banner)
	}
}

// DeleteBannerHandler removes a banner
func DeleteBannerHandler(catalog *service.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, nil)
	}
}
