package controllers

import (
	"strconv"

	"pos-backend/pkg/resp"
	"pos-backend/repository"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	Products *repository.ProductRepository
}

func NewProductController(products *repository.ProductRepository) *ProductController {
	return &ProductController{Products: products}
}

// GET /pos/products?q=&categoryId= — autocomplete จากชื่อ/SKU
func (pc *ProductController) Search(c *gin.Context) {
	q := c.Query("q")
	var categoryID uint
	if v := c.Query("categoryId"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			resp.BadRequest(c, "invalid category id")
			return
		}
		categoryID = uint(n)
	}

	items, err := pc.Products.Search(q, categoryID)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}

// GET /pos/categories
func (pc *ProductController) Categories(c *gin.Context) {
	items, err := pc.Products.ListCategories()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}
