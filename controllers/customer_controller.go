package controllers

import (
	"pos-backend/pkg/resp"
	"pos-backend/repository"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	Customers *repository.CustomerRepository
}

func NewCustomerController(customers *repository.CustomerRepository) *CustomerController {
	return &CustomerController{Customers: customers}
}

// GET /pos/customers?q= — autocomplete ลูกค้า
func (cc *CustomerController) Search(c *gin.Context) {
	items, err := cc.Customers.Search(c.Query("q"))
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"items": items})
}
