package controllers

import (
	"errors"
	"strconv"

	"pos-backend/entity"
	"pos-backend/pkg/pricing"
	"pos-backend/pkg/resp"
	"pos-backend/repository"
	"pos-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PosController struct {
	Session  *services.SessionService
	Poller   *services.StatusPoller
	Orders   *repository.OrderRepository
	Tables   *repository.TableRepository
	Products *repository.ProductRepository
}

func NewPosController(
	session *services.SessionService,
	poller *services.StatusPoller,
	orders *repository.OrderRepository,
	tables *repository.TableRepository,
	products *repository.ProductRepository,
) *PosController {
	return &PosController{
		Session: session, Poller: poller,
		Orders: orders, Tables: tables, Products: products,
	}
}

// map error ของ service → HTTP status ตาม taxonomy
func writeServiceError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindValidation:
		resp.BadRequest(c, err.Error())
	case services.KindStateConflict:
		resp.Conflict(c, err.Error())
	case services.KindNotFound:
		resp.NotFound(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

// ===== Tables =====

// GET /pos/tables
func (pc *PosController) ListTables(c *gin.Context) {
	tables, err := pc.Tables.ListTables()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"tables": tables})
}

// GET /pos/tables/open — เสิร์ฟจาก snapshot ของ poller (stale ≤ 1 interval)
func (pc *PosController) OpenTables(c *gin.Context) {
	open, updatedAt := pc.Poller.Snapshot()
	if updatedAt.IsZero() {
		// poller ยังไม่ทันหมุนรอบแรก — อ่านตรงครั้งนี้ไปก่อน
		ids, err := pc.Session.RefreshOccupancy(c.Request.Context())
		if err != nil {
			resp.ServerError(c, err)
			return
		}
		resp.OK(c, gin.H{"tableIds": ids})
		return
	}
	resp.OK(c, gin.H{"tableIds": open, "asOf": updatedAt})
}

// GET /pos/tables/empty
func (pc *PosController) EmptyTables(c *gin.Context) {
	tables, err := pc.Tables.ListEmpty()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"tables": tables})
}

// POST /pos/tables/:id/select
func (pc *PosController) SelectTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "invalid table id")
		return
	}

	out, err := pc.Session.Select(c.Request.Context(), uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, out)
}

// ===== Transfer =====

type TransferReq struct {
	FromTableID uint `json:"fromTableId" binding:"required"`
	ToTableID   uint `json:"toTableId" binding:"required"`
}

// POST /pos/tables/transfer
func (pc *PosController) TransferTable(c *gin.Context) {
	var req TransferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if req.FromTableID == req.ToTableID {
		resp.BadRequest(c, "cannot transfer to the same table")
		return
	}

	if err := pc.Session.Transfer(c.Request.Context(), req.FromTableID, req.ToTableID); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"fromTableId": req.FromTableID, "toTableId": req.ToTableID})
}

// ===== Checkout =====

type CheckoutItemIn struct {
	ProductID uint `json:"productId" binding:"required"`
	Qty       int  `json:"qty" binding:"required,min=1"`
}

type CheckoutReq struct {
	TableID             uint             `json:"tableId" binding:"required"`
	OrderID             uint             `json:"orderId"`
	Items               []CheckoutItemIn `json:"items" binding:"required,min=1"`
	PaymentMethod       string           `json:"paymentMethod" binding:"required"`
	TaxRatePercent      decimal.Decimal  `json:"taxRatePercent"`
	DiscountRatePercent decimal.Decimal  `json:"discountRatePercent"`
	ShippingFlat        decimal.Decimal  `json:"shippingFlat"`
	ExtraDiscountFlat   decimal.Decimal  `json:"extraDiscountFlat"`
	TaxMode             string           `json:"taxMode"`
	CustomerName        string           `json:"customerName"`
}

// POST /pos/checkout
func (pc *PosController) Checkout(c *gin.Context) {
	var req CheckoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	paymentType, err := entity.ParsePaymentType(req.PaymentMethod)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if req.TaxMode == "" {
		req.TaxMode = string(pricing.TaxBefore)
	}
	taxMode, err := pricing.ParseTaxMode(req.TaxMode)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	// ราคากับชื่อ snapshot จากฐานข้อมูล ไม่เชื่อราคาที่ client ส่งมา
	cart := make(pricing.Cart, 0, len(req.Items))
	for _, it := range req.Items {
		p, err := pc.Products.GetBasics(it.ProductID)
		if err != nil {
			resp.BadRequest(c, "product not found")
			return
		}
		cart = append(cart, pricing.Line{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Qty:       it.Qty,
		})
	}

	orderID, err := pc.Session.Checkout(c.Request.Context(), services.CheckoutInput{
		TableID: req.TableID,
		OrderID: req.OrderID,
		Cart:    cart,
		Policy: pricing.Policy{
			TaxRatePercent:      req.TaxRatePercent,
			ShippingFlat:        req.ShippingFlat,
			DiscountRatePercent: req.DiscountRatePercent,
			ExtraDiscountFlat:   req.ExtraDiscountFlat,
			TaxMode:             taxMode,
		},
		PaymentType:  paymentType,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"orderId": orderID})
}

// ===== Hold / Cancel =====

// POST /pos/orders/:id/hold
func (pc *PosController) HoldOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}
	if err := pc.Session.Hold(c.Request.Context(), uint(id)); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"orderId": id})
}

type CancelReq struct {
	TableID uint   `json:"tableId" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

// POST /pos/orders/:id/cancel
func (pc *PosController) CancelOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}
	var req CancelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	if err := pc.Session.Cancel(c.Request.Context(), uint(id), req.TableID, req.Reason); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"orderId": id})
}

// ===== Receipt =====

// GET /pos/orders/:id/receipt — projection ให้ตัวพิมพ์บิลภายนอก
func (pc *PosController) Receipt(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		resp.BadRequest(c, "invalid order id")
		return
	}

	receipt, err := pc.Orders.GetReceipt(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "order not found")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, receipt)
}
