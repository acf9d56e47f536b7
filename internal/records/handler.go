package records

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

// 参照系は公開、書き込み系は認証付きグループに載せる
func RegisterRoutes(r gin.IRoutes, protected gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/records", h.ListRecords)
	r.GET("/records/:record_id", h.GetRecord)
	r.GET("/books/:book_id/records", h.ListBookRecords)

	protected.POST("/records", h.CreateRecord)
	protected.PUT("/records/:record_id/return", h.ReturnRecord)
}

func (h *Handler) ListRecords(c *gin.Context) {
	f := RecordFilter{}
	if v := c.Query("bookId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.BookID = &id
		}
	}
	if v := c.Query("active"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.Active = &b
		}
	}
	res, err := h.svc.ListRecords(c.Request.Context(), f)
	if err != nil {
		c.JSON(ToHTTPStatus(err), gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListBookRecords(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book_id must be a number"})
		return
	}
	res, err := h.svc.ListRecords(c.Request.Context(), RecordFilter{BookID: &id})
	if err != nil {
		c.JSON(ToHTTPStatus(err), gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record_id must be a number"})
		return
	}
	res, err := h.svc.GetRecord(c.Request.Context(), id)
	if err != nil {
		c.JSON(ToHTTPStatus(err), gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := h.svc.CreateRecord(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), gin.H{"error": errorMessage(err)})
		return
	}
	c.Header("Location", "/api/records/"+strconv.FormatInt(res.RecordID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ReturnRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record_id must be a number"})
		return
	}
	// ボディは省略可（返却日は当日扱い）
	var req ReturnRecordRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	res, err := h.svc.ReturnRecord(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), gin.H{"error": errorMessage(err)})
		return
	}
	c.JSON(http.StatusOK, res)
}
