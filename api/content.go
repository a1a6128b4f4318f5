package api

import (
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/service/content"
	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	service content.ContentUseCase
}

func NewContentHandler(service content.ContentUseCase) *ContentHandler {
	return &ContentHandler{service: service}
}

// RegisterBlogs serves drafts only to admins; optional must not abort
// anonymous callers.
func (h *ContentHandler) RegisterBlogs(router *gin.RouterGroup, auth, optional gin.HandlerFunc) {
	router.GET("", optional, h.listBlogs)
	router.GET("/:slug", optional, h.getBlog)
	router.POST("", auth, AdminOnly(), h.createBlog)
	router.PUT("/:id", auth, AdminOnly(), h.updateBlog)
	router.DELETE("/:id", auth, AdminOnly(), h.deleteBlog)
}

func (h *ContentHandler) RegisterComments(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/blog/:blogId", h.listComments)
	router.POST("", auth, h.createComment)
	router.DELETE("/:id", auth, h.deleteComment)
}

func (h *ContentHandler) RegisterNotifications(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.Use(auth)
	router.GET("", h.listNotifications)
	router.PUT("/read-all", h.markAllRead)
	router.PUT("/:id/read", h.markRead)
	router.POST("", AdminOnly(), h.createNotification)
}

func (h *ContentHandler) RegisterTestimonials(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("", h.listTestimonials)
	router.POST("", auth, h.createTestimonial)
	router.GET("/all", auth, AdminOnly(), h.listAllTestimonials)
	router.PUT("/:id/approve", auth, AdminOnly(), h.approveTestimonial)
	router.DELETE("/:id", auth, AdminOnly(), h.deleteTestimonial)
}

func (h *ContentHandler) RegisterContact(router *gin.RouterGroup, auth, limit gin.HandlerFunc) {
	router.POST("", limit, h.submitContact)
	router.GET("", auth, AdminOnly(), h.listContacts)
	router.DELETE("/:id", auth, AdminOnly(), h.deleteContact)
}

func (h *ContentHandler) RegisterProducts(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("", h.listProducts)
	router.GET("/:id", h.getProduct)
	router.POST("", auth, AdminOnly(), h.createProduct)
	router.PUT("/:id", auth, AdminOnly(), h.updateProduct)
	router.DELETE("/:id", auth, AdminOnly(), h.deleteProduct)
}

func (h *ContentHandler) RegisterCareers(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("", h.listCareers)
	router.GET("/:id", h.getCareer)
	router.POST("/:id/apply", h.apply)
	router.POST("", auth, AdminOnly(), h.createCareer)
	router.PUT("/:id", auth, AdminOnly(), h.updateCareer)
	router.DELETE("/:id", auth, AdminOnly(), h.deleteCareer)
	router.GET("/:id/applications", auth, AdminOnly(), h.listApplications)
}

func (h *ContentHandler) listBlogs(c *gin.Context) {
	publishedOnly := c.Query("published") != "false" || !principalFrom(c).IsAdmin()
	blogs, err := h.service.ListBlogs(c.Request.Context(), publishedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blogs)
}

func (h *ContentHandler) getBlog(c *gin.Context) {
	blog, err := h.service.GetBlog(c.Request.Context(), c.Param("slug"), principalFrom(c).IsAdmin())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (h *ContentHandler) createBlog(c *gin.Context) {
	var req content.BlogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	blog, err := h.service.CreateBlog(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blog)
}

func (h *ContentHandler) updateBlog(c *gin.Context) {
	var req content.BlogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	blog, err := h.service.UpdateBlog(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blog)
}

func (h *ContentHandler) deleteBlog(c *gin.Context) {
	if err := h.service.DeleteBlog(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
}

func (h *ContentHandler) listComments(c *gin.Context) {
	comments, err := h.service.ListComments(c.Request.Context(), c.Param("blogId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *ContentHandler) createComment(c *gin.Context) {
	var req content.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	comment, err := h.service.CreateComment(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *ContentHandler) deleteComment(c *gin.Context) {
	if err := h.service.DeleteComment(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *ContentHandler) listNotifications(c *gin.Context) {
	notifications, err := h.service.ListNotifications(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *ContentHandler) createNotification(c *gin.Context) {
	var req content.NotificationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	n, err := h.service.CreateNotification(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *ContentHandler) markRead(c *gin.Context) {
	if err := h.service.MarkNotificationRead(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

func (h *ContentHandler) markAllRead(c *gin.Context) {
	n, err := h.service.MarkAllNotificationsRead(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notifications marked as read", "updated": n})
}

func (h *ContentHandler) listTestimonials(c *gin.Context) {
	testimonials, err := h.service.ListTestimonials(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, testimonials)
}

func (h *ContentHandler) listAllTestimonials(c *gin.Context) {
	testimonials, err := h.service.ListTestimonials(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, testimonials)
}

func (h *ContentHandler) createTestimonial(c *gin.Context) {
	var req content.TestimonialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	t, err := h.service.CreateTestimonial(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

type approveRequest struct {
	Approved *bool `json:"approved"`
}

// approveTestimonial approves unless the body says {"approved": false}.
func (h *ContentHandler) approveTestimonial(c *gin.Context) {
	var req approveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}
	approved := req.Approved == nil || *req.Approved
	if err := h.service.ApproveTestimonial(c.Request.Context(), c.Param("id"), approved); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "testimonial updated", "approved": approved})
}

func (h *ContentHandler) deleteTestimonial(c *gin.Context) {
	if err := h.service.DeleteTestimonial(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "testimonial deleted"})
}

func (h *ContentHandler) submitContact(c *gin.Context) {
	var req content.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	m, err := h.service.SubmitContact(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *ContentHandler) listContacts(c *gin.Context) {
	messages, err := h.service.ListContacts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *ContentHandler) deleteContact(c *gin.Context) {
	if err := h.service.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

func (h *ContentHandler) listProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ContentHandler) getProduct(c *gin.Context) {
	p, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ContentHandler) createProduct(c *gin.Context) {
	var req content.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ContentHandler) updateProduct(c *gin.Context) {
	var req content.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ContentHandler) deleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *ContentHandler) listCareers(c *gin.Context) {
	careers, err := h.service.ListCareers(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, careers)
}

func (h *ContentHandler) getCareer(c *gin.Context) {
	career, err := h.service.GetCareer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, career)
}

func (h *ContentHandler) createCareer(c *gin.Context) {
	var req content.CareerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	career, err := h.service.CreateCareer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, career)
}

func (h *ContentHandler) updateCareer(c *gin.Context) {
	var req content.CareerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	career, err := h.service.UpdateCareer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, career)
}

func (h *ContentHandler) deleteCareer(c *gin.Context) {
	if err := h.service.DeleteCareer(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "career deleted"})
}

func (h *ContentHandler) apply(c *gin.Context) {
	var req content.ApplicationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	a, err := h.service.Apply(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *ContentHandler) listApplications(c *gin.Context) {
	apps, err := h.service.ListApplications(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}
