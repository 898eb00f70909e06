package page

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liliang-cn/docqa/internal/domain"
	"github.com/liliang-cn/docqa/internal/service"
	"go.uber.org/zap"
)

// Handler serves the Document Q&A page and its JSON twin
type Handler struct {
	views  *ViewStore
	logger *zap.Logger
}

// NewHandler creates a new page handler
func NewHandler(views *ViewStore, logger *zap.Logger) *Handler {
	return &Handler{views: views, logger: logger}
}

// RegisterRoutes registers the HTML page routes
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.Index)
	r.POST("/views/:id/upload", h.Upload)
	r.POST("/views/:id/ask", h.Ask)
}

// RegisterAPIRoutes registers the JSON routes
func (h *Handler) RegisterAPIRoutes(r *gin.RouterGroup) {
	views := r.Group("/views")
	{
		views.POST("", h.CreateView)
		views.GET("/:id", h.GetView)
		views.POST("/:id/upload", h.UploadJSON)
		views.POST("/:id/ask", h.AskJSON)
	}
}

type pageData struct {
	ViewID string
	State  service.State
}

// ViewResponse is the JSON form of a page view
type ViewResponse struct {
	ID         string `json:"id"`
	HasSession bool   `json:"has_session"`
	service.State
}

type askForm struct {
	Question string `form:"question" json:"question"`
}

// Index opens a new page view. Reloading the page therefore starts over
// without a session.
func (h *Handler) Index(c *gin.Context) {
	id, wf := h.views.Create()
	h.logger.Debug("Page view opened", zap.String("view_id", id))
	h.render(c, id, wf)
}

// Upload handles the upload form
func (h *Handler) Upload(c *gin.Context) {
	id := c.Param("id")
	wf, ok := h.lookupPage(c, id)
	if !ok {
		return
	}

	wf.SelectFile(h.formFile(c))
	_ = wf.UploadFile(c.Request.Context())
	h.render(c, id, wf)
}

// Ask handles the question form
func (h *Handler) Ask(c *gin.Context) {
	id := c.Param("id")
	wf, ok := h.lookupPage(c, id)
	if !ok {
		return
	}

	var form askForm
	_ = c.ShouldBind(&form)
	_ = wf.AskQuestion(c.Request.Context(), form.Question)
	h.render(c, id, wf)
}

// CreateView opens a new page view and returns its state
func (h *Handler) CreateView(c *gin.Context) {
	id, wf := h.views.Create()
	c.JSON(http.StatusCreated, newViewResponse(id, wf))
}

// GetView returns the state of a page view
func (h *Handler) GetView(c *gin.Context) {
	id := c.Param("id")
	wf, ok := h.lookupAPI(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newViewResponse(id, wf))
}

// UploadJSON runs an upload for a page view and returns the new state
func (h *Handler) UploadJSON(c *gin.Context) {
	id := c.Param("id")
	wf, ok := h.lookupAPI(c, id)
	if !ok {
		return
	}

	wf.SelectFile(h.formFile(c))
	err := wf.UploadFile(c.Request.Context())
	c.JSON(statusFor(err), newViewResponse(id, wf))
}

// AskJSON runs a question for a page view and returns the new state
func (h *Handler) AskJSON(c *gin.Context) {
	id := c.Param("id")
	wf, ok := h.lookupAPI(c, id)
	if !ok {
		return
	}

	var req askForm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := wf.AskQuestion(c.Request.Context(), req.Question)
	c.JSON(statusFor(err), newViewResponse(id, wf))
}

func (h *Handler) render(c *gin.Context, id string, wf *service.SessionWorkflow) {
	c.HTML(http.StatusOK, "index.html", pageData{ViewID: id, State: wf.State()})
}

func (h *Handler) lookupPage(c *gin.Context, id string) (*service.SessionWorkflow, bool) {
	wf, err := h.views.Get(id)
	if err != nil {
		c.String(http.StatusNotFound, "This page has expired. Reload / to start a new session.")
		return nil, false
	}
	return wf, true
}

func (h *Handler) lookupAPI(c *gin.Context, id string) (*service.SessionWorkflow, bool) {
	wf, err := h.views.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "view not found"})
		return nil, false
	}
	return wf, true
}

// formFile reads the "file" field. A missing or unreadable file counts as no
// selection.
func (h *Handler) formFile(c *gin.Context) *domain.File {
	fh, err := c.FormFile("file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) {
			h.logger.Warn("Failed to read upload form", zap.Error(err))
		}
		return nil
	}

	src, err := fh.Open()
	if err != nil {
		h.logger.Warn("Failed to open uploaded file", zap.String("file", fh.Filename), zap.Error(err))
		return nil
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.logger.Warn("Failed to read uploaded file", zap.String("file", fh.Filename), zap.Error(err))
		return nil
	}

	return &domain.File{Name: fh.Filename, Data: data}
}

func newViewResponse(id string, wf *service.SessionWorkflow) ViewResponse {
	state := wf.State()
	return ViewResponse{ID: id, HasSession: state.HasSession(), State: state}
}

func statusFor(err error) int {
	var verr *domain.ValidationError
	var rerr *domain.RemoteError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &rerr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
