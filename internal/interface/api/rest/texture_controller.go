package rest

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skinlib-api/internal/application/ports"
	domain "skinlib-api/internal/domain/texture"
	"skinlib-api/internal/domain/user"
	"skinlib-api/internal/interface/api/rest/dto/texture"
	"skinlib-api/internal/interface/api/rest/middleware"
	"skinlib-api/internal/interface/api/rest/validator"
)

// room for multipart framing and the other form fields
const multipartOverhead = int64(1 << 20)

type TextureController struct {
	textureService ports.TextureService
	logger         *zap.Logger
	maxBodyBytes   int64
}

func NewTextureController(
	r *gin.Engine,
	textureService ports.TextureService,
	logger *zap.Logger,
	resolver ports.ActorResolver,
	maxUploadFileSizeKB int64,
) *TextureController {
	tc := &TextureController{
		textureService: textureService,
		logger:         logger,
		maxBodyBytes:   maxUploadFileSizeKB*1024 + multipartOverhead,
	}

	optional := middleware.OptionalAuthMiddleware(resolver)
	required := middleware.AuthMiddleware(resolver)

	r.GET(RouteSkinlib, optional, tc.ListTexturesHandler)
	r.GET(RouteSearch, optional, tc.SearchTexturesHandler)
	r.GET(RouteTexture, optional, tc.GetTextureHandler)
	r.GET(RouteTextureInfo, tc.GetTextureInfoHandler)
	r.POST(RouteTextures, required, tc.UploadTextureHandler)
	r.DELETE(RouteTexture, required, tc.DeleteTextureHandler)
	r.PUT(RouteTexturePrivacy, required, tc.PrivacyHandler)
	r.PUT(RouteTextureName, required, tc.RenameHandler)

	return tc
}

func (tc *TextureController) ListTexturesHandler(c *gin.Context) {
	tc.list(c, c.Query("q"))
}

func (tc *TextureController) SearchTexturesHandler(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "q is required"},
		)
		return
	}

	tc.list(c, q)
}

func (tc *TextureController) list(c *gin.Context, q string) {
	page, err := validator.ValidatePage(c.Query("page"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return
	}
	uid, err := validator.ParseUploaderID(c.Query("uid"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return
	}

	filter := domain.Filter{
		Type:       validator.ParseFilter(c.Query("filter")),
		UploaderID: uid,
		Query:      q,
	}

	p, err := tc.textureService.ListTextures(
		c.Request.Context(),
		middleware.Actor(c),
		filter,
		validator.ParseSort(c.Query("sort")),
		page,
	)
	if err != nil {
		tc.writeError(c, err, "failed to get textures")
		return
	}

	c.JSON(http.StatusOK, texture.ToResponsePage(*p))
}

func (tc *TextureController) GetTextureHandler(c *gin.Context) {
	tid, ok := tc.textureID(c)
	if !ok {
		return
	}

	t, err := tc.textureService.GetTexture(c.Request.Context(), middleware.Actor(c), tid)
	if err != nil {
		tc.writeError(c, err, "failed to get a texture")
		return
	}

	c.JSON(http.StatusOK, texture.ToResponseTexture(*t))
}

// GetTextureInfoHandler answers with an empty object for unknown textures.
func (tc *TextureController) GetTextureInfoHandler(c *gin.Context) {
	tid, ok := tc.textureID(c)
	if !ok {
		return
	}

	t, err := tc.textureService.GetTextureInfo(c.Request.Context(), tid)
	if err != nil {
		tc.writeError(c, err, "failed to get a texture")
		return
	}
	if t == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	c.JSON(http.StatusOK, texture.ToResponseTexture(*t))
}

func (tc *TextureController) UploadTextureHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, tc.maxBodyBytes)

	in := domain.Upload{
		Name:   c.PostForm("name"),
		Type:   domain.AssetType(c.PostForm("type")),
		Public: validator.ParseVisibility(c.PostForm("public")),
	}

	fh, err := c.FormFile("file")
	if err != nil {
		in.TransportCode = transportCode(err)
	} else {
		in.MimeType = fh.Header.Get("Content-Type")
		if in.Data, err = readFormFile(fh); err != nil {
			in.TransportCode = domain.UploadErrPartial
		}
	}

	t, err := tc.textureService.UploadTexture(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		var dup *domain.DuplicateAssetError
		if errors.As(err, &dup) {
			c.JSON(http.StatusOK, texture.UploadResponse{
				TextureID:   int64(dup.ID),
				DuplicateOf: true,
			})
			return
		}
		tc.writeError(c, err, "failed to upload a texture")
		return
	}

	c.JSON(http.StatusCreated, texture.ToResponseTexture(*t))
}

func (tc *TextureController) DeleteTextureHandler(c *gin.Context) {
	tid, ok := tc.textureID(c)
	if !ok {
		return
	}

	if err := tc.textureService.DeleteTexture(c.Request.Context(), middleware.Actor(c), tid); err != nil {
		tc.writeError(c, err, "failed to delete a texture")
		return
	}

	c.Status(http.StatusNoContent)
}

func (tc *TextureController) PrivacyHandler(c *gin.Context) {
	tid, ok := tc.textureID(c)
	if !ok {
		return
	}

	var req texture.PrivacyRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": err.Error(),
			})
			return
		}
	}

	var (
		public bool
		err    error
	)
	if req.Public == nil {
		public, err = tc.textureService.TogglePrivacy(c.Request.Context(), middleware.Actor(c), tid)
	} else {
		public, err = tc.textureService.SetPrivacy(c.Request.Context(), middleware.Actor(c), tid, *req.Public)
	}
	if err != nil {
		tc.writeError(c, err, "failed to change privacy")
		return
	}

	c.JSON(http.StatusOK, texture.PrivacyResponse{Public: public})
}

func (tc *TextureController) RenameHandler(c *gin.Context) {
	tid, ok := tc.textureID(c)
	if !ok {
		return
	}

	var req texture.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	t, err := tc.textureService.RenameTexture(c.Request.Context(), middleware.Actor(c), tid, req.NewName)
	if err != nil {
		tc.writeError(c, err, "failed to rename a texture")
		return
	}

	c.JSON(http.StatusOK, texture.ToResponseTexture(*t))
}

func (tc *TextureController) textureID(c *gin.Context) (domain.ID, bool) {
	tid, err := validator.ParseTextureID(c.Param("tid"))
	if err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": err.Error()},
		)
		return 0, false
	}

	return tid, true
}

func (tc *TextureController) writeError(c *gin.Context, err error, fallback string) {
	var (
		verr    *domain.ValidationError
		orphan  *domain.OrphanedAssetError
		cascade *domain.CascadeError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(validationStatus(verr), gin.H{
			"error":   "invalid request",
			"details": gin.H{verr.Field: verr.Reason},
			"width":   verr.Width,
			"height":  verr.Height,
			"code":    verr.Code,
		})
	case errors.As(err, &orphan):
		c.JSON(http.StatusNotFound, gin.H{"error": orphan.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "texture not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "no permission"})
	case errors.Is(err, user.ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "not enough score"})
	case errors.As(err, &cascade):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fallback,
			"step":  cascade.Step,
		})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		tc.logger.Error(fallback, zap.Error(err))
	}
}

func validationStatus(err *domain.ValidationError) int {
	switch err.Reason {
	case domain.ReasonFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case domain.ReasonUploadTransport:
		if err.Code == domain.UploadErrIniSize || err.Code == domain.UploadErrFormSize {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadRequest
	case domain.ReasonUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusBadRequest
	}
}

func transportCode(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return domain.UploadErrNoFile
	case errors.As(err, &tooLarge), errors.Is(err, multipart.ErrMessageTooLarge):
		return domain.UploadErrIniSize
	default:
		return domain.UploadErrPartial
	}
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}
