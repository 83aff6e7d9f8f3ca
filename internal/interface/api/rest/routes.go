package rest

const (
	// api
	RouteApiV1 = "/api/v1"

	// skinlib
	RouteSkinlib        = RouteApiV1 + "/skinlib"
	RouteSearch         = RouteSkinlib + "/search"
	RouteTextures       = RouteSkinlib + "/textures"
	RouteTexture        = RouteTextures + "/:tid"
	RouteTextureInfo    = RouteTexture + "/info"
	RouteTexturePrivacy = RouteTexture + "/privacy"
	RouteTextureName    = RouteTexture + "/name"

	// ops
	RouteHealth  = RouteApiV1 + "/healthz"
	RouteMetrics = RouteApiV1 + "/metrics"
)
