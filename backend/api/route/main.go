package route

import (
	"net/http"

	"abrino-storage/backend/api/middleware"
	"abrino-storage/backend/common"

	"github.com/gin-gonic/gin"
)

func SetRouter(route *gin.Engine) {
	route.Use(middleware.GzipDecodeMiddleware())
	route.Use(middleware.GzipEncodeMiddleware())

	SetApiRouter(route)

	route.NoRoute(func(c *gin.Context) {
		common.RespErrorStr(c, http.StatusNotFound, "API route not found")
	})
}
