/*
Copyright 2025 Pulseboard Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/pulseboard/pulseboard"
	"github.com/pulseboard/pulseboard/api/middleware"
	"github.com/pulseboard/pulseboard/config"
	"github.com/pulseboard/pulseboard/internal/apierror"
	"github.com/pulseboard/pulseboard/store"
)

type Api struct {
	pulse  *pulseboard.Pulseboard
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/events", a.CreateEvent)
	router.GET("/events", a.ListEvents)
	router.GET("/events/:id", a.GetEvent)
	router.POST("/events/:id/classify", a.ClassifyEvent)
	router.POST("/events/:id/acknowledge", a.AcknowledgeEvent)
	router.POST("/events/:id/resolve", a.ResolveEvent)
	router.POST("/events/:id/reopen", a.ReopenEvent)

	router.POST("/webhook/:integration", a.IngestWebhook)

	router.GET("/health/integrations", a.GetHealthOverview)
	router.GET("/health/integrations/:integration", a.GetEventStats)

	router.GET("/sync/pipelines", a.ListPipelines)
	router.GET("/sync/pipelines/:id", a.GetPipeline)
	router.GET("/sync/clients", a.ListClients)
	router.GET("/sync/instances", a.ListInstances)
	router.GET("/sync/instances/:id", a.GetInstance)
	router.GET("/sync/instances/:id/executions", a.ListExecutions)
	router.POST("/sync/instances/:id/trigger", a.TriggerSync)
	router.POST("/sync/generate", a.GenerateMockData)
	router.GET("/sync/overview", a.GetSystemOverview)

	return a.router
}

func NewAPI(p *pulseboard.Pulseboard) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	return &Api{pulse: p, router: r}
}

// respondError maps the service error taxonomy onto HTTP statuses: not-found
// to 404, invalid-state and bad input to 400, fatal preconditions to 500.
func respondError(c *gin.Context, err error) {
	var apiErr apierror.APIError
	switch {
	case errors.Is(err, store.ErrNotFound):
		apiErr = apierror.NewAPIError(apierror.ErrNotFound, "resource not found", err.Error())
	case errors.Is(err, store.ErrInvalidState):
		apiErr = apierror.NewAPIError(apierror.ErrInvalidState, err.Error(), nil)
	case errors.Is(err, pulseboard.ErrNoErrorDetail):
		apiErr = apierror.NewAPIError(apierror.ErrInternalServer, err.Error(), nil)
	default:
		apiErr = apierror.NewAPIError(apierror.ErrBadRequest, err.Error(), nil)
	}
	c.JSON(apierror.MapErrorToHTTPStatus(apiErr), apiErr)
}
