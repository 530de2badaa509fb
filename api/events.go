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
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	model2 "github.com/pulseboard/pulseboard/api/model"
	"github.com/pulseboard/pulseboard/model"
	"github.com/pulseboard/pulseboard/store"
)

func (a Api) CreateEvent(c *gin.Context) {
	var newEvent model2.CreateEventRequest
	if err := c.ShouldBindJSON(&newEvent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newEvent.ValidateCreateEvent(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.pulse.CreateEvent(newEvent.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// IngestWebhook shapes a generic webhook envelope into a create-event call.
// The integration comes from the route; vendor payload parsing stays outside.
func (a Api) IngestWebhook(c *gin.Context) {
	integration, passed := c.Params.Get("integration")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "integration is required. pass it in the route /webhook/:integration"})
		return
	}

	var envelope model2.WebhookEventRequest
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	newEvent := envelope.ToCreateEventRequest(integration)
	if err := newEvent.ValidateCreateEvent(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.pulse.CreateEvent(newEvent.ToInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetEvent(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.pulse.GetEvent(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListEvents applies the query surface: filters, sort, then pagination.
// Plain listings default to limit 50; page-based listings to 25 per page.
func (a Api) ListEvents(c *gin.Context) {
	query := store.EventQuery{
		Integration: model.Integration(c.Query("integration")),
		Status:      model.EventStatus(c.Query("status")),
		Resolution:  model.ResolutionStatus(c.Query("resolution")),
		Search:      c.Query("search"),
		SortBy:      store.SortField(c.Query("sort_by")),
		SortOrder:   store.SortOrder(c.Query("sort_order")),
	}

	if since := c.Query("since"); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be an RFC3339 timestamp"})
			return
		}
		query.Since = &ts
	}

	if page := c.Query("page"); page != "" {
		pageNum, err := strconv.Atoi(page)
		if err != nil || pageNum < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
			return
		}
		perPage := store.DefaultPageLimit
		if raw := c.Query("per_page"); raw != "" {
			perPage, err = strconv.Atoi(raw)
			if err != nil || perPage < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "per_page must be a positive integer"})
				return
			}
		}
		query.Offset = (pageNum - 1) * perPage
		query.Limit = perPage
	} else {
		if raw := c.Query("offset"); raw != "" {
			offset, err := strconv.Atoi(raw)
			if err != nil || offset < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
				return
			}
			query.Offset = offset
		}
		if raw := c.Query("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			query.Limit = limit
		}
	}

	c.JSON(http.StatusOK, a.pulse.QueryEvents(query))
}

func (a Api) ClassifyEvent(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.pulse.ClassifyEvent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) AcknowledgeEvent(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.AcknowledgeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateAcknowledgeEvent(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.pulse.AcknowledgeEvent(id, req.Actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) ResolveEvent(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	var req model2.ResolveEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateResolveEvent(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.pulse.ResolveEvent(id, req.Actor, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) ReopenEvent(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.pulse.ReopenEvent(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
