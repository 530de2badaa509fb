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

	"github.com/gin-gonic/gin"
	model2 "github.com/pulseboard/pulseboard/api/model"
	"github.com/pulseboard/pulseboard/model"
)

func (a Api) ListPipelines(c *gin.Context) {
	c.JSON(http.StatusOK, a.pulse.ListPipelines())
}

func (a Api) GetPipeline(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.pulse.GetPipeline(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) ListClients(c *gin.Context) {
	c.JSON(http.StatusOK, a.pulse.ListClients())
}

func (a Api) ListInstances(c *gin.Context) {
	instances := a.pulse.ListInstances(
		c.Query("client_id"),
		c.Query("pipeline_id"),
		model.InstanceStatus(c.Query("status")),
	)
	c.JSON(http.StatusOK, instances)
}

func (a Api) GetInstance(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.pulse.GetInstance(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) ListExecutions(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	resp, err := a.pulse.ListExecutions(id, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) TriggerSync(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /:id"})
		return
	}

	resp, err := a.pulse.TriggerSync(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GenerateMockData(c *gin.Context) {
	var req model2.GenerateMockDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}
	if err := req.ValidateGenerateMockData(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := a.pulse.GenerateMockData(req.ClientCount, req.IntroduceFailures); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"clients":   req.ClientCount,
		"instances": len(a.pulse.ListInstances("", "", "")),
	})
}

func (a Api) GetSystemOverview(c *gin.Context) {
	c.JSON(http.StatusOK, a.pulse.GetSystemOverview())
}
