package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulseboard/pulseboard/model"
)

func (a Api) GetHealthOverview(c *gin.Context) {
	resp, err := a.pulse.GetHealthOverview()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetEventStats(c *gin.Context) {
	integration, passed := c.Params.Get("integration")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "integration is required. pass it in the route /:integration"})
		return
	}

	resp, err := a.pulse.GetEventStats(model.Integration(integration))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
