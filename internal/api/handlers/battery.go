package handlers

import (
	"net/http"

	"battery-arbitrage/internal/api/models"
	"battery-arbitrage/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BatteryHandler lists the battery presets found in a directory.
type BatteryHandler struct {
	batteryDir string
	log        logrus.FieldLogger
}

func NewBatteryHandler(batteryDir string, log logrus.FieldLogger) *BatteryHandler {
	return &BatteryHandler{batteryDir: batteryDir, log: log}
}

// ListBatteries handles GET /api/batteries
func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	presets, err := config.ListPresets(h.batteryDir, func(path string, err error) {
		h.log.WithError(err).WithField("file", path).Warn("skipping battery preset")
	})
	if err != nil {
		h.log.WithError(err).WithField("dir", h.batteryDir).Error("failed to read battery directory")
	}

	batteries := make([]models.BatteryInfo, 0, len(presets))
	for _, p := range presets {
		batteries = append(batteries, models.BatteryInfo{
			ID:          p.ID,
			Name:        p.Battery.Name,
			File:        p.File,
			CapacityKWh: p.Battery.CapacityKWh,
			Price:       p.Battery.Price.InexactFloat64(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}
