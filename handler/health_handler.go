package handler

import (
	"log"
	"os"
	"time"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

var startedAt = time.Now()

// HealthCheckHandler reports service status, required-environment
// presence, cache connectivity, and basic system readings.
func HealthCheckHandler(c *gin.Context, cache *services.SessionCache) {
	cpuPercent := 0.0
	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		cpuPercent = percentages[0]
	} else if err != nil {
		log.Printf("Error getting CPU usage: %v", err)
	}

	memPercent := 0.0
	if vm, err := mem.VirtualMemory(); err == nil {
		memPercent = vm.UsedPercent
	} else {
		log.Printf("Error getting memory usage: %v", err)
	}

	utils.Success(c, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(startedAt).String(),
		"environment": gin.H{
			"mongo_uri":      os.Getenv("MONGO_URI") != "",
			"redis_url":      os.Getenv("REDIS_URL") != "",
			"jwt_secret_key": os.Getenv("JWT_SECRET_KEY") != "",
		},
		"redis_connected": cache.IsConnected(c.Request.Context()),
		"system": gin.H{
			"cpu_percent":         cpuPercent,
			"memory_used_percent": memPercent,
		},
	})
}
