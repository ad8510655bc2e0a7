// README: Credential bundle handler; reads report configured flags only, writes merge.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roam/internal/keys"
)

type ConfigHandler struct {
	keys *keys.Service
}

func NewConfigHandler(keySvc *keys.Service) *ConfigHandler {
	return &ConfigHandler{keys: keySvc}
}

// GetKeys handles GET /api/config/keys. Secret values never leave the process;
// only per-vendor configured flags are reported. The amap key is the one
// exception, because that vendor's key is meant for direct browser use.
func (h *ConfigHandler) GetKeys(c *gin.Context) {
	bundle := h.keys.Snapshot()

	var amapKey *string
	if bundle.AmapConfigured() {
		amapKey = &bundle.Amap.Key
	}

	writeJSON(c, http.StatusOK, gin.H{
		"xfyun": gin.H{"configured": bundle.XfyunConfigured()},
		"amap": gin.H{
			"configured": bundle.AmapConfigured(),
			"key":        amapKey,
		},
		"aliyun":   gin.H{"configured": bundle.AliyunConfigured()},
		"database": gin.H{"configured": bundle.DatabaseConfigured()},
	})
}

// SaveKeys handles POST /api/config/keys. The body is a partial bundle; it is
// merged per vendor into the stored bundle, never a full overwrite.
func (h *ConfigHandler) SaveKeys(c *gin.Context) {
	var patch keys.ApiKeys
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.keys.Save(patch); err != nil {
		writeError(c, http.StatusInternalServerError, "failed to save api keys")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"success": true, "message": "API keys saved successfully"})
}
