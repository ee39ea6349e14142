package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/modentca/modentca-api/config"
	"github.com/modentca/modentca-api/utils"
)

// AddressController proxies the BPS region bridging API for Indonesian
// administrative areas, caching responses in Redis.
type AddressController struct {
	client *http.Client
}

// NewAddressController builds an AddressController with a bounded HTTP
// client for the upstream BPS service.
func NewAddressController() *AddressController {
	return &AddressController{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// BPS bridging levels per administrative tier.
var bpsLevels = map[string]string{
	"province":    "provinsi",
	"city":        "kabupaten",
	"district":    "kecamatan",
	"subdistrict": "desa",
}

// Provinces lists all provinces.
func (a *AddressController) Provinces(ctx *gin.Context) {
	a.proxy(ctx, "province", "0")
}

// Cities lists cities of a province.
func (a *AddressController) Cities(ctx *gin.Context) {
	a.proxy(ctx, "city", ctx.Param("provinceId"))
}

// Districts lists districts of a city.
func (a *AddressController) Districts(ctx *gin.Context) {
	a.proxy(ctx, "district", ctx.Param("cityId"))
}

// Subdistricts lists subdistricts of a district.
func (a *AddressController) Subdistricts(ctx *gin.Context) {
	a.proxy(ctx, "subdistrict", ctx.Param("districtId"))
}

func (a *AddressController) proxy(ctx *gin.Context, tier, parent string) {
	level := bpsLevels[tier]
	parent = strings.TrimSpace(parent)
	if level == "" || parent == "" {
		utils.Error(ctx, http.StatusUnprocessableEntity, 42260, "VALIDATION_ERROR")
		return
	}

	cacheKey := fmt.Sprintf("cache:address:%s:%s", level, parent)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached interface{}
		if err := json.Unmarshal(b, &cached); err == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	endpoint := fmt.Sprintf("%s?%s", config.Get().RegionAPIBase, url.Values{
		"level":  {level},
		"parent": {parent},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx.Request.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "INTERNAL_SERVER_ERROR")
		return
	}

	resp, err := a.client.Do(req)
	if err != nil {
		utils.Sugar.Warnw("region upstream unreachable", "level", level, "err", err)
		utils.Error(ctx, http.StatusBadGateway, 50290, "region service unavailable")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.Error(ctx, http.StatusBadGateway, 50291, "region service unavailable")
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50292, "region service unavailable")
		return
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.Error(ctx, http.StatusBadGateway, 50293, "region service unavailable")
		return
	}

	utils.CacheSetBytes(cacheKey, body, 24*time.Hour)
	utils.Success(ctx, payload)
}
