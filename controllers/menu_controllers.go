package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/loopwhile/firstppt-sub000/menu"
	"github.com/loopwhile/firstppt-sub000/utils"
)

type MenuController struct {
	Catalog *menu.Catalog
}

func NewMenuController(catalog *menu.Catalog) *MenuController {
	return &MenuController{Catalog: catalog}
}

// GetAllMenus -> list the catalog, optionally one category.
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "List of menus", mc.Catalog.List(c.Query("category")))
}

// SetAvailability -> mark an item in or out of stock. Orders already taken
// keep their snapshots; only future add-to-cart calls see the change.
func (mc *MenuController) SetAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.Catalog.SetAvailability(uint(id), *body.Available)
	if err != nil {
		utils.RespondDomainError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", item)
}
