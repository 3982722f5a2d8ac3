package utils

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetDeviceID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "device_id", "Device")
}

func GetAlertID(ctx *gin.Context) (uint, error) {
	return parseIDParam(ctx, "alert_id", "Alert")
}

func parseIDParam(ctx *gin.Context, param, label string) (uint, error) {
	idStr := ctx.Param(param)

	if idStr == "" {
		return 0, errors.New(label + " ID not found")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + label + " ID")
	}

	return uint(id), nil
}
