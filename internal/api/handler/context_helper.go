package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/frederiksarhane/Studienfortschritt-Dashboard/pkg/response"
)

// MustGetSemesterNumber reads the :number path parameter.
// On a non-integer or non-positive value it writes a 400 response and
// returns false; the caller should return right away.
func MustGetSemesterNumber(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 {
		response.BadRequest(c, response.CodeInvalidParam, "semester number must be a positive integer")
		return 0, false
	}
	return n, true
}
