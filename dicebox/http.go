package dicebox

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// setupGin sets up the HTTP routes renderers and players use to watch and
// throw the dice.
func (d *DiceBox) setupGin() {
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()
	router.GET("/roll", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Snapshot())
	})
	router.POST("/roll", func(c *gin.Context) {
		c.JSON(http.StatusAccepted, gin.H{
			"accepted": d.RequestRoll(),
		})
	})
	router.GET("/dice", func(c *gin.Context) {
		s := d.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"count": len(s.Dice),
			"max":   d.conf.Dice.MaxCount,
			"dice":  s.Dice,
		})
	})
	router.PUT("/dice/:count", func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("count"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"reason": "count must be a number"})
			return
		}

		switch err = d.SetDiceCount(n); {
		case errors.Is(err, ErrInvalidDiceCount):
			c.JSON(http.StatusBadRequest, gin.H{"reason": err.Error()})
		case errors.Is(err, ErrRollInProgress):
			c.JSON(http.StatusConflict, gin.H{"reason": err.Error()})
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"reason": err.Error()})
		default:
			c.JSON(http.StatusOK, gin.H{"count": n})
		}
	})

	d.router = router
	d.srv = &http.Server{Addr: d.conf.DiceBox.HTTPAddress, Handler: router}
}
