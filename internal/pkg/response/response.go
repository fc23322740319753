package response

import "github.com/gin-gonic/gin"

// Data writes the success envelope {"data": ...}.
func Data(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"data": data,
	})
}

// Errors writes the failure envelope {"errors": [...]}.
func Errors(c *gin.Context, statusCode int, messages ...string) {
	c.JSON(statusCode, gin.H{
		"errors": messages,
	})
}

// AbortErrors writes the failure envelope and stops the handler chain.
func AbortErrors(c *gin.Context, statusCode int, messages ...string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"errors": messages,
	})
}
