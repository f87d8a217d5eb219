package server

import "github.com/gin-gonic/gin"

// respond sends a JSON payload to the client.
func respond(ctx *gin.Context, code int, message string, payload interface{}, errs []error) {
	ctx.Abort()
	response := map[string]any{
		"message": message,
		"body":    payload,
	}
	if errs != nil {
		errMsgs := []string{}
		for _, err := range errs {
			errMsgs = append(errMsgs, err.Error())
		}
		response["errors"] = errMsgs
	}
	ctx.JSON(code, response)
}
