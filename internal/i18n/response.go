package i18n

import (
	"errors"
	"net/http"

	"github.com/amoylab/tenantly/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RespondWithError writes err as an error body and aborts the chain.
// Errors without a kind are logged and reported as Internal.
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var ec *ErrorWithCode
	if !errors.As(err, &ec) {
		logger.FromContext(c.Request.Context(), nil).Error("unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		ec = ErrInternal
	}

	lang := LanguageFromRequest(c.Request)
	c.AbortWithStatusJSON(int(ec.GetCode()), ErrorBody{
		Error: ec.Translate(lang),
		Code:  ec.Kind(),
	})
}

// RespondWithSuccess sends a success response carrying a translated message
func RespondWithSuccess(c *gin.Context, statusCode int, msgID string, payload gin.H) {
	t := GetTranslator()
	message := msgID
	if t != nil {
		message = t.Translate(msgID, LanguageFromRequest(c.Request), nil)
	}

	response := gin.H{"message": message}
	for k, v := range payload {
		response[k] = v
	}
	c.JSON(statusCode, response)
}

// RespondOK sends a success response with status code 200
func RespondOK(c *gin.Context, msgID string, payload gin.H) {
	RespondWithSuccess(c, http.StatusOK, msgID, payload)
}
